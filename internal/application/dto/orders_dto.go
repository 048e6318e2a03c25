package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/farmadepot/bodega-api/internal/domain/entity"
)

// EntryLineRequest una línea de mercadería recibida.
type EntryLineRequest struct {
	ProductID      string          `json:"product_id" validate:"required"`
	LotNumber      string          `json:"lot_number,omitempty"`
	ExpirationDate *time.Time      `json:"expiration_date,omitempty"`
	Quantity       int64           `json:"quantity" validate:"required,min=1"`
	Packages       int64           `json:"packages" validate:"min=0"`
	Weight         decimal.Decimal `json:"weight"`
	Volume         decimal.Decimal `json:"volume"`
}

// CreateEntryOrderRequest body para POST /api/entry-orders.
type CreateEntryOrderRequest struct {
	ClientID    string             `json:"client_id" validate:"required"`
	Observation string             `json:"observation,omitempty"`
	Lines       []EntryLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// ReviewEntryOrderRequest body para PATCH /api/entry-orders/:id/review.
type ReviewEntryOrderRequest struct {
	Approve bool `json:"approve"`
}

// EntryOrderResponse salida de una orden de ingreso.
type EntryOrderResponse struct {
	ID          string    `json:"id"`
	OrderNo     string    `json:"order_no"`
	ClientID    string    `json:"client_id"`
	Status      string    `json:"status"`
	Observation string    `json:"observation,omitempty"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewEntryOrderResponse mapea la entidad a su DTO.
func NewEntryOrderResponse(o *entity.EntryOrder) EntryOrderResponse {
	return EntryOrderResponse{
		ID:          o.ID,
		OrderNo:     o.OrderNo,
		ClientID:    o.ClientID,
		Status:      o.Status,
		Observation: o.Observation,
		CreatedBy:   o.CreatedBy,
		CreatedAt:   o.CreatedAt,
	}
}

// NewEntryOrderResponses mapea una lista de órdenes de ingreso.
func NewEntryOrderResponses(os []*entity.EntryOrder) []EntryOrderResponse {
	out := make([]EntryOrderResponse, 0, len(os))
	for _, o := range os {
		out = append(out, NewEntryOrderResponse(o))
	}
	return out
}

// EntryOrderLineResponse salida de una línea de ingreso.
type EntryOrderLineResponse struct {
	ID             string          `json:"id"`
	OrderID        string          `json:"order_id"`
	ProductID      string          `json:"product_id"`
	LotNumber      string          `json:"lot_number,omitempty"`
	ExpirationDate *time.Time      `json:"expiration_date,omitempty"`
	Quantity       int64           `json:"quantity"`
	Packages       int64           `json:"packages"`
	Weight         decimal.Decimal `json:"weight"`
	Volume         decimal.Decimal `json:"volume"`
	ReceivedAt     time.Time       `json:"received_at"`
}

// NewEntryOrderLineResponse mapea la línea a su DTO.
func NewEntryOrderLineResponse(l *entity.EntryOrderLine) EntryOrderLineResponse {
	return EntryOrderLineResponse{
		ID:             l.ID,
		OrderID:        l.OrderID,
		ProductID:      l.ProductID,
		LotNumber:      l.LotNumber,
		ExpirationDate: l.ExpirationDate,
		Quantity:       l.Quantity,
		Packages:       l.Packages,
		Weight:         l.Weight,
		Volume:         l.Volume,
		ReceivedAt:     l.ReceivedAt,
	}
}

// DepartureLineRequest una cantidad solicitada de un producto.
type DepartureLineRequest struct {
	ProductID         string `json:"product_id" validate:"required"`
	RequestedQuantity int64  `json:"requested_quantity" validate:"required,min=1"`
}

// CreateDepartureOrderRequest body para POST /api/departure-orders.
type CreateDepartureOrderRequest struct {
	ClientID string                 `json:"client_id" validate:"required"`
	Lines    []DepartureLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// DepartureOrderResponse salida de una orden de salida.
type DepartureOrderResponse struct {
	ID        string    `json:"id"`
	OrderNo   string    `json:"order_no"`
	ClientID  string    `json:"client_id"`
	Status    string    `json:"status"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// NewDepartureOrderResponse mapea la entidad a su DTO.
func NewDepartureOrderResponse(o *entity.DepartureOrder) DepartureOrderResponse {
	return DepartureOrderResponse{
		ID:        o.ID,
		OrderNo:   o.OrderNo,
		ClientID:  o.ClientID,
		Status:    o.Status,
		CreatedBy: o.CreatedBy,
		CreatedAt: o.CreatedAt,
	}
}

// NewDepartureOrderResponses mapea una lista de órdenes de salida.
func NewDepartureOrderResponses(os []*entity.DepartureOrder) []DepartureOrderResponse {
	out := make([]DepartureOrderResponse, 0, len(os))
	for _, o := range os {
		out = append(out, NewDepartureOrderResponse(o))
	}
	return out
}

// DepartureOrderLineResponse salida de una línea de salida.
type DepartureOrderLineResponse struct {
	ID                 string `json:"id"`
	OrderID            string `json:"order_id"`
	ProductID          string `json:"product_id"`
	RequestedQuantity  int64  `json:"requested_quantity"`
	DispatchedQuantity int64  `json:"dispatched_quantity"`
}

// NewDepartureOrderLineResponse mapea la línea a su DTO.
func NewDepartureOrderLineResponse(l *entity.DepartureOrderLine) DepartureOrderLineResponse {
	return DepartureOrderLineResponse{
		ID:                 l.ID,
		OrderID:            l.OrderID,
		ProductID:          l.ProductID,
		RequestedQuantity:  l.RequestedQuantity,
		DispatchedQuantity: l.DispatchedQuantity,
	}
}
