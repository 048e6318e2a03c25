package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/farmadepot/bodega-api/internal/domain/entity"
)

// FootprintDTO huella física serializada (unidades, bultos, kg, m³).
type FootprintDTO struct {
	Quantity int64           `json:"quantity"`
	Packages int64           `json:"packages"`
	Weight   decimal.Decimal `json:"weight"`
	Volume   decimal.Decimal `json:"volume"`
}

// NewFootprintDTO mapea la huella a su DTO.
func NewFootprintDTO(f entity.Footprint) FootprintDTO {
	return FootprintDTO{Quantity: f.Quantity, Packages: f.Packages, Weight: f.Weight, Volume: f.Volume}
}

// AllocateRequest body para POST /api/allocations.
type AllocateRequest struct {
	EntryLineID string          `json:"entry_line_id" validate:"required,uuid"`
	CellID      string          `json:"cell_id" validate:"required,uuid"`
	Quantity    int64           `json:"quantity" validate:"required,min=1"`
	Packages    int64           `json:"packages" validate:"min=0"`
	Weight      decimal.Decimal `json:"weight"`
	Volume      decimal.Decimal `json:"volume"`
}

// AllocationResponse salida de una asignación.
type AllocationResponse struct {
	ID              string       `json:"id"`
	EntryLineID     string       `json:"entry_line_id"`
	ClientID        string       `json:"client_id"`
	ProductID       string       `json:"product_id"`
	CellID          string       `json:"cell_id"`
	LotNumber       string       `json:"lot_number"`
	ExpirationDate  *time.Time   `json:"expiration_date,omitempty"`
	ReceivedAt      time.Time    `json:"received_at"`
	Origin          string       `json:"origin"`
	Initial         FootprintDTO `json:"initial"`
	Remaining       FootprintDTO `json:"remaining"`
	QualityStatus   string       `json:"quality_status"`
	LifecycleStatus string       `json:"lifecycle_status"`
	CreatedAt       time.Time    `json:"created_at"`
}

// NewAllocationResponse mapea la entidad a su DTO.
func NewAllocationResponse(a *entity.Allocation) AllocationResponse {
	return AllocationResponse{
		ID:              a.ID,
		EntryLineID:     a.EntryLineID,
		ClientID:        a.ClientID,
		ProductID:       a.ProductID,
		CellID:          a.CellID,
		LotNumber:       a.LotNumber,
		ExpirationDate:  a.ExpirationDate,
		ReceivedAt:      a.ReceivedAt,
		Origin:          a.Origin,
		Initial:         NewFootprintDTO(a.Initial),
		Remaining:       NewFootprintDTO(a.Remaining),
		QualityStatus:   a.QualityStatus,
		LifecycleStatus: a.LifecycleStatus,
		CreatedAt:       a.CreatedAt,
	}
}

// NewAllocationResponses mapea una lista de asignaciones.
func NewAllocationResponses(as []*entity.Allocation) []AllocationResponse {
	out := make([]AllocationResponse, 0, len(as))
	for _, a := range as {
		out = append(out, NewAllocationResponse(a))
	}
	return out
}
