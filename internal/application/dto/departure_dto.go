package dto

import (
	"time"

	"github.com/farmadepot/bodega-api/internal/domain/entity"
	"github.com/farmadepot/bodega-api/internal/domain/fifo"
)

// PickDTO una toma planificada sobre una asignación concreta.
type PickDTO struct {
	AllocationID string `json:"allocation_id" validate:"required,uuid"`
	Quantity     int64  `json:"quantity" validate:"required,min=1"`
}

// PlanResponse salida de la sugerencia FIFO.
type PlanResponse struct {
	ProductID string    `json:"product_id"`
	Requested int64     `json:"requested"`
	Picks     []PickDTO `json:"picks"`
}

// NewPlanResponse mapea el plan a su DTO.
func NewPlanResponse(p fifo.Plan) PlanResponse {
	picks := make([]PickDTO, 0, len(p.Picks))
	for _, pk := range p.Picks {
		picks = append(picks, PickDTO{AllocationID: pk.AllocationID, Quantity: pk.Quantity})
	}
	return PlanResponse{ProductID: p.ProductID, Requested: p.Requested, Picks: picks}
}

// ReserveRequest body para POST /api/departure-lines/:id/reserve. El plan
// puede venir de la sugerencia o armarse a mano; la reserva lo revalida.
type ReserveRequest struct {
	ProductID string    `json:"product_id" validate:"required"`
	Requested int64     `json:"requested" validate:"required,min=1"`
	Picks     []PickDTO `json:"picks" validate:"required,min=1,dive"`
}

// Plan convierte el request al plan del dominio.
func (r ReserveRequest) Plan() fifo.Plan {
	picks := make([]fifo.Pick, 0, len(r.Picks))
	for _, pk := range r.Picks {
		picks = append(picks, fifo.Pick{AllocationID: pk.AllocationID, Quantity: pk.Quantity})
	}
	return fifo.Plan{ProductID: r.ProductID, Requested: r.Requested, Picks: picks}
}

// ReservationResponse salida de una reserva congelada.
type ReservationResponse struct {
	ID               string     `json:"id"`
	DepartureLineID  string     `json:"departure_line_id"`
	AllocationID     string     `json:"allocation_id"`
	ReservedQuantity int64      `json:"reserved_quantity"`
	Status           string     `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
	DispatchedAt     *time.Time `json:"dispatched_at,omitempty"`
}

// NewReservationResponses mapea las reservas a sus DTO.
func NewReservationResponses(das []*entity.DepartureAllocation) []ReservationResponse {
	out := make([]ReservationResponse, 0, len(das))
	for _, da := range das {
		out = append(out, ReservationResponse{
			ID:               da.ID,
			DepartureLineID:  da.DepartureLineID,
			AllocationID:     da.AllocationID,
			ReservedQuantity: da.ReservedQuantity,
			Status:           da.Status,
			CreatedAt:        da.CreatedAt,
			DispatchedAt:     da.DispatchedAt,
		})
	}
	return out
}

// DispatchResponse salida del despacho: estado final de la orden.
type DispatchResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}
