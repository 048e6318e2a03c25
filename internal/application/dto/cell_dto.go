package dto

import (
	"github.com/shopspring/decimal"

	"github.com/farmadepot/bodega-api/internal/domain/entity"
)

// CreateCellRequest body para POST /api/cells.
type CreateCellRequest struct {
	WarehouseID      string          `json:"warehouse_id" validate:"required"`
	Row              string          `json:"row" validate:"required,min=1,max=4"`
	Bay              int             `json:"bay" validate:"required,min=1"`
	Position         int             `json:"position" validate:"required,min=1"`
	Role             string          `json:"role" validate:"required,oneof=STANDARD REJECTED SAMPLES RETURNS"`
	IsPassage        bool            `json:"is_passage"`
	AssignedClientID string          `json:"assigned_client_id,omitempty"`
	CapacityQuantity int64           `json:"capacity_quantity" validate:"min=0"`
	CapacityWeight   decimal.Decimal `json:"capacity_weight"`
}

// CellResponse salida de una celda.
type CellResponse struct {
	ID               string          `json:"id"`
	WarehouseID      string          `json:"warehouse_id"`
	Code             string          `json:"code"` // fila.columna.posición, ej. "A.02.01"
	Row              string          `json:"row"`
	Bay              int             `json:"bay"`
	Position         int             `json:"position"`
	Role             string          `json:"role"`
	IsPassage        bool            `json:"is_passage"`
	AssignedClientID string          `json:"assigned_client_id,omitempty"`
	CapacityQuantity int64           `json:"capacity_quantity"`
	CapacityWeight   decimal.Decimal `json:"capacity_weight"`
	CurrentUsage     FootprintDTO    `json:"current_usage"`
	Status           string          `json:"status"`
}

// NewCellResponse mapea la entidad a su DTO.
func NewCellResponse(c *entity.Cell) CellResponse {
	return CellResponse{
		ID:               c.ID,
		WarehouseID:      c.WarehouseID,
		Code:             c.Code(),
		Row:              c.Row,
		Bay:              c.Bay,
		Position:         c.Position,
		Role:             c.Role,
		IsPassage:        c.IsPassage,
		AssignedClientID: c.AssignedClientID,
		CapacityQuantity: c.CapacityQuantity,
		CapacityWeight:   c.CapacityWeight,
		CurrentUsage:     NewFootprintDTO(c.CurrentUsage),
		Status:           c.Status,
	}
}
