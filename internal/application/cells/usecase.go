// Package cells implementa la administración de celdas de almacenamiento.
package cells

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmadepot/bodega-api/internal/domain"
	"github.com/farmadepot/bodega-api/internal/domain/entity"
	"github.com/farmadepot/bodega-api/internal/domain/repository"
)

// UseCase administra celdas.
type UseCase struct {
	cells repository.CellRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(cells repository.CellRepository) *UseCase {
	return &UseCase{cells: cells}
}

// CreateInput entrada para registrar una celda.
type CreateInput struct {
	WarehouseID      string
	Row              string
	Bay              int
	Position         int
	Role             string
	IsPassage        bool
	AssignedClientID string
	CapacityQuantity int64
	CapacityWeight   decimal.Decimal
}

// Create registra una celda nueva, AVAILABLE y sin ocupación.
func (uc *UseCase) Create(ctx context.Context, in CreateInput, actor entity.Actor) (*entity.Cell, error) {
	if actor.Role != entity.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	if in.WarehouseID == "" || in.Row == "" || in.Bay <= 0 || in.Position <= 0 {
		return nil, domain.ErrInvalidInput
	}
	switch in.Role {
	case entity.CellRoleStandard, entity.CellRoleRejected, entity.CellRoleSamples, entity.CellRoleReturns:
	default:
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	c := &entity.Cell{
		ID:               uuid.New().String(),
		WarehouseID:      in.WarehouseID,
		Row:              in.Row,
		Bay:              in.Bay,
		Position:         in.Position,
		Role:             in.Role,
		IsPassage:        in.IsPassage,
		AssignedClientID: in.AssignedClientID,
		CapacityQuantity: in.CapacityQuantity,
		CapacityWeight:   in.CapacityWeight,
		Status:           entity.CellAvailable,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.cells.Create(c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListByWarehouse lista las celdas de una bodega con paginación.
func (uc *UseCase) ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.Cell, error) {
	if warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.cells.ListByWarehouse(warehouseID, limit, offset)
}
