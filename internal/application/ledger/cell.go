package ledger

import (
	"time"

	"github.com/farmadepot/bodega-api/internal/domain"
	"github.com/farmadepot/bodega-api/internal/domain/entity"
	"github.com/farmadepot/bodega-api/internal/domain/repository"
)

// ApplyCellDelta es el único punto de mutación de ocupación de celdas:
// lee la fila con bloqueo, aplica la huella con el signo dado y resuelve la
// transición AVAILABLE↔OCCUPIED. Las celdas de pasillo se rechazan siempre.
func ApplyCellDelta(cells repository.CellRepository, pol Policy, cellID string, fp entity.Footprint, sign int, now time.Time) error {
	cell, err := cells.GetForUpdate(cellID)
	if err != nil {
		return err
	}
	if cell == nil {
		return domain.ErrNotFound
	}
	if cell.IsPassage {
		return domain.ErrCellUnavailable
	}

	if sign >= 0 {
		cell.CurrentUsage = cell.CurrentUsage.Add(fp)
	} else {
		cell.CurrentUsage = cell.CurrentUsage.Sub(fp)
	}
	if cell.CurrentUsage.IsNegative() {
		// Descontar más de lo ocupado solo puede pasar si el estado cambió
		// entre lectura y escritura fuera de una transacción.
		return domain.ErrInventoryInconsistent
	}
	if sign >= 0 && pol.EnforceCellCapacity && exceedsCapacity(cell) {
		return domain.ErrCellUnavailable
	}

	if cell.CurrentUsage.IsZero() {
		cell.Status = entity.CellAvailable
	} else {
		cell.Status = entity.CellOccupied
	}
	cell.UpdatedAt = now
	return cells.Update(cell)
}

func exceedsCapacity(c *entity.Cell) bool {
	if c.CapacityQuantity > 0 && c.CurrentUsage.Quantity > c.CapacityQuantity {
		return true
	}
	if c.CapacityWeight.IsPositive() && c.CurrentUsage.Weight.GreaterThan(c.CapacityWeight) {
		return true
	}
	return false
}
