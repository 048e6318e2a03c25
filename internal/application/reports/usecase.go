// Package reports expone las vistas de lectura del núcleo para los
// colaboradores de reporte y exportación: asignaciones por calidad,
// inventario por celda, historial de auditoría y el PDF de inventario.
package reports

import (
	"context"

	"github.com/farmadepot/bodega-api/internal/domain"
	"github.com/farmadepot/bodega-api/internal/domain/entity"
	"github.com/farmadepot/bodega-api/internal/domain/repository"
)

// PDFGenerator es el puerto de generación del reporte de inventario por celda.
type PDFGenerator interface {
	InventoryByCellPDF(ctx context.Context, cell *entity.Cell, records []*entity.InventoryRecord) ([]byte, error)
}

// UseCase agrupa las consultas de solo lectura del núcleo.
type UseCase struct {
	allocations repository.AllocationRepository
	records     repository.InventoryRecordRepository
	cells       repository.CellRepository
	audit       repository.AuditLogRepository
	pdf         PDFGenerator
}

// NewUseCase construye el caso de uso sobre repositorios del pool.
func NewUseCase(
	allocations repository.AllocationRepository,
	records repository.InventoryRecordRepository,
	cells repository.CellRepository,
	audit repository.AuditLogRepository,
	pdf PDFGenerator,
) *UseCase {
	return &UseCase{allocations: allocations, records: records, cells: cells, audit: audit, pdf: pdf}
}

// AllocationsByQuality lista asignaciones de un producto filtradas por estado
// de calidad, respetando el alcance del actor. quality vacío = todos.
func (uc *UseCase) AllocationsByQuality(ctx context.Context, productID, quality string, scope entity.ScopeFilter) ([]*entity.Allocation, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.allocations.ListByProductAndQuality(productID, quality, scope.ClientFilter())
}

// AllocationsByCell lista las asignaciones ubicadas en una celda.
func (uc *UseCase) AllocationsByCell(ctx context.Context, cellID string, scope entity.ScopeFilter) ([]*entity.Allocation, error) {
	if cellID == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.checkCellScope(cellID, scope); err != nil {
		return nil, err
	}
	return uc.allocations.ListByCell(cellID, scope.ClientFilter())
}

// InventoryByCell devuelve los saldos derivados por estado de una celda.
func (uc *UseCase) InventoryByCell(ctx context.Context, cellID string, scope entity.ScopeFilter) ([]*entity.InventoryRecord, error) {
	if cellID == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.checkCellScope(cellID, scope); err != nil {
		return nil, err
	}
	return uc.records.ListByCell(cellID)
}

// InventoryByCellPDF genera el reporte PDF del inventario de una celda.
func (uc *UseCase) InventoryByCellPDF(ctx context.Context, cellID string, scope entity.ScopeFilter) ([]byte, error) {
	if cellID == "" {
		return nil, domain.ErrInvalidInput
	}
	cell, err := uc.cells.GetByID(cellID)
	if err != nil {
		return nil, err
	}
	if cell == nil {
		return nil, domain.ErrNotFound
	}
	if !scope.AllowsCell(cell) {
		return nil, domain.ErrScopeDenied
	}
	records, err := uc.records.ListByCell(cellID)
	if err != nil {
		return nil, err
	}
	return uc.pdf.InventoryByCellPDF(ctx, cell, records)
}

// AuditByProduct devuelve la historia de cantidades de un producto.
func (uc *UseCase) AuditByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.AuditLogEntry, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.audit.ListByProduct(productID, limit, offset)
}

// AuditByCell devuelve la historia de cantidades de una celda.
func (uc *UseCase) AuditByCell(ctx context.Context, cellID string, limit, offset int) ([]*entity.AuditLogEntry, error) {
	if cellID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.audit.ListByCell(cellID, limit, offset)
}

func (uc *UseCase) checkCellScope(cellID string, scope entity.ScopeFilter) error {
	if !scope.Restricted() {
		return nil
	}
	cell, err := uc.cells.GetByID(cellID)
	if err != nil {
		return err
	}
	if cell == nil {
		return domain.ErrNotFound
	}
	if !scope.AllowsCell(cell) {
		return domain.ErrScopeDenied
	}
	return nil
}
