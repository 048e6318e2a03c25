package repository

import "github.com/farmadepot/bodega-api/internal/domain/entity"

// AuditLogRepository define el puerto del registro de auditoría (solo append).
type AuditLogRepository interface {
	Create(e *entity.AuditLogEntry) error
	ListByProduct(productID string, limit, offset int) ([]*entity.AuditLogEntry, error)
	ListByCell(cellID string, limit, offset int) ([]*entity.AuditLogEntry, error)
	ListByAllocation(allocationID string) ([]*entity.AuditLogEntry, error)
}
