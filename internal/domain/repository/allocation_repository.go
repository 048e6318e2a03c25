package repository

import "github.com/farmadepot/bodega-api/internal/domain/entity"

// AllocationRepository define el puerto de persistencia para asignaciones.
// Las variantes ForUpdate bloquean la fila (SELECT FOR UPDATE) y deben usarse
// dentro de transacciones antes de cualquier escritura.
type AllocationRepository interface {
	Create(a *entity.Allocation) error
	GetByID(id string) (*entity.Allocation, error)
	GetForUpdate(id string) (*entity.Allocation, error)
	Update(a *entity.Allocation) error

	// SumAllocatedByEntryLine suma la huella inicial asignada por recepción
	// directa (origen RECEIPT) de una línea de ingreso, para validar el
	// saldo sin asignar. Las ramas SPLIT no cuentan: su huella ya fue
	// contada por la asignación madre.
	SumAllocatedByEntryLine(lineID string) (entity.Footprint, error)

	// ListSelectableByProduct devuelve candidatas FIFO: APPROVED/ACTIVE con
	// saldo, ordenadas por vencimiento, recepción e ID. clientIDs no nil
	// restringe por cliente.
	ListSelectableByProduct(productID string, clientIDs []string) ([]*entity.Allocation, error)

	// ListByProductAndQuality y ListByCell son las vistas de lectura para
	// colaboradores de reportes. quality vacío = todos los estados.
	ListByProductAndQuality(productID, quality string, clientIDs []string) ([]*entity.Allocation, error)
	ListByCell(cellID string, clientIDs []string) ([]*entity.Allocation, error)
}
