package ledger

import (
	"context"

	"github.com/farmadepot/bodega-api/internal/domain/repository"
)

// Repos agrupa los repositorios atados a una misma transacción.
type Repos struct {
	Allocations repository.AllocationRepository
	Cells       repository.CellRepository
	Records     repository.InventoryRecordRepository
	Audit       repository.AuditLogRepository
	Entries     repository.EntryOrderRepository
	Departures  repository.DepartureRepository
}

// TxRunner ejecuta una función dentro de una transacción del store, pasando
// repositorios atados a esa tx. Todas las escrituras (asignación, registro
// de inventario, celda, auditoría) confirman juntas o ninguna lo hace.
// El handle se inyecta explícitamente en cada caso de uso, lo que permite
// sustituir el store relacional por uno en memoria en los tests.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}
