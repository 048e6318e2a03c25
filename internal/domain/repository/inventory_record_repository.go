package repository

import "github.com/farmadepot/bodega-api/internal/domain/entity"

// InventoryRecordRepository define el puerto para la vista derivada de
// inventario por (producto, celda, estado).
type InventoryRecordRepository interface {
	Get(productID, cellID, status string) (*entity.InventoryRecord, error)
	GetForUpdate(productID, cellID, status string) (*entity.InventoryRecord, error)
	Upsert(rec *entity.InventoryRecord) error
	ListByCell(cellID string) ([]*entity.InventoryRecord, error)
	ListByProduct(productID string) ([]*entity.InventoryRecord, error)
}
