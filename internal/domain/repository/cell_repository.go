package repository

import "github.com/farmadepot/bodega-api/internal/domain/entity"

// CellRepository define el puerto de persistencia para celdas de almacenamiento.
type CellRepository interface {
	Create(c *entity.Cell) error
	GetByID(id string) (*entity.Cell, error)
	// GetForUpdate bloquea la fila de la celda (SELECT FOR UPDATE) para
	// mutar ocupación sin condiciones de carrera.
	GetForUpdate(id string) (*entity.Cell, error)
	Update(c *entity.Cell) error
	ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.Cell, error)
}
