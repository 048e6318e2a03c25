package repository

import "github.com/farmadepot/bodega-api/internal/domain/entity"

// EntryOrderRepository define el puerto de persistencia para órdenes de ingreso.
type EntryOrderRepository interface {
	CreateOrder(o *entity.EntryOrder, lines []*entity.EntryOrderLine) error
	GetOrderByID(id string) (*entity.EntryOrder, error)
	UpdateOrderStatus(id, status string) error
	GetLineByID(id string) (*entity.EntryOrderLine, error)
	ListLinesByOrder(orderID string) ([]*entity.EntryOrderLine, error)
	ListOrdersByClient(clientIDs []string, limit, offset int) ([]*entity.EntryOrder, error)
	// CountOrdersByYear soporta la asignación serializada de números de orden.
	CountOrdersByYear(year int) (int64, error)
}
