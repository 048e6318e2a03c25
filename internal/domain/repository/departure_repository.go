package repository

import "github.com/farmadepot/bodega-api/internal/domain/entity"

// DepartureRepository define el puerto de persistencia para órdenes de
// salida, sus líneas y sus reservas (departure allocations).
type DepartureRepository interface {
	CreateOrder(o *entity.DepartureOrder, lines []*entity.DepartureOrderLine) error
	GetOrderByID(id string) (*entity.DepartureOrder, error)
	GetOrderForUpdate(id string) (*entity.DepartureOrder, error)
	UpdateOrderStatus(id, status string) error
	ListOrdersByClient(clientIDs []string, limit, offset int) ([]*entity.DepartureOrder, error)
	CountOrdersByYear(year int) (int64, error)

	GetLineByID(id string) (*entity.DepartureOrderLine, error)
	ListLinesByOrder(orderID string) ([]*entity.DepartureOrderLine, error)
	UpdateLine(l *entity.DepartureOrderLine) error

	CreateReservation(da *entity.DepartureAllocation) error
	ListPendingByOrder(orderID string) ([]*entity.DepartureAllocation, error)
	// SumPendingByAllocation suma las reservas PENDING sobre una asignación:
	// la disponibilidad real es remaining − pendiente.
	SumPendingByAllocation(allocationID string) (int64, error)
	UpdateReservation(da *entity.DepartureAllocation) error
}
