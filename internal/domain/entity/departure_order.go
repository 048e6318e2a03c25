package entity

import "time"

// Estados de una orden de salida.
const (
	DepartureApproved            = "APPROVED"
	DeparturePartiallyDispatched = "PARTIALLY_DISPATCHED"
	DepartureCompleted           = "COMPLETED"
)

// Estados de una reserva de salida (DepartureAllocation).
const (
	ReservationPending    = "PENDING"
	ReservationDispatched = "DISPATCHED"
)

// DepartureOrder agrupa líneas de producto solicitadas para salida.
type DepartureOrder struct {
	ID        string
	OrderNo   string // ej. "OS20260001"
	ClientID  string
	Status    string
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DepartureOrderLine es una cantidad solicitada de un producto.
// DispatchedQuantity acumula lo despachado en cada Dispatch.
type DepartureOrderLine struct {
	ID                 string
	OrderID            string
	ProductID          string
	RequestedQuantity  int64
	DispatchedQuantity int64
}

// FullyDispatched indica si la línea quedó totalmente cubierta.
func (l *DepartureOrderLine) FullyDispatched() bool {
	return l.DispatchedQuantity >= l.RequestedQuantity
}

// DepartureAllocation reserva una cantidad congelada de una asignación
// concreta para una línea de salida. Una vez despachada es permanente.
type DepartureAllocation struct {
	ID               string
	DepartureLineID  string
	AllocationID     string
	ReservedQuantity int64
	Status           string
	CreatedBy        string
	CreatedAt        time.Time
	DispatchedAt     *time.Time
}
