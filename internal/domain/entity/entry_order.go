package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de ingreso. Solo las órdenes APPROVED alimentan
// al motor de asignación.
const (
	EntryOrderPending  = "PENDING"
	EntryOrderApproved = "APPROVED"
	EntryOrderRejected = "REJECTED"
)

// EntryOrder agrupa líneas de mercadería recibida de un cliente,
// pendiente de revisión antes de poder ubicarse en celdas.
type EntryOrder struct {
	ID          string
	OrderNo     string // ej. "OI20260001"
	ClientID    string
	Status      string
	Observation string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EntryOrderLine es una línea de producto recibida. Inmutable una vez
// aprobada la orden: las asignaciones solo consumen su saldo.
type EntryOrderLine struct {
	ID             string
	OrderID        string
	ProductID      string
	LotNumber      string
	ExpirationDate *time.Time
	Quantity       int64
	Packages       int64
	Weight         decimal.Decimal // kg
	Volume         decimal.Decimal // m³
	ReceivedAt     time.Time
}

// Footprint devuelve la huella física total de la línea.
func (l *EntryOrderLine) Footprint() Footprint {
	return Footprint{Quantity: l.Quantity, Packages: l.Packages, Weight: l.Weight, Volume: l.Volume}
}
