package entity

import "time"

// Tipos de operación auditable.
const (
	AuditReceipt           = "RECEIPT"
	AuditQualityTransition = "QUALITY_TRANSITION"
	AuditDeparture         = "DEPARTURE"
)

// AuditLogEntry es un registro inmutable de una operación que afectó
// cantidades o estados. Delta es el cambio neto de inventario (+ingreso,
// −salida, 0 en transiciones); Quantity es la magnitud movida, para poder
// reconstruir la historia por producto y por celda.
type AuditLogEntry struct {
	ID            string
	TransactionID string // agrupa los registros de una misma transacción
	Kind          string
	ActorID       string
	AllocationID  string
	ProductID     string
	CellID        string
	Quantity      int64
	Delta         int64
	FromStatus    string
	ToStatus      string
	Reason        string
	CreatedAt     time.Time
}
