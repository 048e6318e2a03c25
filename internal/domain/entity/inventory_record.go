package entity

import "time"

// Estados operativos de un registro de inventario. Espejan el estado de
// calidad de las asignaciones: APPROVED se publica como AVAILABLE; el resto
// se mantiene retenido bajo su propio estado.
const (
	RecordAvailable   = "AVAILABLE"
	RecordQuarantined = "QUARANTINED"
	RecordReturns     = "RETURNS"
	RecordSamples     = "SAMPLES"
	RecordRejected    = "REJECTED"
)

// RecordStatusFor mapea un estado de calidad al estado operativo del
// registro de inventario.
func RecordStatusFor(quality string) string {
	switch quality {
	case QualityApproved:
		return RecordAvailable
	case QualityQuarantine:
		return RecordQuarantined
	case QualityReturns:
		return RecordReturns
	case QualitySamples:
		return RecordSamples
	case QualityRejected:
		return RecordRejected
	}
	return ""
}

// InventoryRecord es la vista derivada por (producto, celda, estado) del
// saldo actual. La mantienen las mismas transacciones que mutan asignaciones.
type InventoryRecord struct {
	ProductID string
	CellID    string
	Status    string
	Balance   Footprint
	UpdatedAt time.Time
}
