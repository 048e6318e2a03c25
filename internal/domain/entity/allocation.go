package entity

import "time"

// Estados de calidad farmacéutica de una asignación.
// QUARANTINE es el único estado de origen; los demás son ramas terminales.
const (
	QualityQuarantine = "QUARANTINE"
	QualityApproved   = "APPROVED"
	QualityReturns    = "RETURNS"
	QualitySamples    = "SAMPLES"
	QualityRejected   = "REJECTED"
)

// Estados de ciclo de vida de una asignación.
const (
	LifecycleActive   = "ACTIVE"
	LifecycleDepleted = "DEPLETED"
)

// Origen de una asignación: recepción directa de una línea de ingreso,
// o rama creada por una transición parcial de calidad.
const (
	OriginReceipt = "RECEIPT"
	OriginSplit   = "SPLIT"
)

// Allocation vincula una cantidad de producto de una línea de orden de
// ingreso con una celda de almacenamiento y un estado de calidad. Nunca se
// elimina: es la unidad durable de auditoría. Al agotarse pasa a DEPLETED.
type Allocation struct {
	ID              string
	EntryLineID     string
	ClientID        string
	ProductID       string
	CellID          string
	LotNumber       string
	ExpirationDate  *time.Time
	ReceivedAt      time.Time // copia de la línea de ingreso, ordena el FIFO
	Origin          string    // RECEIPT | SPLIT
	Initial         Footprint // huella asignada al crearse (conservación por línea)
	Remaining       Footprint
	QualityStatus   string
	LifecycleStatus string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsSelectable indica si la asignación puede entrar en un plan FIFO de salida.
func (a *Allocation) IsSelectable() bool {
	return a.QualityStatus == QualityApproved &&
		a.LifecycleStatus == LifecycleActive &&
		a.Remaining.Quantity > 0
}

// ValidQualityTransition valida el conjunto cerrado de transiciones:
// solo desde QUARANTINE hacia una rama terminal.
func ValidQualityTransition(from, to string) bool {
	if from != QualityQuarantine {
		return false
	}
	switch to {
	case QualityApproved, QualityReturns, QualitySamples, QualityRejected:
		return true
	}
	return false
}
