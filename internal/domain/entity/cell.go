package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Roles de celda: determinan qué estado de calidad puede almacenarse en ella.
const (
	CellRoleStandard = "STANDARD"
	CellRoleRejected = "REJECTED"
	CellRoleSamples  = "SAMPLES"
	CellRoleReturns  = "RETURNS"
)

// Estados de ocupación de celda.
const (
	CellAvailable = "AVAILABLE"
	CellOccupied  = "OCCUPIED"
)

// Cell es una posición de almacenamiento direccionable (fila.columna.posición)
// dentro de una bodega. Las celdas de pasillo (IsPassage) nunca reciben
// asignaciones. CurrentUsage refleja la suma de huellas de las asignaciones
// ACTIVE ubicadas en la celda.
type Cell struct {
	ID               string
	WarehouseID      string
	Row              string // fila, ej. "A"
	Bay              int    // columna
	Position         int
	Role             string
	IsPassage        bool
	AssignedClientID string // vacío = celda de uso general
	CapacityQuantity int64  // 0 = sin tope configurado
	CapacityWeight   decimal.Decimal
	CurrentUsage     Footprint
	Status           string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Code devuelve el código legible de la celda, ej. "A.02.01".
func (c *Cell) Code() string {
	return fmt.Sprintf("%s.%02d.%02d", c.Row, c.Bay, c.Position)
}

// AcceptsQuality indica si el rol de la celda admite el estado de calidad dado.
// Las celdas STANDARD reciben cuarentena y aprobado; los roles especiales
// solo su estado homónimo.
func (c *Cell) AcceptsQuality(quality string) bool {
	switch c.Role {
	case CellRoleStandard:
		return quality == QualityQuarantine || quality == QualityApproved
	case CellRoleRejected:
		return quality == QualityRejected
	case CellRoleSamples:
		return quality == QualitySamples
	case CellRoleReturns:
		return quality == QualityReturns
	}
	return false
}
