// Package ledger contiene la primitiva transaccional compartida por el motor
// de asignación, la máquina de estados de calidad y el despacho de salidas.
// Toda mutación de saldo pasa por Apply: actualizar la asignación, ajustar los
// registros de inventario, mover la ocupación de celdas y dejar exactamente un
// registro de auditoría por asignación afectada.
package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/farmadepot/bodega-api/internal/domain"
	"github.com/farmadepot/bodega-api/internal/domain/entity"
)

// Policy son las políticas configurables del libro de celdas.
type Policy struct {
	// EnforceCellCapacity activa el tope duro de capacidad por celda
	// (CapacityQuantity / CapacityWeight). Apagado por defecto.
	EnforceCellCapacity bool
}

// Endpoint identifica un lado del movimiento: la celda y el estado operativo
// del registro de inventario que recibe (o entrega) la huella.
type Endpoint struct {
	CellID       string
	RecordStatus string
}

// Delta describe un cambio atómico sobre una asignación ya cargada y
// bloqueada por el caller. From entrega la huella, To la recibe; cualquiera
// puede ser nil (recepciones solo tienen To, despachos solo From).
type Delta struct {
	TransactionID string
	Kind          string // RECEIPT | QUALITY_TRANSITION | DEPARTURE
	Actor         entity.Actor
	Allocation    *entity.Allocation // estado final, ya mutado por el caller
	CreateRow     bool               // insertar en vez de actualizar
	Footprint     entity.Footprint   // magnitud movida, siempre positiva
	From          *Endpoint
	To            *Endpoint
	FromStatus    string // estado de calidad origen (auditoría)
	ToStatus      string
	Reason        string
	Now           time.Time
}

// netDelta devuelve el cambio neto de inventario para auditoría:
// +cantidad en recepciones, −cantidad en despachos, 0 en transiciones.
func (d Delta) netDelta() int64 {
	switch d.Kind {
	case entity.AuditReceipt:
		return d.Footprint.Quantity
	case entity.AuditDeparture:
		return -d.Footprint.Quantity
	}
	return 0
}

// Apply ejecuta el cambio completo dentro de la transacción del caller:
//
//  1. persiste la asignación (create o update),
//  2. descuenta la huella del registro de inventario origen y la suma al destino,
//  3. ajusta la ocupación de las celdas involucradas (omitida si origen y
//     destino son la misma celda: el neto es cero),
//  4. agrega exactamente un registro de auditoría.
//
// El invariante de auditoría no puede saltarse: no hay otro camino de escritura.
func Apply(r Repos, pol Policy, d Delta) error {
	if d.Allocation == nil || d.Footprint.Quantity < 0 {
		return domain.ErrInvalidInput
	}
	d.Allocation.UpdatedAt = d.Now

	if d.CreateRow {
		if err := r.Allocations.Create(d.Allocation); err != nil {
			return err
		}
	} else {
		if err := r.Allocations.Update(d.Allocation); err != nil {
			return err
		}
	}

	if d.From != nil {
		if err := applyRecordDelta(r, d.Allocation.ProductID, *d.From, d.Footprint, -1, d.Now); err != nil {
			return err
		}
	}
	if d.To != nil {
		if err := applyRecordDelta(r, d.Allocation.ProductID, *d.To, d.Footprint, +1, d.Now); err != nil {
			return err
		}
	}

	sameCell := d.From != nil && d.To != nil && d.From.CellID == d.To.CellID
	if !sameCell {
		if d.From != nil {
			if err := ApplyCellDelta(r.Cells, pol, d.From.CellID, d.Footprint, -1, d.Now); err != nil {
				return err
			}
		}
		if d.To != nil {
			if err := ApplyCellDelta(r.Cells, pol, d.To.CellID, d.Footprint, +1, d.Now); err != nil {
				return err
			}
		}
	}

	return r.Audit.Create(&entity.AuditLogEntry{
		ID:            uuid.New().String(),
		TransactionID: d.TransactionID,
		Kind:          d.Kind,
		ActorID:       d.Actor.UserID,
		AllocationID:  d.Allocation.ID,
		ProductID:     d.Allocation.ProductID,
		CellID:        d.Allocation.CellID,
		Quantity:      d.Footprint.Quantity,
		Delta:         d.netDelta(),
		FromStatus:    d.FromStatus,
		ToStatus:      d.ToStatus,
		Reason:        d.Reason,
		CreatedAt:     d.Now,
	})
}

// applyRecordDelta suma o resta la huella en el registro (producto, celda,
// estado), bloqueando la fila antes de escribir.
func applyRecordDelta(r Repos, productID string, ep Endpoint, fp entity.Footprint, sign int, now time.Time) error {
	rec, err := r.Records.GetForUpdate(productID, ep.CellID, ep.RecordStatus)
	if err != nil {
		return err
	}
	if rec == nil {
		rec = &entity.InventoryRecord{ProductID: productID, CellID: ep.CellID, Status: ep.RecordStatus}
	}
	if sign >= 0 {
		rec.Balance = rec.Balance.Add(fp)
	} else {
		rec.Balance = rec.Balance.Sub(fp)
	}
	if rec.Balance.IsNegative() {
		return domain.ErrInventoryInconsistent
	}
	rec.UpdatedAt = now
	return r.Records.Upsert(rec)
}
