// Package quality implementa la máquina de estados de calidad farmacéutica:
// mover todo o parte de una asignación desde QUARANTINE hacia una rama
// terminal (APPROVED, RETURNS, SAMPLES, REJECTED), con o sin reubicación.
package quality

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/farmadepot/bodega-api/internal/application/ledger"
	"github.com/farmadepot/bodega-api/internal/domain"
	"github.com/farmadepot/bodega-api/internal/domain/entity"
)

// UseCase ejecuta transiciones de calidad de forma transaccional.
type UseCase struct {
	tx     ledger.TxRunner
	policy ledger.Policy
}

// NewUseCase construye el caso de uso.
func NewUseCase(tx ledger.TxRunner, policy ledger.Policy) *UseCase {
	return &UseCase{tx: tx, policy: policy}
}

// TransitionInput entrada de una transición. NewCellID vacío deja la
// mercadería en su celda actual.
type TransitionInput struct {
	AllocationID string
	ToStatus     string
	Quantity     int64
	NewCellID    string
	Reason       string
	Actor        entity.Actor
}

// Result es el resultado de una transición: la asignación actualizada y,
// si hubo split parcial, la rama nueva en el estado destino.
type Result struct {
	Updated *entity.Allocation
	Branch  *entity.Allocation
}

// Transition mueve quantity unidades de la asignación al estado destino.
// Cantidad completa: muta la asignación en el lugar. Cantidad parcial:
// descuenta la huella prorrateada y crea una rama nueva que hereda línea,
// producto, lote y vencimiento. Un split deja dos registros de auditoría,
// uno por asignación afectada; ambos con delta neto cero.
func (uc *UseCase) Transition(ctx context.Context, in TransitionInput) (*Result, error) {
	if in.AllocationID == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	txID := uuid.New().String()
	res := &Result{}

	err := uc.tx.Run(ctx, func(r ledger.Repos) error {
		a, err := r.Allocations.GetForUpdate(in.AllocationID)
		if err != nil {
			return err
		}
		if a == nil {
			return domain.ErrNotFound
		}
		scope := in.Actor.Scope()
		if !scope.AllowsClient(a.ClientID) {
			return domain.ErrScopeDenied
		}
		if !entity.ValidQualityTransition(a.QualityStatus, in.ToStatus) {
			return domain.ErrInvalidTransition
		}
		if in.Quantity > a.Remaining.Quantity {
			return domain.ErrInsufficientQuantity
		}

		destCellID := a.CellID
		if in.NewCellID != "" && in.NewCellID != a.CellID {
			dest, err := r.Cells.GetByID(in.NewCellID)
			if err != nil {
				return err
			}
			if dest == nil {
				return domain.ErrNotFound
			}
			if dest.IsPassage {
				return domain.ErrCellUnavailable
			}
			// El rol de la celda destino debe admitir el estado destino
			// (rechazados a celdas de rechazo, muestras a muestrario, etc.).
			if !dest.AcceptsQuality(in.ToStatus) {
				return domain.ErrInvalidTransition
			}
			if !scope.AllowsCell(dest) {
				return domain.ErrScopeDenied
			}
			destCellID = dest.ID
		}

		fromStatus := a.QualityStatus
		fromCellID := a.CellID
		fp := a.Remaining.Prorate(in.Quantity)

		if in.Quantity == a.Remaining.Quantity {
			// Transición completa: mutar en el lugar.
			a.QualityStatus = in.ToStatus
			a.CellID = destCellID
			res.Updated = a
			return ledger.Apply(r, uc.policy, ledger.Delta{
				TransactionID: txID,
				Kind:          entity.AuditQualityTransition,
				Actor:         in.Actor,
				Allocation:    a,
				Footprint:     fp,
				From:          &ledger.Endpoint{CellID: fromCellID, RecordStatus: entity.RecordStatusFor(fromStatus)},
				To:            &ledger.Endpoint{CellID: destCellID, RecordStatus: entity.RecordStatusFor(in.ToStatus)},
				FromStatus:    fromStatus,
				ToStatus:      in.ToStatus,
				Reason:        in.Reason,
				Now:           now,
			})
		}

		// Split: la original conserva el resto en cuarentena.
		a.Remaining = a.Remaining.Sub(fp)
		res.Updated = a
		if err := ledger.Apply(r, uc.policy, ledger.Delta{
			TransactionID: txID,
			Kind:          entity.AuditQualityTransition,
			Actor:         in.Actor,
			Allocation:    a,
			Footprint:     fp,
			From:          &ledger.Endpoint{CellID: fromCellID, RecordStatus: entity.RecordStatusFor(fromStatus)},
			FromStatus:    fromStatus,
			ToStatus:      in.ToStatus,
			Reason:        in.Reason,
			Now:           now,
		}); err != nil {
			return err
		}

		branch := &entity.Allocation{
			ID:              uuid.New().String(),
			EntryLineID:     a.EntryLineID,
			ClientID:        a.ClientID,
			ProductID:       a.ProductID,
			CellID:          destCellID,
			LotNumber:       a.LotNumber,
			ExpirationDate:  a.ExpirationDate,
			ReceivedAt:      a.ReceivedAt,
			Origin:          entity.OriginSplit,
			Initial:         fp,
			Remaining:       fp,
			QualityStatus:   in.ToStatus,
			LifecycleStatus: entity.LifecycleActive,
			CreatedAt:       now,
		}
		res.Branch = branch
		return ledger.Apply(r, uc.policy, ledger.Delta{
			TransactionID: txID,
			Kind:          entity.AuditQualityTransition,
			Actor:         in.Actor,
			Allocation:    branch,
			CreateRow:     true,
			Footprint:     fp,
			To:            &ledger.Endpoint{CellID: destCellID, RecordStatus: entity.RecordStatusFor(in.ToStatus)},
			FromStatus:    fromStatus,
			ToStatus:      in.ToStatus,
			Reason:        in.Reason,
			Now:           now,
		})
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
