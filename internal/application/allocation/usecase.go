// Package allocation implementa el motor de asignación: vincular cantidades
// aprobadas de líneas de ingreso con celdas de almacenamiento, en cuarentena.
package allocation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmadepot/bodega-api/internal/application/ledger"
	"github.com/farmadepot/bodega-api/internal/domain"
	"github.com/farmadepot/bodega-api/internal/domain/entity"
)

// UseCase asigna mercadería aprobada a celdas de forma transaccional.
type UseCase struct {
	tx     ledger.TxRunner
	policy ledger.Policy
}

// NewUseCase construye el caso de uso.
func NewUseCase(tx ledger.TxRunner, policy ledger.Policy) *UseCase {
	return &UseCase{tx: tx, policy: policy}
}

// AllocateInput entrada para asignar una cantidad de una línea de ingreso
// a una celda. La huella (cantidad, bultos, peso, volumen) debe caber en el
// saldo sin asignar de la línea.
type AllocateInput struct {
	EntryLineID string
	CellID      string
	Quantity    int64
	Packages    int64
	Weight      decimal.Decimal
	Volume      decimal.Decimal
	Actor       entity.Actor
}

func (in AllocateInput) footprint() entity.Footprint {
	return entity.Footprint{Quantity: in.Quantity, Packages: in.Packages, Weight: in.Weight, Volume: in.Volume}
}

// Allocate crea la asignación (QUARANTINE, ACTIVE) en una sola transacción:
// valida orden aprobada, celda operable y alcance del actor, releyendo el
// saldo asignado de la línea dentro de la transacción; luego aplica la
// huella vía la primitiva del ledger (registro de inventario QUARANTINED,
// ocupación de celda, auditoría RECEIPT).
func (uc *UseCase) Allocate(ctx context.Context, in AllocateInput) (*entity.Allocation, error) {
	if in.EntryLineID == "" || in.CellID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity <= 0 || in.Packages < 0 || in.Weight.IsNegative() || in.Volume.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	txID := uuid.New().String()
	var created *entity.Allocation

	err := uc.tx.Run(ctx, func(r ledger.Repos) error {
		line, err := r.Entries.GetLineByID(in.EntryLineID)
		if err != nil {
			return err
		}
		if line == nil {
			return domain.ErrNotFound
		}
		order, err := r.Entries.GetOrderByID(line.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status != entity.EntryOrderApproved {
			return domain.ErrNotApproved
		}

		scope := in.Actor.Scope()
		if !scope.AllowsClient(order.ClientID) {
			return domain.ErrScopeDenied
		}

		// Relectura dentro de la transacción: lo asignado puede haber
		// crecido desde que el operador miró la pantalla.
		allocated, err := r.Allocations.SumAllocatedByEntryLine(line.ID)
		if err != nil {
			return err
		}
		fp := in.footprint()
		if !line.Footprint().Sub(allocated).Fits(fp) {
			return domain.ErrQuantityExceedsLine
		}

		cell, err := r.Cells.GetForUpdate(in.CellID)
		if err != nil {
			return err
		}
		if cell == nil {
			return domain.ErrNotFound
		}
		if cell.IsPassage || !cell.AcceptsQuality(entity.QualityQuarantine) {
			return domain.ErrCellUnavailable
		}
		if !scope.AllowsCell(cell) {
			return domain.ErrScopeDenied
		}

		a := &entity.Allocation{
			ID:              uuid.New().String(),
			EntryLineID:     line.ID,
			ClientID:        order.ClientID,
			ProductID:       line.ProductID,
			CellID:          cell.ID,
			LotNumber:       line.LotNumber,
			ExpirationDate:  line.ExpirationDate,
			ReceivedAt:      line.ReceivedAt,
			Origin:          entity.OriginReceipt,
			Initial:         fp,
			Remaining:       fp,
			QualityStatus:   entity.QualityQuarantine,
			LifecycleStatus: entity.LifecycleActive,
			CreatedAt:       now,
		}
		created = a

		return ledger.Apply(r, uc.policy, ledger.Delta{
			TransactionID: txID,
			Kind:          entity.AuditReceipt,
			Actor:         in.Actor,
			Allocation:    a,
			CreateRow:     true,
			Footprint:     fp,
			To:            &ledger.Endpoint{CellID: cell.ID, RecordStatus: entity.RecordQuarantined},
			ToStatus:      entity.QualityQuarantine,
			Now:           now,
		})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
