// Package departure implementa la canalización de salida: sugerencia FIFO
// (lectura pura), reserva transaccional contra asignaciones vivas y despacho
// final con descuento permanente de saldos.
package departure

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/farmadepot/bodega-api/internal/application/ledger"
	"github.com/farmadepot/bodega-api/internal/domain"
	"github.com/farmadepot/bodega-api/internal/domain/entity"
	"github.com/farmadepot/bodega-api/internal/domain/fifo"
	"github.com/farmadepot/bodega-api/internal/domain/repository"
)

// UseCase orquesta sugerencia, reserva y despacho de salidas.
type UseCase struct {
	tx          ledger.TxRunner
	policy      ledger.Policy
	allocations repository.AllocationRepository // lecturas fuera de transacción
}

// NewUseCase construye el caso de uso. allocations es el repositorio sobre el
// pool (sin transacción), usado solo por la sugerencia FIFO.
func NewUseCase(tx ledger.TxRunner, policy ledger.Policy, allocations repository.AllocationRepository) *UseCase {
	return &UseCase{tx: tx, policy: policy, allocations: allocations}
}

// SuggestAllocation arma el plan FIFO para requested unidades del producto.
// Es una lectura sin bloqueo: el plan puede quedar obsoleto y la reserva lo
// revalida. Devuelve InsufficientStockError con el faltante si no alcanza.
func (uc *UseCase) SuggestAllocation(ctx context.Context, productID string, requested int64, scope entity.ScopeFilter) (fifo.Plan, error) {
	if productID == "" {
		return fifo.Plan{}, domain.ErrInvalidInput
	}
	candidates, err := uc.allocations.ListSelectableByProduct(productID, scope.ClientFilter())
	if err != nil {
		return fifo.Plan{}, err
	}
	return fifo.Select(productID, requested, candidates)
}

// ReserveForDeparture congela el plan contra las asignaciones vivas, dentro
// de una transacción: cada asignación planificada debe seguir APPROVED/ACTIVE
// con disponibilidad neta (saldo menos reservas pendientes) suficiente, y la
// suma del plan debe igualar lo solicitado por la línea. No toca asignaciones,
// celdas ni registros de inventario: eso ocurre recién en Dispatch.
func (uc *UseCase) ReserveForDeparture(ctx context.Context, departureLineID string, plan fifo.Plan, actor entity.Actor) ([]*entity.DepartureAllocation, error) {
	if departureLineID == "" || len(plan.Picks) == 0 {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var reserved []*entity.DepartureAllocation

	err := uc.tx.Run(ctx, func(r ledger.Repos) error {
		line, err := r.Departures.GetLineByID(departureLineID)
		if err != nil {
			return err
		}
		if line == nil {
			return domain.ErrNotFound
		}
		order, err := r.Departures.GetOrderByID(line.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status == entity.DepartureCompleted {
			return domain.ErrAlreadyDispatched
		}
		if !actor.Scope().AllowsClient(order.ClientID) {
			return domain.ErrScopeDenied
		}
		if plan.Total() != line.RequestedQuantity-line.DispatchedQuantity {
			return domain.ErrPlanMismatch
		}

		for _, pick := range plan.Picks {
			a, err := r.Allocations.GetForUpdate(pick.AllocationID)
			if err != nil {
				return err
			}
			if a == nil {
				return domain.ErrNotFound
			}
			if a.ProductID != line.ProductID {
				return domain.ErrPlanMismatch
			}
			pending, err := r.Departures.SumPendingByAllocation(a.ID)
			if err != nil {
				return err
			}
			available := a.Remaining.Quantity - pending
			if !a.IsSelectable() || available < pick.Quantity {
				return &domain.ConflictError{
					AllocationID: a.ID,
					Requested:    pick.Quantity,
					Available:    available,
				}
			}
			da := &entity.DepartureAllocation{
				ID:               uuid.New().String(),
				DepartureLineID:  line.ID,
				AllocationID:     a.ID,
				ReservedQuantity: pick.Quantity,
				Status:           entity.ReservationPending,
				CreatedBy:        actor.UserID,
				CreatedAt:        now,
			}
			if err := r.Departures.CreateReservation(da); err != nil {
				return err
			}
			reserved = append(reserved, da)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reserved, nil
}

// Dispatch finaliza la salida física de todas las reservas pendientes de la
// orden: descuenta asignación, registro de inventario y ocupación de celda
// por cada reserva congelada, marca DEPLETED al llegar a cero y deja un
// registro de auditoría DEPARTURE por asignación. Devuelve el estado final
// de la orden: COMPLETED si toda línea quedó cubierta, si no
// PARTIALLY_DISPATCHED.
func (uc *UseCase) Dispatch(ctx context.Context, departureOrderID string, actor entity.Actor) (string, error) {
	if departureOrderID == "" {
		return "", domain.ErrInvalidInput
	}

	now := time.Now()
	txID := uuid.New().String()
	var finalStatus string

	err := uc.tx.Run(ctx, func(r ledger.Repos) error {
		order, err := r.Departures.GetOrderForUpdate(departureOrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status == entity.DepartureCompleted {
			return domain.ErrAlreadyDispatched
		}
		if !actor.Scope().AllowsClient(order.ClientID) {
			return domain.ErrScopeDenied
		}

		pending, err := r.Departures.ListPendingByOrder(order.ID)
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			// Nada reservado que despachar.
			return domain.ErrNotFound
		}

		lines, err := r.Departures.ListLinesByOrder(order.ID)
		if err != nil {
			return err
		}
		byID := make(map[string]*entity.DepartureOrderLine, len(lines))
		for _, l := range lines {
			byID[l.ID] = l
		}

		for _, da := range pending {
			a, err := r.Allocations.GetForUpdate(da.AllocationID)
			if err != nil {
				return err
			}
			if a == nil {
				return domain.ErrNotFound
			}
			if a.QualityStatus != entity.QualityApproved || a.LifecycleStatus != entity.LifecycleActive {
				return domain.ErrAllocationMutated
			}
			if a.Remaining.Quantity < da.ReservedQuantity {
				return &domain.InsufficientStockError{
					ProductID: a.ProductID,
					Requested: da.ReservedQuantity,
					Shortfall: da.ReservedQuantity - a.Remaining.Quantity,
				}
			}

			fp := a.Remaining.Prorate(da.ReservedQuantity)
			a.Remaining = a.Remaining.Sub(fp)
			if a.Remaining.Quantity == 0 {
				// Agotada: nunca revive.
				a.LifecycleStatus = entity.LifecycleDepleted
			}
			if err := ledger.Apply(r, uc.policy, ledger.Delta{
				TransactionID: txID,
				Kind:          entity.AuditDeparture,
				Actor:         actor,
				Allocation:    a,
				Footprint:     fp,
				From:          &ledger.Endpoint{CellID: a.CellID, RecordStatus: entity.RecordAvailable},
				FromStatus:    entity.QualityApproved,
				ToStatus:      entity.QualityApproved,
				Now:           now,
			}); err != nil {
				return err
			}

			da.Status = entity.ReservationDispatched
			da.DispatchedAt = &now
			if err := r.Departures.UpdateReservation(da); err != nil {
				return err
			}

			line := byID[da.DepartureLineID]
			if line == nil {
				return domain.ErrInventoryInconsistent
			}
			line.DispatchedQuantity += da.ReservedQuantity
			if err := r.Departures.UpdateLine(line); err != nil {
				return err
			}
		}

		finalStatus = entity.DepartureCompleted
		for _, l := range lines {
			if !l.FullyDispatched() {
				finalStatus = entity.DeparturePartiallyDispatched
				break
			}
		}
		order.Status = finalStatus
		return r.Departures.UpdateOrderStatus(order.ID, finalStatus)
	})
	if err != nil {
		return "", err
	}
	return finalStatus, nil
}
