// Package orders implementa la recepción administrativa de órdenes de
// ingreso y salida. Solo las órdenes de ingreso aprobadas alimentan al motor
// de asignación; las de salida nacen aprobadas en este backend.
package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmadepot/bodega-api/internal/application/ledger"
	"github.com/farmadepot/bodega-api/internal/domain"
	"github.com/farmadepot/bodega-api/internal/domain/entity"
	"github.com/farmadepot/bodega-api/internal/domain/repository"
)

// UseCase administra órdenes de ingreso y salida.
type UseCase struct {
	tx         ledger.TxRunner
	entries    repository.EntryOrderRepository
	departures repository.DepartureRepository
}

// NewUseCase construye el caso de uso. entries y departures son repositorios
// sobre el pool para listados; las creaciones pasan por tx para serializar la
// numeración de órdenes.
func NewUseCase(tx ledger.TxRunner, entries repository.EntryOrderRepository, departures repository.DepartureRepository) *UseCase {
	return &UseCase{tx: tx, entries: entries, departures: departures}
}

// EntryLineInput una línea de mercadería recibida.
type EntryLineInput struct {
	ProductID      string
	LotNumber      string
	ExpirationDate *time.Time
	Quantity       int64
	Packages       int64
	Weight         decimal.Decimal
	Volume         decimal.Decimal
}

// CreateEntryOrderInput entrada para registrar una orden de ingreso.
type CreateEntryOrderInput struct {
	ClientID    string
	Observation string
	Lines       []EntryLineInput
	Actor       entity.Actor
}

// CreateEntryOrder registra la orden en PENDING con número serial OI<año><sec>.
func (uc *UseCase) CreateEntryOrder(ctx context.Context, in CreateEntryOrderInput) (*entity.EntryOrder, error) {
	if in.ClientID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, l := range in.Lines {
		if l.ProductID == "" || l.Quantity <= 0 || l.Packages < 0 || l.Weight.IsNegative() || l.Volume.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	}
	if !in.Actor.Scope().AllowsClient(in.ClientID) {
		return nil, domain.ErrScopeDenied
	}

	now := time.Now()
	order := &entity.EntryOrder{
		ID:          uuid.New().String(),
		ClientID:    in.ClientID,
		Status:      entity.EntryOrderPending,
		Observation: in.Observation,
		CreatedBy:   in.Actor.UserID,
		CreatedAt:   now,
	}
	lines := make([]*entity.EntryOrderLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, &entity.EntryOrderLine{
			ID:             uuid.New().String(),
			OrderID:        order.ID,
			ProductID:      l.ProductID,
			LotNumber:      l.LotNumber,
			ExpirationDate: l.ExpirationDate,
			Quantity:       l.Quantity,
			Packages:       l.Packages,
			Weight:         l.Weight,
			Volume:         l.Volume,
			ReceivedAt:     now,
		})
	}

	// La numeración se asigna dentro de la transacción para que dos órdenes
	// simultáneas no compartan número.
	err := uc.tx.Run(ctx, func(r ledger.Repos) error {
		seq, err := r.Entries.CountOrdersByYear(now.Year())
		if err != nil {
			return err
		}
		order.OrderNo = fmt.Sprintf("OI%d%04d", now.Year(), seq+1)
		return r.Entries.CreateOrder(order, lines)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ReviewEntryOrder aprueba o rechaza una orden pendiente. Solo admin y
// almacenista revisan; una vez aprobada, sus líneas quedan inmutables.
func (uc *UseCase) ReviewEntryOrder(ctx context.Context, orderID string, approve bool, actor entity.Actor) error {
	if orderID == "" {
		return domain.ErrInvalidInput
	}
	if actor.Role != entity.RoleAdmin && actor.Role != entity.RoleWarehouse {
		return domain.ErrScopeDenied
	}
	return uc.tx.Run(ctx, func(r ledger.Repos) error {
		order, err := r.Entries.GetOrderByID(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status != entity.EntryOrderPending {
			return domain.ErrInvalidTransition
		}
		status := entity.EntryOrderRejected
		if approve {
			status = entity.EntryOrderApproved
		}
		return r.Entries.UpdateOrderStatus(order.ID, status)
	})
}

// DepartureLineInput una cantidad solicitada de un producto.
type DepartureLineInput struct {
	ProductID         string
	RequestedQuantity int64
}

// CreateDepartureOrderInput entrada para registrar una orden de salida.
type CreateDepartureOrderInput struct {
	ClientID string
	Lines    []DepartureLineInput
	Actor    entity.Actor
}

// CreateDepartureOrder registra la orden de salida (APPROVED) con número
// serial OS<año><sec>.
func (uc *UseCase) CreateDepartureOrder(ctx context.Context, in CreateDepartureOrderInput) (*entity.DepartureOrder, error) {
	if in.ClientID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, l := range in.Lines {
		if l.ProductID == "" || l.RequestedQuantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
	}
	if !in.Actor.Scope().AllowsClient(in.ClientID) {
		return nil, domain.ErrScopeDenied
	}

	now := time.Now()
	order := &entity.DepartureOrder{
		ID:        uuid.New().String(),
		ClientID:  in.ClientID,
		Status:    entity.DepartureApproved,
		CreatedBy: in.Actor.UserID,
		CreatedAt: now,
	}
	lines := make([]*entity.DepartureOrderLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, &entity.DepartureOrderLine{
			ID:                uuid.New().String(),
			OrderID:           order.ID,
			ProductID:         l.ProductID,
			RequestedQuantity: l.RequestedQuantity,
		})
	}

	err := uc.tx.Run(ctx, func(r ledger.Repos) error {
		seq, err := r.Departures.CountOrdersByYear(now.Year())
		if err != nil {
			return err
		}
		order.OrderNo = fmt.Sprintf("OS%d%04d", now.Year(), seq+1)
		return r.Departures.CreateOrder(order, lines)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ListEntryOrders lista órdenes de ingreso visibles para el alcance dado.
func (uc *UseCase) ListEntryOrders(ctx context.Context, scope entity.ScopeFilter, limit, offset int) ([]*entity.EntryOrder, error) {
	return uc.entries.ListOrdersByClient(scope.ClientFilter(), limit, offset)
}

// ListDepartureOrders lista órdenes de salida visibles para el alcance dado.
func (uc *UseCase) ListDepartureOrders(ctx context.Context, scope entity.ScopeFilter, limit, offset int) ([]*entity.DepartureOrder, error) {
	return uc.departures.ListOrdersByClient(scope.ClientFilter(), limit, offset)
}
