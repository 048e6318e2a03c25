package departure_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmadepot/bodega-api/internal/application/allocation"
	"github.com/farmadepot/bodega-api/internal/application/departure"
	"github.com/farmadepot/bodega-api/internal/application/ledger"
	"github.com/farmadepot/bodega-api/internal/application/quality"
	"github.com/farmadepot/bodega-api/internal/domain"
	"github.com/farmadepot/bodega-api/internal/domain/entity"
	"github.com/farmadepot/bodega-api/internal/domain/fifo"
	"github.com/farmadepot/bodega-api/internal/infrastructure/memory"
)

var adminActor = entity.Actor{UserID: "user-admin", Role: entity.RoleAdmin}

type fixture struct {
	store *memory.Store
	uc    *departure.UseCase

	// Dos asignaciones APPROVED de prod-1 para el cliente cli-1:
	// earlyID vence en jun-2026 con 60 unidades (celda cell-1),
	// lateID vence en jun-2027 con 50 unidades (celda cell-2).
	earlyID string
	lateID  string
}

// newFixture arma el stock por el camino real: orden de ingreso aprobada,
// asignación a celda y aprobación completa de calidad.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	r := store.Repos()
	now := time.Now()

	earlyExpiry := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	lateExpiry := time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, r.Entries.CreateOrder(&entity.EntryOrder{
		ID: "order-1", OrderNo: "OI20260001", ClientID: "cli-1",
		Status: entity.EntryOrderApproved, CreatedBy: adminActor.UserID, CreatedAt: now,
	}, []*entity.EntryOrderLine{
		{
			ID: "line-early", OrderID: "order-1", ProductID: "prod-1", LotNumber: "L-001",
			ExpirationDate: &earlyExpiry, Quantity: 60, Packages: 6,
			Weight: decimal.RequireFromString("30"), Volume: decimal.RequireFromString("1.2"),
			ReceivedAt: now,
		},
		{
			ID: "line-late", OrderID: "order-1", ProductID: "prod-1", LotNumber: "L-002",
			ExpirationDate: &lateExpiry, Quantity: 50, Packages: 5,
			Weight: decimal.RequireFromString("25"), Volume: decimal.RequireFromString("1"),
			ReceivedAt: now,
		},
	}))
	for i, id := range []string{"cell-1", "cell-2"} {
		require.NoError(t, r.Cells.Create(&entity.Cell{
			ID: id, WarehouseID: "wh-1", Row: "A", Bay: 1, Position: i + 1,
			Role: entity.CellRoleStandard, Status: entity.CellAvailable, CreatedAt: now,
		}))
	}

	allocUC := allocation.NewUseCase(store, ledger.Policy{})
	qualityUC := quality.NewUseCase(store, ledger.Policy{})
	ctx := context.Background()
	f := &fixture{store: store}

	for _, seed := range []struct {
		lineID, cellID   string
		quantity, pkgs   int64
		weight, volume   string
		targetID         *string
	}{
		{"line-early", "cell-1", 60, 6, "30", "1.2", &f.earlyID},
		{"line-late", "cell-2", 50, 5, "25", "1", &f.lateID},
	} {
		a, err := allocUC.Allocate(ctx, allocation.AllocateInput{
			EntryLineID: seed.lineID,
			CellID:      seed.cellID,
			Quantity:    seed.quantity,
			Packages:    seed.pkgs,
			Weight:      decimal.RequireFromString(seed.weight),
			Volume:      decimal.RequireFromString(seed.volume),
			Actor:       adminActor,
		})
		require.NoError(t, err)
		_, err = qualityUC.Transition(ctx, quality.TransitionInput{
			AllocationID: a.ID, ToStatus: entity.QualityApproved, Quantity: seed.quantity, Actor: adminActor,
		})
		require.NoError(t, err)
		*seed.targetID = a.ID
	}

	f.uc = departure.NewUseCase(store, ledger.Policy{}, r.Allocations)
	return f
}

// departureOrder siembra una orden de salida APPROVED con las líneas dadas
// (producto prod-1) y devuelve los IDs de línea en el mismo orden.
func (f *fixture) departureOrder(t *testing.T, orderID string, requested ...int64) []string {
	t.Helper()
	lines := make([]*entity.DepartureOrderLine, 0, len(requested))
	ids := make([]string, 0, len(requested))
	for i, q := range requested {
		id := orderID + "-line-" + string(rune('a'+i))
		lines = append(lines, &entity.DepartureOrderLine{
			ID: id, OrderID: orderID, ProductID: "prod-1", RequestedQuantity: q,
		})
		ids = append(ids, id)
	}
	require.NoError(t, f.store.Repos().Departures.CreateOrder(&entity.DepartureOrder{
		ID: orderID, OrderNo: "OS20260001", ClientID: "cli-1",
		Status: entity.DepartureApproved, CreatedBy: adminActor.UserID, CreatedAt: time.Now(),
	}, lines))
	return ids
}

// TestSuggest_PlanFIFO: el plan agota primero el vencimiento más próximo.
func TestSuggest_PlanFIFO(t *testing.T) {
	f := newFixture(t)

	plan, err := f.uc.SuggestAllocation(context.Background(), "prod-1", 80, adminActor.Scope())
	require.NoError(t, err)
	require.Len(t, plan.Picks, 2)
	assert.Equal(t, fifo.Pick{AllocationID: f.earlyID, Quantity: 60}, plan.Picks[0])
	assert.Equal(t, fifo.Pick{AllocationID: f.lateID, Quantity: 20}, plan.Picks[1])
}

// TestSuggest_AlcanceCliente: un cliente sin el producto en su alcance no ve
// stock, aunque exista.
func TestSuggest_AlcanceCliente(t *testing.T) {
	f := newFixture(t)
	other := entity.Actor{UserID: "user-cli", Role: entity.RoleClient, ClientIDs: []string{"cli-99"}}

	_, err := f.uc.SuggestAllocation(context.Background(), "prod-1", 10, other.Scope())
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

// TestReserveYDispatch_FlujoCompleto recorre sugerencia → reserva → despacho
// y verifica los efectos permanentes sobre asignaciones, celdas, registros,
// reservas y auditoría.
func TestReserveYDispatch_FlujoCompleto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lineIDs := f.departureOrder(t, "do-1", 80)

	plan, err := f.uc.SuggestAllocation(ctx, "prod-1", 80, adminActor.Scope())
	require.NoError(t, err)

	reserved, err := f.uc.ReserveForDeparture(ctx, lineIDs[0], plan, adminActor)
	require.NoError(t, err)
	require.Len(t, reserved, 2)
	assert.Equal(t, entity.ReservationPending, reserved[0].Status)

	// La reserva no toca saldos todavía.
	r := f.store.Repos()
	early, err := r.Allocations.GetByID(f.earlyID)
	require.NoError(t, err)
	assert.Equal(t, int64(60), early.Remaining.Quantity)

	status, err := f.uc.Dispatch(ctx, "do-1", adminActor)
	require.NoError(t, err)
	assert.Equal(t, entity.DepartureCompleted, status)

	// La asignación agotada muere; la parcial conserva el resto.
	early, err = r.Allocations.GetByID(f.earlyID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), early.Remaining.Quantity)
	assert.Equal(t, entity.LifecycleDepleted, early.LifecycleStatus)
	late, err := r.Allocations.GetByID(f.lateID)
	require.NoError(t, err)
	assert.Equal(t, int64(30), late.Remaining.Quantity)
	assert.Equal(t, entity.LifecycleActive, late.LifecycleStatus)

	// La celda vaciada vuelve a AVAILABLE y su registro queda en cero.
	cell1, err := r.Cells.GetByID("cell-1")
	require.NoError(t, err)
	assert.True(t, cell1.CurrentUsage.IsZero())
	assert.Equal(t, entity.CellAvailable, cell1.Status)
	rec2, err := r.Records.Get("prod-1", "cell-2", entity.RecordAvailable)
	require.NoError(t, err)
	assert.Equal(t, int64(30), rec2.Balance.Quantity)

	// Línea cubierta y reservas despachadas con marca de tiempo.
	lines, err := r.Departures.ListLinesByOrder("do-1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, int64(80), lines[0].DispatchedQuantity)
	pending, err := r.Departures.ListPendingByOrder("do-1")
	require.NoError(t, err)
	assert.Empty(t, pending)

	// Auditoría DEPARTURE con delta negativo por asignación.
	audits, err := r.Audit.ListByAllocation(f.earlyID)
	require.NoError(t, err)
	last := audits[len(audits)-1]
	assert.Equal(t, entity.AuditDeparture, last.Kind)
	assert.Equal(t, int64(60), last.Quantity)
	assert.Equal(t, int64(-60), last.Delta)
}

// TestReserve_DescuentaPendientes: la disponibilidad real es saldo menos
// reservas PENDING, así dos órdenes no comprometen las mismas unidades.
func TestReserve_DescuentaPendientes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	firstLine := f.departureOrder(t, "do-1", 80)[0]
	secondLine := f.departureOrder(t, "do-2", 40)[0]

	plan, err := f.uc.SuggestAllocation(ctx, "prod-1", 80, adminActor.Scope())
	require.NoError(t, err)
	_, err = f.uc.ReserveForDeparture(ctx, firstLine, plan, adminActor)
	require.NoError(t, err)

	// lateID tiene saldo 50 pero 20 ya reservados: solo 30 disponibles.
	_, err = f.uc.ReserveForDeparture(ctx, secondLine, fifo.Plan{
		ProductID: "prod-1",
		Picks:     []fifo.Pick{{AllocationID: f.lateID, Quantity: 40}},
	}, adminActor)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)

	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, f.lateID, conflict.AllocationID)
	assert.Equal(t, int64(40), conflict.Requested)
	assert.Equal(t, int64(30), conflict.Available)
}

// El plan debe cubrir exactamente lo pendiente de la línea.
func TestReserve_PlanNoCubreLaLinea(t *testing.T) {
	f := newFixture(t)
	lineID := f.departureOrder(t, "do-1", 80)[0]

	_, err := f.uc.ReserveForDeparture(context.Background(), lineID, fifo.Plan{
		ProductID: "prod-1",
		Picks:     []fifo.Pick{{AllocationID: f.earlyID, Quantity: 50}},
	}, adminActor)
	assert.ErrorIs(t, err, domain.ErrPlanMismatch)
}

func TestDispatch_SinReservasPendientes(t *testing.T) {
	f := newFixture(t)
	f.departureOrder(t, "do-1", 80)

	_, err := f.uc.Dispatch(context.Background(), "do-1", adminActor)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDispatch_OrdenYaCompletada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lineID := f.departureOrder(t, "do-1", 60)[0]

	_, err := f.uc.ReserveForDeparture(ctx, lineID, fifo.Plan{
		ProductID: "prod-1",
		Picks:     []fifo.Pick{{AllocationID: f.earlyID, Quantity: 60}},
	}, adminActor)
	require.NoError(t, err)
	_, err = f.uc.Dispatch(ctx, "do-1", adminActor)
	require.NoError(t, err)

	_, err = f.uc.Dispatch(ctx, "do-1", adminActor)
	assert.ErrorIs(t, err, domain.ErrAlreadyDispatched)
}

// TestDispatch_Parcial: con una línea reservada y otra sin reservar, la orden
// queda PARTIALLY_DISPATCHED y admite un despacho posterior.
func TestDispatch_Parcial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lineIDs := f.departureOrder(t, "do-1", 60, 20)

	_, err := f.uc.ReserveForDeparture(ctx, lineIDs[0], fifo.Plan{
		ProductID: "prod-1",
		Picks:     []fifo.Pick{{AllocationID: f.earlyID, Quantity: 60}},
	}, adminActor)
	require.NoError(t, err)

	status, err := f.uc.Dispatch(ctx, "do-1", adminActor)
	require.NoError(t, err)
	assert.Equal(t, entity.DeparturePartiallyDispatched, status)

	// Segunda vuelta: reservar y despachar la línea restante completa la orden.
	_, err = f.uc.ReserveForDeparture(ctx, lineIDs[1], fifo.Plan{
		ProductID: "prod-1",
		Picks:     []fifo.Pick{{AllocationID: f.lateID, Quantity: 20}},
	}, adminActor)
	require.NoError(t, err)
	status, err = f.uc.Dispatch(ctx, "do-1", adminActor)
	require.NoError(t, err)
	assert.Equal(t, entity.DepartureCompleted, status)
}

// TestDispatch_AsignacionMutada: si una asignación reservada dejó de ser
// despachable entre la reserva y el despacho, el despacho completo se aborta.
func TestDispatch_AsignacionMutada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lineID := f.departureOrder(t, "do-1", 60)[0]

	_, err := f.uc.ReserveForDeparture(ctx, lineID, fifo.Plan{
		ProductID: "prod-1",
		Picks:     []fifo.Pick{{AllocationID: f.earlyID, Quantity: 60}},
	}, adminActor)
	require.NoError(t, err)

	r := f.store.Repos()
	early, err := r.Allocations.GetByID(f.earlyID)
	require.NoError(t, err)
	early.LifecycleStatus = entity.LifecycleDepleted
	require.NoError(t, r.Allocations.Update(early))

	_, err = f.uc.Dispatch(ctx, "do-1", adminActor)
	assert.ErrorIs(t, err, domain.ErrAllocationMutated)

	// El fallo no dejó la orden a medio despachar.
	order, err := r.Departures.GetOrderByID("do-1")
	require.NoError(t, err)
	assert.Equal(t, entity.DepartureApproved, order.Status)
}
