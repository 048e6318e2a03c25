package orders_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmadepot/bodega-api/internal/application/orders"
	"github.com/farmadepot/bodega-api/internal/domain"
	"github.com/farmadepot/bodega-api/internal/domain/entity"
	"github.com/farmadepot/bodega-api/internal/infrastructure/memory"
)

var adminActor = entity.Actor{UserID: "user-admin", Role: entity.RoleAdmin}

func newUseCase() (*memory.Store, *orders.UseCase) {
	store := memory.NewStore()
	r := store.Repos()
	return store, orders.NewUseCase(store, r.Entries, r.Departures)
}

func entryInput(clientID string, actor entity.Actor) orders.CreateEntryOrderInput {
	return orders.CreateEntryOrderInput{
		ClientID: clientID,
		Lines: []orders.EntryLineInput{{
			ProductID: "prod-1",
			LotNumber: "L-001",
			Quantity:  100,
			Packages:  10,
			Weight:    decimal.RequireFromString("50"),
			Volume:    decimal.RequireFromString("2"),
		}},
		Actor: actor,
	}
}

// TestCreateEntryOrder_NumeracionSerial: los números OI<año><sec> se asignan
// en secuencia dentro de la transacción de creación.
func TestCreateEntryOrder_NumeracionSerial(t *testing.T) {
	_, uc := newUseCase()
	ctx := context.Background()
	year := time.Now().Year()

	first, err := uc.CreateEntryOrder(ctx, entryInput("cli-1", adminActor))
	require.NoError(t, err)
	second, err := uc.CreateEntryOrder(ctx, entryInput("cli-2", adminActor))
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("OI%d0001", year), first.OrderNo)
	assert.Equal(t, fmt.Sprintf("OI%d0002", year), second.OrderNo)
	assert.Equal(t, entity.EntryOrderPending, first.Status, "toda orden de ingreso nace pendiente")
}

func TestCreateEntryOrder_GuardaLineas(t *testing.T) {
	store, uc := newUseCase()

	order, err := uc.CreateEntryOrder(context.Background(), entryInput("cli-1", adminActor))
	require.NoError(t, err)

	lines, err := store.Repos().Entries.ListLinesByOrder(order.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "prod-1", lines[0].ProductID)
	assert.Equal(t, int64(100), lines[0].Quantity)
	assert.False(t, lines[0].ReceivedAt.IsZero())
}

// Un cliente solo registra órdenes para sus propios clientes asignados.
func TestCreateEntryOrder_AlcanceCliente(t *testing.T) {
	_, uc := newUseCase()
	clientActor := entity.Actor{UserID: "user-cli", Role: entity.RoleClient, ClientIDs: []string{"cli-1"}}

	_, err := uc.CreateEntryOrder(context.Background(), entryInput("cli-1", clientActor))
	require.NoError(t, err)

	_, err = uc.CreateEntryOrder(context.Background(), entryInput("cli-2", clientActor))
	assert.ErrorIs(t, err, domain.ErrScopeDenied)
}

func TestCreateEntryOrder_EntradaInvalida(t *testing.T) {
	_, uc := newUseCase()
	ctx := context.Background()

	in := entryInput("cli-1", adminActor)
	in.Lines[0].Quantity = 0
	_, err := uc.CreateEntryOrder(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CreateEntryOrder(ctx, orders.CreateEntryOrderInput{ClientID: "cli-1", Actor: adminActor})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas no hay orden")
}

func TestReviewEntryOrder_Aprobacion(t *testing.T) {
	store, uc := newUseCase()
	ctx := context.Background()
	order, err := uc.CreateEntryOrder(ctx, entryInput("cli-1", adminActor))
	require.NoError(t, err)

	warehouseActor := entity.Actor{UserID: "user-wh", Role: entity.RoleWarehouse}
	require.NoError(t, uc.ReviewEntryOrder(ctx, order.ID, true, warehouseActor))

	got, err := store.Repos().Entries.GetOrderByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.EntryOrderApproved, got.Status)
}

// La revisión es terminal: una orden ya revisada no se revisa de nuevo.
func TestReviewEntryOrder_Rerevision(t *testing.T) {
	_, uc := newUseCase()
	ctx := context.Background()
	order, err := uc.CreateEntryOrder(ctx, entryInput("cli-1", adminActor))
	require.NoError(t, err)

	require.NoError(t, uc.ReviewEntryOrder(ctx, order.ID, false, adminActor))
	err = uc.ReviewEntryOrder(ctx, order.ID, true, adminActor)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// Los clientes no revisan: la revisión es de admin y almacenista.
func TestReviewEntryOrder_RolCliente(t *testing.T) {
	_, uc := newUseCase()
	ctx := context.Background()
	order, err := uc.CreateEntryOrder(ctx, entryInput("cli-1", adminActor))
	require.NoError(t, err)

	clientActor := entity.Actor{UserID: "user-cli", Role: entity.RoleClient, ClientIDs: []string{"cli-1"}}
	err = uc.ReviewEntryOrder(ctx, order.ID, true, clientActor)
	assert.ErrorIs(t, err, domain.ErrScopeDenied)
}

// TestCreateDepartureOrder: numeración OS propia y estado inicial APPROVED.
func TestCreateDepartureOrder(t *testing.T) {
	store, uc := newUseCase()
	ctx := context.Background()
	year := time.Now().Year()

	order, err := uc.CreateDepartureOrder(ctx, orders.CreateDepartureOrderInput{
		ClientID: "cli-1",
		Lines:    []orders.DepartureLineInput{{ProductID: "prod-1", RequestedQuantity: 40}},
		Actor:    adminActor,
	})
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("OS%d0001", year), order.OrderNo)
	assert.Equal(t, entity.DepartureApproved, order.Status, "las salidas nacen aprobadas")

	lines, err := store.Repos().Departures.ListLinesByOrder(order.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, int64(40), lines[0].RequestedQuantity)
	assert.Equal(t, int64(0), lines[0].DispatchedQuantity)
}

// Las secuencias de ingreso y salida son independientes.
func TestNumeracion_SecuenciasIndependientes(t *testing.T) {
	_, uc := newUseCase()
	ctx := context.Background()
	year := time.Now().Year()

	_, err := uc.CreateEntryOrder(ctx, entryInput("cli-1", adminActor))
	require.NoError(t, err)
	departure, err := uc.CreateDepartureOrder(ctx, orders.CreateDepartureOrderInput{
		ClientID: "cli-1",
		Lines:    []orders.DepartureLineInput{{ProductID: "prod-1", RequestedQuantity: 10}},
		Actor:    adminActor,
	})
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("OS%d0001", year), departure.OrderNo)
}

// TestListOrders_FiltroDeAlcance: un cliente solo ve sus órdenes; el personal
// de bodega ve todas.
func TestListOrders_FiltroDeAlcance(t *testing.T) {
	_, uc := newUseCase()
	ctx := context.Background()

	_, err := uc.CreateEntryOrder(ctx, entryInput("cli-1", adminActor))
	require.NoError(t, err)
	_, err = uc.CreateEntryOrder(ctx, entryInput("cli-2", adminActor))
	require.NoError(t, err)

	clientActor := entity.Actor{UserID: "user-cli", Role: entity.RoleClient, ClientIDs: []string{"cli-1"}}
	mine, err := uc.ListEntryOrders(ctx, clientActor.Scope(), 20, 0)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "cli-1", mine[0].ClientID)

	all, err := uc.ListEntryOrders(ctx, adminActor.Scope(), 20, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
