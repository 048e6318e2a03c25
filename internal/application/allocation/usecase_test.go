package allocation_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmadepot/bodega-api/internal/application/allocation"
	"github.com/farmadepot/bodega-api/internal/application/ledger"
	"github.com/farmadepot/bodega-api/internal/domain"
	"github.com/farmadepot/bodega-api/internal/domain/entity"
	"github.com/farmadepot/bodega-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var adminActor = entity.Actor{UserID: "user-admin", Role: entity.RoleAdmin}

type fixture struct {
	store  *memory.Store
	uc     *allocation.UseCase
	lineID string
	cellID string
}

// newFixture siembra una orden de ingreso aprobada (cliente cli-1, línea de
// 100 unidades / 10 bultos / 50 kg / 2 m³) y una celda STANDARD disponible.
func newFixture(t *testing.T, orderStatus string) *fixture {
	t.Helper()
	store := memory.NewStore()
	r := store.Repos()
	now := time.Now()

	order := &entity.EntryOrder{
		ID:        "order-1",
		OrderNo:   "OI20260001",
		ClientID:  "cli-1",
		Status:    orderStatus,
		CreatedBy: adminActor.UserID,
		CreatedAt: now,
	}
	line := &entity.EntryOrderLine{
		ID:         "line-1",
		OrderID:    order.ID,
		ProductID:  "prod-1",
		LotNumber:  "L-001",
		Quantity:   100,
		Packages:   10,
		Weight:     decimal.RequireFromString("50"),
		Volume:     decimal.RequireFromString("2"),
		ReceivedAt: now,
	}
	require.NoError(t, r.Entries.CreateOrder(order, []*entity.EntryOrderLine{line}))

	cell := &entity.Cell{
		ID:          "cell-1",
		WarehouseID: "wh-1",
		Row:         "A",
		Bay:         1,
		Position:    1,
		Role:        entity.CellRoleStandard,
		Status:      entity.CellAvailable,
		CreatedAt:   now,
	}
	require.NoError(t, r.Cells.Create(cell))

	return &fixture{
		store:  store,
		uc:     allocation.NewUseCase(store, ledger.Policy{}),
		lineID: line.ID,
		cellID: cell.ID,
	}
}

func (f *fixture) allocate(quantity, packages int64, weight, volume string, actor entity.Actor) (*entity.Allocation, error) {
	return f.uc.Allocate(context.Background(), allocation.AllocateInput{
		EntryLineID: f.lineID,
		CellID:      f.cellID,
		Quantity:    quantity,
		Packages:    packages,
		Weight:      decimal.RequireFromString(weight),
		Volume:      decimal.RequireFromString(volume),
		Actor:       actor,
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestAllocate_Exitosa(t *testing.T) {
	f := newFixture(t, entity.EntryOrderApproved)

	a, err := f.allocate(60, 6, "30", "1.2", adminActor)
	require.NoError(t, err)

	assert.Equal(t, entity.QualityQuarantine, a.QualityStatus, "toda asignación nace en cuarentena")
	assert.Equal(t, entity.LifecycleActive, a.LifecycleStatus)
	assert.Equal(t, entity.OriginReceipt, a.Origin)
	assert.Equal(t, a.Initial, a.Remaining, "al nacer, saldo = huella inicial")
	assert.Equal(t, "cli-1", a.ClientID, "denormaliza el cliente de la orden")
	assert.Equal(t, "L-001", a.LotNumber)

	r := f.store.Repos()

	// Registro de inventario derivado en QUARANTINED.
	rec, err := r.Records.Get("prod-1", f.cellID, entity.RecordQuarantined)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, int64(60), rec.Balance.Quantity)

	// Ocupación de celda y estado.
	cell, err := r.Cells.GetByID(f.cellID)
	require.NoError(t, err)
	assert.Equal(t, int64(60), cell.CurrentUsage.Quantity)
	assert.Equal(t, entity.CellOccupied, cell.Status)

	// Exactamente un registro de auditoría RECEIPT con delta positivo.
	audits, err := r.Audit.ListByAllocation(a.ID)
	require.NoError(t, err)
	require.Len(t, audits, 1)
	assert.Equal(t, entity.AuditReceipt, audits[0].Kind)
	assert.Equal(t, int64(60), audits[0].Quantity)
	assert.Equal(t, int64(60), audits[0].Delta)
	assert.Equal(t, adminActor.UserID, audits[0].ActorID)
}

func TestAllocate_OrdenNoAprobada(t *testing.T) {
	f := newFixture(t, entity.EntryOrderPending)

	_, err := f.allocate(10, 1, "5", "0.2", adminActor)
	assert.ErrorIs(t, err, domain.ErrNotApproved)
}

// TestAllocate_ExcedeSaldoDeLinea: la suma de asignaciones por recepción
// directa nunca supera la huella de la línea, aunque cada pedido individual
// quepa.
func TestAllocate_ExcedeSaldoDeLinea(t *testing.T) {
	f := newFixture(t, entity.EntryOrderApproved)

	_, err := f.allocate(60, 6, "30", "1.2", adminActor)
	require.NoError(t, err)

	_, err = f.allocate(50, 5, "25", "1", adminActor)
	assert.ErrorIs(t, err, domain.ErrQuantityExceedsLine)

	// La transacción fallida no deja rastro: ni registro ni ocupación extra.
	cell, err := f.store.Repos().Cells.GetByID(f.cellID)
	require.NoError(t, err)
	assert.Equal(t, int64(60), cell.CurrentUsage.Quantity)
}

// El peso también limita: 40 unidades caben, pero 30 kg ya no.
func TestAllocate_ExcedePesoDeLinea(t *testing.T) {
	f := newFixture(t, entity.EntryOrderApproved)

	_, err := f.allocate(60, 6, "30", "1.2", adminActor)
	require.NoError(t, err)

	_, err = f.allocate(40, 4, "30", "0.8", adminActor)
	assert.ErrorIs(t, err, domain.ErrQuantityExceedsLine)
}

func TestAllocate_CeldaPasillo(t *testing.T) {
	f := newFixture(t, entity.EntryOrderApproved)
	r := f.store.Repos()
	require.NoError(t, r.Cells.Create(&entity.Cell{
		ID: "cell-passage", WarehouseID: "wh-1", Row: "A", Bay: 1, Position: 2,
		Role: entity.CellRoleStandard, IsPassage: true, Status: entity.CellAvailable,
	}))
	f.cellID = "cell-passage"

	_, err := f.allocate(10, 1, "5", "0.2", adminActor)
	assert.ErrorIs(t, err, domain.ErrCellUnavailable)
}

// Las celdas de rol especial no reciben cuarentena: solo su estado homónimo.
func TestAllocate_RolDeCeldaIncompatible(t *testing.T) {
	f := newFixture(t, entity.EntryOrderApproved)
	r := f.store.Repos()
	require.NoError(t, r.Cells.Create(&entity.Cell{
		ID: "cell-rejected", WarehouseID: "wh-1", Row: "Z", Bay: 1, Position: 1,
		Role: entity.CellRoleRejected, Status: entity.CellAvailable,
	}))
	f.cellID = "cell-rejected"

	_, err := f.allocate(10, 1, "5", "0.2", adminActor)
	assert.ErrorIs(t, err, domain.ErrCellUnavailable)
}

func TestAllocate_FueraDeAlcance(t *testing.T) {
	f := newFixture(t, entity.EntryOrderApproved)
	otherClient := entity.Actor{UserID: "user-cli", Role: entity.RoleClient, ClientIDs: []string{"cli-99"}}

	_, err := f.allocate(10, 1, "5", "0.2", otherClient)
	assert.ErrorIs(t, err, domain.ErrScopeDenied)
}

func TestAllocate_EntradaInvalida(t *testing.T) {
	f := newFixture(t, entity.EntryOrderApproved)

	_, err := f.allocate(0, 0, "0", "0", adminActor)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Allocate(context.Background(), allocation.AllocateInput{
		EntryLineID: "", CellID: f.cellID, Quantity: 10, Actor: adminActor,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
