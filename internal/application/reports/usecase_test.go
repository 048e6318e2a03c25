package reports_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmadepot/bodega-api/internal/application/reports"
	"github.com/farmadepot/bodega-api/internal/domain"
	"github.com/farmadepot/bodega-api/internal/domain/entity"
	"github.com/farmadepot/bodega-api/internal/infrastructure/memory"
	"github.com/farmadepot/bodega-api/internal/infrastructure/pdf"
)

// seedStore deja dos celdas con saldos: cell-1 de uso general y cell-2
// asignada al cliente cli-1.
func seedStore(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	r := store.Repos()
	now := time.Now()

	require.NoError(t, r.Cells.Create(&entity.Cell{
		ID: "cell-1", WarehouseID: "wh-1", Row: "A", Bay: 1, Position: 1,
		Role: entity.CellRoleStandard, Status: entity.CellOccupied, CreatedAt: now,
	}))
	require.NoError(t, r.Cells.Create(&entity.Cell{
		ID: "cell-2", WarehouseID: "wh-1", Row: "A", Bay: 1, Position: 2,
		Role: entity.CellRoleStandard, AssignedClientID: "cli-1",
		Status: entity.CellOccupied, CreatedAt: now,
	}))
	require.NoError(t, r.Records.Upsert(&entity.InventoryRecord{
		ProductID: "prod-1", CellID: "cell-1", Status: entity.RecordAvailable,
		Balance:   entity.Footprint{Quantity: 80, Packages: 8, Weight: decimal.RequireFromString("40"), Volume: decimal.RequireFromString("1.6")},
		UpdatedAt: now,
	}))
	require.NoError(t, r.Records.Upsert(&entity.InventoryRecord{
		ProductID: "prod-1", CellID: "cell-2", Status: entity.RecordQuarantined,
		Balance:   entity.Footprint{Quantity: 20, Packages: 2, Weight: decimal.RequireFromString("10"), Volume: decimal.RequireFromString("0.4")},
		UpdatedAt: now,
	}))
	return store
}

func newUseCase(store *memory.Store) *reports.UseCase {
	r := store.Repos()
	return reports.NewUseCase(r.Allocations, r.Records, r.Cells, r.Audit, pdf.NewMarotoReportGenerator())
}

func TestInventoryByCell(t *testing.T) {
	uc := newUseCase(seedStore(t))
	admin := entity.Actor{UserID: "u-admin", Role: entity.RoleAdmin}

	recs, err := uc.InventoryByCell(context.Background(), "cell-1", admin.Scope())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, int64(80), recs[0].Balance.Quantity)
}

// Un cliente solo consulta las celdas asignadas a sus clientes.
func TestInventoryByCell_AlcanceCliente(t *testing.T) {
	uc := newUseCase(seedStore(t))
	client := entity.Actor{UserID: "u-cli", Role: entity.RoleClient, ClientIDs: []string{"cli-1"}}

	recs, err := uc.InventoryByCell(context.Background(), "cell-2", client.Scope())
	require.NoError(t, err)
	assert.Len(t, recs, 1)

	// Las celdas de uso general no son visibles para clientes.
	_, err = uc.InventoryByCell(context.Background(), "cell-1", client.Scope())
	assert.ErrorIs(t, err, domain.ErrScopeDenied)
}

// TestInventoryByCellPDF genera el documento real con maroto: debe salir un
// PDF bien formado, no vacío.
func TestInventoryByCellPDF(t *testing.T) {
	uc := newUseCase(seedStore(t))
	admin := entity.Actor{UserID: "u-admin", Role: entity.RoleAdmin}

	doc, err := uc.InventoryByCellPDF(context.Background(), "cell-1", admin.Scope())
	require.NoError(t, err)
	require.NotEmpty(t, doc)
	assert.Equal(t, "%PDF", string(doc[:4]), "encabezado estándar de todo PDF")
}

func TestInventoryByCellPDF_CeldaInexistente(t *testing.T) {
	uc := newUseCase(seedStore(t))
	admin := entity.Actor{UserID: "u-admin", Role: entity.RoleAdmin}

	_, err := uc.InventoryByCellPDF(context.Background(), "cell-999", admin.Scope())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
