package cells_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmadepot/bodega-api/internal/application/cells"
	"github.com/farmadepot/bodega-api/internal/domain"
	"github.com/farmadepot/bodega-api/internal/domain/entity"
	"github.com/farmadepot/bodega-api/internal/infrastructure/memory"
)

func newUseCase() *cells.UseCase {
	return cells.NewUseCase(memory.NewStore().Repos().Cells)
}

func TestCreate(t *testing.T) {
	uc := newUseCase()
	admin := entity.Actor{UserID: "u-admin", Role: entity.RoleAdmin}

	c, err := uc.Create(context.Background(), cells.CreateInput{
		WarehouseID: "wh-1", Row: "A", Bay: 2, Position: 1, Role: entity.CellRoleStandard,
	}, admin)
	require.NoError(t, err)
	assert.Equal(t, entity.CellAvailable, c.Status, "toda celda nace disponible")
	assert.True(t, c.CurrentUsage.IsZero())
	assert.Equal(t, "A.02.01", c.Code())
}

// Solo admin registra celdas: la topología de la bodega no es operativa.
func TestCreate_SoloAdmin(t *testing.T) {
	uc := newUseCase()
	warehouse := entity.Actor{UserID: "u-wh", Role: entity.RoleWarehouse}

	_, err := uc.Create(context.Background(), cells.CreateInput{
		WarehouseID: "wh-1", Row: "A", Bay: 1, Position: 1, Role: entity.CellRoleStandard,
	}, warehouse)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// La posición (bodega, fila, columna, posición) es única.
func TestCreate_PosicionDuplicada(t *testing.T) {
	uc := newUseCase()
	admin := entity.Actor{UserID: "u-admin", Role: entity.RoleAdmin}
	in := cells.CreateInput{WarehouseID: "wh-1", Row: "B", Bay: 1, Position: 3, Role: entity.CellRoleStandard}

	_, err := uc.Create(context.Background(), in, admin)
	require.NoError(t, err)
	_, err = uc.Create(context.Background(), in, admin)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreate_RolInvalido(t *testing.T) {
	uc := newUseCase()
	admin := entity.Actor{UserID: "u-admin", Role: entity.RoleAdmin}

	_, err := uc.Create(context.Background(), cells.CreateInput{
		WarehouseID: "wh-1", Row: "A", Bay: 1, Position: 1, Role: "FRIO",
	}, admin)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListByWarehouse(t *testing.T) {
	uc := newUseCase()
	admin := entity.Actor{UserID: "u-admin", Role: entity.RoleAdmin}
	for i := 1; i <= 3; i++ {
		_, err := uc.Create(context.Background(), cells.CreateInput{
			WarehouseID: "wh-1", Row: "A", Bay: 1, Position: i, Role: entity.CellRoleStandard,
		}, admin)
		require.NoError(t, err)
	}

	listed, err := uc.ListByWarehouse(context.Background(), "wh-1", 2, 0)
	require.NoError(t, err)
	assert.Len(t, listed, 2, "la paginación limita el listado")

	rest, err := uc.ListByWarehouse(context.Background(), "wh-1", 2, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}
