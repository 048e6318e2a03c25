package fifo_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmadepot/bodega-api/internal/domain"
	"github.com/farmadepot/bodega-api/internal/domain/entity"
	"github.com/farmadepot/bodega-api/internal/domain/fifo"
)

func alloc(id string, remaining int64, expiry *time.Time, received time.Time) *entity.Allocation {
	return &entity.Allocation{
		ID:              id,
		ProductID:       "prod-1",
		ExpirationDate:  expiry,
		ReceivedAt:      received,
		Remaining:       entity.Footprint{Quantity: remaining},
		QualityStatus:   entity.QualityApproved,
		LifecycleStatus: entity.LifecycleActive,
	}
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

// TestSelect_OrdenFIFO: primero vence, primero sale; a igual vencimiento
// decide la fecha de recepción.
func TestSelect_OrdenFIFO(t *testing.T) {
	base := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	candidates := []*entity.Allocation{
		alloc("C", 100, datePtr(2027, 6, 1), base),
		alloc("A", 50, datePtr(2026, 12, 1), base.Add(48*time.Hour)),
		alloc("B", 30, datePtr(2027, 6, 1), base.Add(-24*time.Hour)),
	}

	plan, err := fifo.Select("prod-1", 80, candidates)
	require.NoError(t, err)
	require.Len(t, plan.Picks, 2)
	assert.Equal(t, fifo.Pick{AllocationID: "A", Quantity: 50}, plan.Picks[0], "vence antes, sale primero")
	assert.Equal(t, fifo.Pick{AllocationID: "B", Quantity: 30}, plan.Picks[1], "a igual vencimiento, recepción más antigua")
	assert.Equal(t, int64(80), plan.Total())
}

// TestSelect_SinVencimientoAlFinal: las asignaciones sin fecha de vencimiento
// solo se toman cuando las fechadas no alcanzan.
func TestSelect_SinVencimientoAlFinal(t *testing.T) {
	base := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	candidates := []*entity.Allocation{
		alloc("sin-fecha", 100, nil, base.Add(-72*time.Hour)),
		alloc("con-fecha", 60, datePtr(2026, 3, 1), base),
	}

	plan, err := fifo.Select("prod-1", 70, candidates)
	require.NoError(t, err)
	require.Len(t, plan.Picks, 2)
	assert.Equal(t, "con-fecha", plan.Picks[0].AllocationID)
	assert.Equal(t, int64(60), plan.Picks[0].Quantity)
	assert.Equal(t, "sin-fecha", plan.Picks[1].AllocationID)
	assert.Equal(t, int64(10), plan.Picks[1].Quantity)
}

// TestSelect_Determinista: dos llamadas sin mutaciones intermedias devuelven
// planes idénticos aunque el orden de entrada cambie.
func TestSelect_Determinista(t *testing.T) {
	base := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	expiry := datePtr(2026, 12, 1)
	a := alloc("aaa", 20, expiry, base)
	b := alloc("bbb", 20, expiry, base)
	c := alloc("ccc", 20, expiry, base)

	plan1, err := fifo.Select("prod-1", 50, []*entity.Allocation{c, a, b})
	require.NoError(t, err)
	plan2, err := fifo.Select("prod-1", 50, []*entity.Allocation{b, c, a})
	require.NoError(t, err)

	assert.Equal(t, plan1, plan2, "el desempate por ID hace el plan reproducible")
	assert.Equal(t, "aaa", plan1.Picks[0].AllocationID)
}

// TestSelect_StockInsuficiente: el faltante se reporta con detalle para que
// el llamador decida.
func TestSelect_StockInsuficiente(t *testing.T) {
	candidates := []*entity.Allocation{
		alloc("A", 30, nil, time.Now()),
	}

	_, err := fifo.Select("prod-1", 100, candidates)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, int64(70), stockErr.Shortfall)
	assert.Equal(t, int64(100), stockErr.Requested)
}

// TestSelect_IgnoraNoSeleccionables: cuarentena, agotadas y otros productos
// no entran al plan.
func TestSelect_IgnoraNoSeleccionables(t *testing.T) {
	quarantined := alloc("q", 100, nil, time.Now())
	quarantined.QualityStatus = entity.QualityQuarantine
	depleted := alloc("d", 0, nil, time.Now())
	depleted.LifecycleStatus = entity.LifecycleDepleted
	otherProduct := alloc("o", 100, nil, time.Now())
	otherProduct.ProductID = "prod-2"
	good := alloc("g", 40, nil, time.Now())

	plan, err := fifo.Select("prod-1", 40, []*entity.Allocation{quarantined, depleted, otherProduct, good})
	require.NoError(t, err)
	require.Len(t, plan.Picks, 1)
	assert.Equal(t, "g", plan.Picks[0].AllocationID)
}

func TestSelect_CantidadInvalida(t *testing.T) {
	_, err := fifo.Select("prod-1", 0, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
