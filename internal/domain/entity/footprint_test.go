package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmadepot/bodega-api/internal/domain/entity"
)

func fp(q, p int64, w, v string) entity.Footprint {
	return entity.Footprint{
		Quantity: q,
		Packages: p,
		Weight:   decimal.RequireFromString(w),
		Volume:   decimal.RequireFromString(v),
	}
}

func TestFootprint_AddSub(t *testing.T) {
	a := fp(100, 10, "25.5", "1.2")
	b := fp(40, 4, "10.2", "0.5")

	sum := a.Add(b)
	assert.Equal(t, int64(140), sum.Quantity)
	assert.Equal(t, int64(14), sum.Packages)
	assert.True(t, sum.Weight.Equal(decimal.RequireFromString("35.7")))

	back := sum.Sub(b)
	assert.Equal(t, a.Quantity, back.Quantity)
	assert.True(t, back.Weight.Equal(a.Weight))
	assert.True(t, back.Volume.Equal(a.Volume))
}

func TestFootprint_Fits(t *testing.T) {
	line := fp(100, 10, "50", "2")

	assert.True(t, line.Fits(fp(100, 10, "50", "2")), "la huella completa cabe exacta")
	assert.True(t, line.Fits(fp(30, 3, "15", "0.6")))
	assert.False(t, line.Fits(fp(101, 10, "50", "2")), "una unidad de más no cabe")
	assert.False(t, line.Fits(fp(50, 11, "50", "2")), "los bultos también limitan")
	assert.False(t, line.Fits(fp(50, 5, "50.001", "2")), "el peso también limita")
}

// TestFootprint_ProrateConservaSuma verifica el invariante de conservación:
// la porción prorrateada más el resto reconstruyen la huella original exacta,
// sin perder ni inventar gramos por redondeo.
func TestFootprint_ProrateConservaSuma(t *testing.T) {
	total := fp(100, 7, "33.333", "1.111")

	part := total.Prorate(40)
	rest := total.Sub(part)

	assert.Equal(t, int64(40), part.Quantity)
	recomposed := part.Add(rest)
	require.Equal(t, total.Quantity, recomposed.Quantity)
	require.Equal(t, total.Packages, recomposed.Packages)
	assert.True(t, recomposed.Weight.Equal(total.Weight), "peso conservado: %s vs %s", recomposed.Weight, total.Weight)
	assert.True(t, recomposed.Volume.Equal(total.Volume), "volumen conservado")
}

func TestFootprint_ProrateCantidadCompleta(t *testing.T) {
	total := fp(50, 5, "10", "0.4")

	assert.Equal(t, total, total.Prorate(50), "pedir todo devuelve la huella íntegra")
	assert.Equal(t, total, total.Prorate(60), "pedir de más también")
}

func TestFootprint_IsZeroIsNegative(t *testing.T) {
	assert.True(t, entity.Footprint{}.IsZero())
	assert.False(t, fp(1, 0, "0", "0").IsZero())
	assert.True(t, fp(10, 2, "5", "1").Sub(fp(11, 0, "0", "0")).IsNegative())
	assert.False(t, fp(10, 2, "5", "1").Sub(fp(10, 2, "5", "1")).IsNegative())
}
