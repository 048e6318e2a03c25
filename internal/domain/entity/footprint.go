package entity

import "github.com/shopspring/decimal"

// Footprint es la huella física de una cantidad de producto: unidades,
// bultos, peso (kg) y volumen (m³). Se usa para mover saldos entre
// asignaciones, registros de inventario y ocupación de celdas.
type Footprint struct {
	Quantity int64
	Packages int64
	Weight   decimal.Decimal
	Volume   decimal.Decimal
}

// Add suma componente a componente.
func (f Footprint) Add(o Footprint) Footprint {
	return Footprint{
		Quantity: f.Quantity + o.Quantity,
		Packages: f.Packages + o.Packages,
		Weight:   f.Weight.Add(o.Weight),
		Volume:   f.Volume.Add(o.Volume),
	}
}

// Sub resta componente a componente.
func (f Footprint) Sub(o Footprint) Footprint {
	return Footprint{
		Quantity: f.Quantity - o.Quantity,
		Packages: f.Packages - o.Packages,
		Weight:   f.Weight.Sub(o.Weight),
		Volume:   f.Volume.Sub(o.Volume),
	}
}

// IsZero indica si todos los componentes son cero.
func (f Footprint) IsZero() bool {
	return f.Quantity == 0 && f.Packages == 0 && f.Weight.IsZero() && f.Volume.IsZero()
}

// IsNegative indica si algún componente quedó por debajo de cero.
func (f Footprint) IsNegative() bool {
	return f.Quantity < 0 || f.Packages < 0 || f.Weight.IsNegative() || f.Volume.IsNegative()
}

// Fits indica si o cabe dentro de f (o ≤ f en cada componente).
func (f Footprint) Fits(o Footprint) bool {
	return !f.Sub(o).IsNegative()
}

// Prorate devuelve la porción de la huella que corresponde a quantity
// unidades, prorrateando bultos, peso y volumen. El resto queda en
// f.Sub(porción), de modo que la suma de ambas partes conserva la huella
// original exactamente.
func (f Footprint) Prorate(quantity int64) Footprint {
	if quantity >= f.Quantity || f.Quantity == 0 {
		return f
	}
	q := decimal.NewFromInt(quantity)
	total := decimal.NewFromInt(f.Quantity)
	return Footprint{
		Quantity: quantity,
		Packages: f.Packages * quantity / f.Quantity,
		Weight:   f.Weight.Mul(q).Div(total).Round(6),
		Volume:   f.Volume.Mul(q).Div(total).Round(6),
	}
}
