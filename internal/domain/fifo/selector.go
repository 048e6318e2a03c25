// Package fifo implementa el planificador de selección de asignaciones para
// salidas: primero vence, primero sale. Es puro: no lee ni escribe el store,
// el llamador debe revalidar el plan dentro de la transacción de reserva.
package fifo

import (
	"sort"

	"github.com/farmadepot/bodega-api/internal/domain"
	"github.com/farmadepot/bodega-api/internal/domain/entity"
)

// Pick es una toma planificada sobre una asignación concreta.
type Pick struct {
	AllocationID string
	Quantity     int64
}

// Plan es el resultado de una selección FIFO satisfecha.
type Plan struct {
	ProductID string
	Requested int64
	Picks     []Pick
}

// Total devuelve la suma de cantidades del plan.
func (p Plan) Total() int64 {
	var t int64
	for _, pk := range p.Picks {
		t += pk.Quantity
	}
	return t
}

// Select arma el plan FIFO para requested unidades sobre las candidatas:
// asignaciones APPROVED/ACTIVE con saldo. Orden: vencimiento ascendente
// (sin vencimiento al final), recepción ascendente, y por ID para que dos
// llamadas sin mutaciones intermedias devuelvan planes idénticos.
// Si las candidatas no alcanzan, devuelve InsufficientStockError con el faltante.
func Select(productID string, requested int64, candidates []*entity.Allocation) (Plan, error) {
	plan := Plan{ProductID: productID, Requested: requested}
	if requested <= 0 {
		return plan, domain.ErrInvalidInput
	}

	ordered := make([]*entity.Allocation, 0, len(candidates))
	for _, a := range candidates {
		if a.ProductID == productID && a.IsSelectable() {
			ordered = append(ordered, a)
		}
	}
	sort.Slice(ordered, func(i, j int) bool { return less(ordered[i], ordered[j]) })

	still := requested
	for _, a := range ordered {
		if still == 0 {
			break
		}
		take := a.Remaining.Quantity
		if take > still {
			take = still
		}
		plan.Picks = append(plan.Picks, Pick{AllocationID: a.ID, Quantity: take})
		still -= take
	}
	if still > 0 {
		return Plan{}, &domain.InsufficientStockError{
			ProductID: productID,
			Requested: requested,
			Shortfall: still,
		}
	}
	return plan, nil
}

func less(a, b *entity.Allocation) bool {
	switch {
	case a.ExpirationDate == nil && b.ExpirationDate != nil:
		return false
	case a.ExpirationDate != nil && b.ExpirationDate == nil:
		return true
	case a.ExpirationDate != nil && b.ExpirationDate != nil:
		if !a.ExpirationDate.Equal(*b.ExpirationDate) {
			return a.ExpirationDate.Before(*b.ExpirationDate)
		}
	}
	if !a.ReceivedAt.Equal(b.ReceivedAt) {
		return a.ReceivedAt.Before(b.ReceivedAt)
	}
	return a.ID < b.ID
}
