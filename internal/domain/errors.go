package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")

	// Reglas de negocio del núcleo de inventario.
	ErrNotApproved           = errors.New("la orden no está aprobada")
	ErrCellUnavailable       = errors.New("celda no disponible")
	ErrQuantityExceedsLine   = errors.New("la cantidad excede el saldo sin asignar de la línea")
	ErrScopeDenied           = errors.New("el alcance del actor no cubre el recurso")
	ErrInvalidTransition     = errors.New("transición de calidad inválida")
	ErrInsufficientQuantity  = errors.New("cantidad insuficiente en la asignación")
	ErrInsufficientStock     = errors.New("stock aprobado insuficiente")
	ErrPlanMismatch          = errors.New("el plan no coincide con la cantidad solicitada")
	ErrAlreadyDispatched     = errors.New("la orden de salida ya fue despachada")
	ErrConcurrencyConflict   = errors.New("el estado cambió desde la lectura; reintente con datos frescos")
	ErrAllocationMutated     = errors.New("la asignación cambió desde la reserva")
	ErrInventoryInconsistent = errors.New("inconsistencia de inventario detectada")
)

// InsufficientStockError detalla un faltante de stock aprobado para que el
// llamador decida reintentar, abortar o escalar. Envuelve ErrInsufficientStock.
type InsufficientStockError struct {
	ProductID string
	Requested int64
	Shortfall int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock aprobado insuficiente para producto %s: solicitado=%d faltante=%d",
		e.ProductID, e.Requested, e.Shortfall)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// ConflictError detalla un conflicto de concurrencia sobre una asignación.
// Envuelve ErrConcurrencyConflict: el llamador debe rearmar el plan FIFO.
type ConflictError struct {
	AllocationID string
	Requested    int64
	Available    int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("asignación %s: solicitado=%d disponible=%d", e.AllocationID, e.Requested, e.Available)
}

func (e *ConflictError) Unwrap() error { return ErrConcurrencyConflict }
