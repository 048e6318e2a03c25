package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/farmadepot/bodega-api/internal/application/allocation"
	"github.com/farmadepot/bodega-api/internal/application/dto"
	"github.com/farmadepot/bodega-api/internal/application/quality"
	"github.com/farmadepot/bodega-api/internal/domain"
)

// AllocationHandler maneja asignaciones y transiciones de calidad (protegido).
type AllocationHandler struct {
	allocate *allocation.UseCase
	quality  *quality.UseCase
}

// NewAllocationHandler construye el handler.
func NewAllocationHandler(allocate *allocation.UseCase, q *quality.UseCase) *AllocationHandler {
	return &AllocationHandler{allocate: allocate, quality: q}
}

// Allocate godoc
// @Summary      Asignar mercadería de una línea aprobada a una celda
// @Description  Crea la asignación en QUARANTINE/ACTIVE, actualiza el registro
// @Description  de inventario y la ocupación de la celda, y deja auditoría RECEIPT.
// @Tags         allocations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AllocateRequest  true  "entry_line_id, cell_id, huella"
// @Success      201   {object}  dto.AllocationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/allocations [post]
func (h *AllocationHandler) Allocate(c *fiber.Ctx) error {
	var in dto.AllocateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	a, err := h.allocate.Allocate(c.Context(), allocation.AllocateInput{
		EntryLineID: in.EntryLineID,
		CellID:      in.CellID,
		Quantity:    in.Quantity,
		Packages:    in.Packages,
		Weight:      in.Weight,
		Volume:      in.Volume,
		Actor:       GetActor(c),
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "línea o celda no encontrada"})
		}
		if errors.Is(err, domain.ErrNotApproved) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NOT_APPROVED", Message: "la orden de ingreso no está aprobada"})
		}
		if errors.Is(err, domain.ErrQuantityExceedsLine) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EXCEEDS_LINE", Message: "la cantidad excede el saldo sin asignar de la línea"})
		}
		if errors.Is(err, domain.ErrCellUnavailable) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CELL_UNAVAILABLE", Message: "celda de pasillo o rol incompatible"})
		}
		if errors.Is(err, domain.ErrScopeDenied) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "SCOPE_DENIED", Message: "fuera del alcance del actor"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewAllocationResponse(a))
}

// Transition godoc
// @Summary      Transición de calidad de una asignación
// @Description  Mueve todo o parte de una asignación en cuarentena hacia una
// @Description  rama terminal. Cantidad parcial crea una rama SPLIT nueva.
// @Tags         allocations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la asignación"
// @Param        body  body  dto.QualityTransitionRequest  true  "to_status, quantity, new_cell_id, reason"
// @Success      200   {object}  dto.QualityTransitionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/allocations/{id}/transition [post]
func (h *AllocationHandler) Transition(c *fiber.Ctx) error {
	var in dto.QualityTransitionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.quality.Transition(c.Context(), quality.TransitionInput{
		AllocationID: c.Params("id"),
		ToStatus:     in.ToStatus,
		Quantity:     in.Quantity,
		NewCellID:    in.NewCellID,
		Reason:       in.Reason,
		Actor:        GetActor(c),
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "asignación o celda no encontrada"})
		}
		if errors.Is(err, domain.ErrInvalidTransition) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: "transición de calidad inválida"})
		}
		if errors.Is(err, domain.ErrInsufficientQuantity) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_QUANTITY", Message: "cantidad mayor al saldo de la asignación"})
		}
		if errors.Is(err, domain.ErrCellUnavailable) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CELL_UNAVAILABLE", Message: "celda destino no disponible"})
		}
		if errors.Is(err, domain.ErrScopeDenied) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "SCOPE_DENIED", Message: "fuera del alcance del actor"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.NewQualityTransitionResponse(res.Updated, res.Branch))
}
