package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/farmadepot/bodega-api/internal/application/departure"
	"github.com/farmadepot/bodega-api/internal/application/dto"
	"github.com/farmadepot/bodega-api/internal/domain"
)

// DepartureHandler maneja la canalización de salida: sugerencia FIFO,
// reserva y despacho (protegido).
type DepartureHandler struct {
	uc *departure.UseCase
}

// NewDepartureHandler construye el handler.
func NewDepartureHandler(uc *departure.UseCase) *DepartureHandler {
	return &DepartureHandler{uc: uc}
}

// Suggest godoc
// @Summary      Sugerencia FIFO para una cantidad de producto
// @Description  Lectura sin bloqueo: el plan puede quedar obsoleto y la
// @Description  reserva lo revalida dentro de su transacción.
// @Tags         departures
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  true  "ID del producto"
// @Param        requested   query  int     true  "unidades solicitadas"
// @Success      200   {object}  dto.PlanResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/departures/suggest [get]
func (h *DepartureHandler) Suggest(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	requested, err := strconv.ParseInt(c.Query("requested"), 10, 64)
	if err != nil || productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id y requested requeridos"})
	}
	plan, err := h.uc.SuggestAllocation(c.Context(), productID, requested, GetActor(c).Scope())
	if err != nil {
		var stock *domain.InsufficientStockError
		if errors.As(err, &stock) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Code:    "INSUFFICIENT_STOCK",
				Message: stock.Error(),
			})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.NewPlanResponse(plan))
}

// Reserve godoc
// @Summary      Congelar un plan FIFO contra una línea de salida
// @Description  Revalida cada toma dentro de la transacción: la asignación
// @Description  debe seguir seleccionable y con disponibilidad neta (saldo
// @Description  menos reservas pendientes) suficiente.
// @Tags         departures
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la línea de salida"
// @Param        body  body  dto.ReserveRequest  true  "plan a congelar"
// @Success      201   {array}   dto.ReservationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/departure-lines/{id}/reserve [post]
func (h *DepartureHandler) Reserve(c *fiber.Ctx) error {
	var in dto.ReserveRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	reserved, err := h.uc.ReserveForDeparture(c.Context(), c.Params("id"), in.Plan(), GetActor(c))
	if err != nil {
		return mapDepartureError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewReservationResponses(reserved))
}

// Dispatch godoc
// @Summary      Despachar todas las reservas pendientes de una orden
// @Description  Descuenta asignaciones, registros de inventario y ocupación
// @Description  de celdas de forma permanente; marca DEPLETED al llegar a
// @Description  cero y deja auditoría DEPARTURE por asignación.
// @Tags         departures
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden de salida"
// @Success      200   {object}  dto.DispatchResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/departure-orders/{id}/dispatch [post]
func (h *DepartureHandler) Dispatch(c *fiber.Ctx) error {
	orderID := c.Params("id")
	status, err := h.uc.Dispatch(c.Context(), orderID, GetActor(c))
	if err != nil {
		return mapDepartureError(c, err)
	}
	return c.JSON(dto.DispatchResponse{OrderID: orderID, Status: status})
}

func mapDepartureError(c *fiber.Ctx, err error) error {
	var conflict *domain.ConflictError
	if errors.As(err, &conflict) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: conflict.Error()})
	}
	var stock *domain.InsufficientStockError
	if errors.As(err, &stock) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: stock.Error()})
	}
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado o sin reservas pendientes"})
	case errors.Is(err, domain.ErrScopeDenied):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "SCOPE_DENIED", Message: "fuera del alcance del actor"})
	case errors.Is(err, domain.ErrAlreadyDispatched):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_DISPATCHED", Message: "la orden ya fue despachada"})
	case errors.Is(err, domain.ErrPlanMismatch):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "PLAN_MISMATCH", Message: "el plan no coincide con el saldo de la línea"})
	case errors.Is(err, domain.ErrAllocationMutated):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALLOCATION_MUTATED", Message: "la asignación cambió desde la reserva"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
