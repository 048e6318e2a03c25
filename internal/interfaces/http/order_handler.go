package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/farmadepot/bodega-api/internal/application/dto"
	"github.com/farmadepot/bodega-api/internal/application/orders"
	"github.com/farmadepot/bodega-api/internal/domain"
	"github.com/farmadepot/bodega-api/internal/domain/repository"
)

// OrderHandler maneja órdenes de ingreso y salida (protegido).
type OrderHandler struct {
	uc      *orders.UseCase
	entries repository.EntryOrderRepository // lectura de líneas
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *orders.UseCase, entries repository.EntryOrderRepository) *OrderHandler {
	return &OrderHandler{uc: uc, entries: entries}
}

// CreateEntryOrder godoc
// @Summary      Registrar orden de ingreso
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateEntryOrderRequest  true  "client_id, observation, lines"
// @Success      201   {object}  dto.EntryOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/entry-orders [post]
func (h *OrderHandler) CreateEntryOrder(c *fiber.Ctx) error {
	var in dto.CreateEntryOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	lines := make([]orders.EntryLineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, orders.EntryLineInput{
			ProductID:      l.ProductID,
			LotNumber:      l.LotNumber,
			ExpirationDate: l.ExpirationDate,
			Quantity:       l.Quantity,
			Packages:       l.Packages,
			Weight:         l.Weight,
			Volume:         l.Volume,
		})
	}
	order, err := h.uc.CreateEntryOrder(c.Context(), orders.CreateEntryOrderInput{
		ClientID:    in.ClientID,
		Observation: in.Observation,
		Lines:       lines,
		Actor:       GetActor(c),
	})
	if err != nil {
		return mapOrderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewEntryOrderResponse(order))
}

// ReviewEntryOrder godoc
// @Summary      Aprobar o rechazar una orden de ingreso pendiente
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.ReviewEntryOrderRequest  true  "approve"
// @Success      200   {object}  map[string]string
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/entry-orders/{id}/review [patch]
func (h *OrderHandler) ReviewEntryOrder(c *fiber.Ctx) error {
	var in dto.ReviewEntryOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.ReviewEntryOrder(c.Context(), c.Params("id"), in.Approve, GetActor(c)); err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: "la orden ya fue revisada"})
		}
		return mapOrderError(c, err)
	}
	return c.JSON(fiber.Map{"message": "orden revisada"})
}

// ListEntryOrders godoc
// @Summary      Listar órdenes de ingreso en alcance
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "tamaño de página (default 20)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200   {array}   dto.EntryOrderResponse
// @Router       /api/entry-orders [get]
func (h *OrderHandler) ListEntryOrders(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	list, err := h.uc.ListEntryOrders(c.Context(), GetActor(c).Scope(), page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.NewEntryOrderResponses(list))
}

// ListEntryOrderLines godoc
// @Summary      Listar líneas de una orden de ingreso
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200   {array}   dto.EntryOrderLineResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/entry-orders/{id}/lines [get]
func (h *OrderHandler) ListEntryOrderLines(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.entries.GetOrderByID(orderID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if order == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "orden no encontrada"})
	}
	if !GetActor(c).Scope().AllowsClient(order.ClientID) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "SCOPE_DENIED", Message: "orden fuera de alcance"})
	}
	lines, err := h.entries.ListLinesByOrder(orderID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.EntryOrderLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, dto.NewEntryOrderLineResponse(l))
	}
	return c.JSON(out)
}

// CreateDepartureOrder godoc
// @Summary      Registrar orden de salida
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDepartureOrderRequest  true  "client_id, lines"
// @Success      201   {object}  dto.DepartureOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/departure-orders [post]
func (h *OrderHandler) CreateDepartureOrder(c *fiber.Ctx) error {
	var in dto.CreateDepartureOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	lines := make([]orders.DepartureLineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, orders.DepartureLineInput{
			ProductID:         l.ProductID,
			RequestedQuantity: l.RequestedQuantity,
		})
	}
	order, err := h.uc.CreateDepartureOrder(c.Context(), orders.CreateDepartureOrderInput{
		ClientID: in.ClientID,
		Lines:    lines,
		Actor:    GetActor(c),
	})
	if err != nil {
		return mapOrderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewDepartureOrderResponse(order))
}

// ListDepartureOrders godoc
// @Summary      Listar órdenes de salida en alcance
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "tamaño de página (default 20)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200   {array}   dto.DepartureOrderResponse
// @Router       /api/departure-orders [get]
func (h *OrderHandler) ListDepartureOrders(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	list, err := h.uc.ListDepartureOrders(c.Context(), GetActor(c).Scope(), page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.NewDepartureOrderResponses(list))
}

func mapOrderError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	}
	if errors.Is(err, domain.ErrScopeDenied) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "SCOPE_DENIED", Message: "fuera del alcance del actor"})
	}
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "orden no encontrada"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
