package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/farmadepot/bodega-api/internal/application/cells"
	"github.com/farmadepot/bodega-api/internal/application/dto"
	"github.com/farmadepot/bodega-api/internal/domain"
)

// CellHandler maneja la administración de celdas (protegido).
type CellHandler struct {
	uc *cells.UseCase
}

// NewCellHandler construye el handler.
func NewCellHandler(uc *cells.UseCase) *CellHandler {
	return &CellHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar celda de almacenamiento
// @Tags         cells
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCellRequest  true  "warehouse_id, row, bay, position, role, is_passage, capacidades"
// @Success      201   {object}  dto.CellResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cells [post]
func (h *CellHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCellRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	cell, err := h.uc.Create(c.Context(), cells.CreateInput{
		WarehouseID:      in.WarehouseID,
		Row:              in.Row,
		Bay:              in.Bay,
		Position:         in.Position,
		Role:             in.Role,
		IsPassage:        in.IsPassage,
		AssignedClientID: in.AssignedClientID,
		CapacityQuantity: in.CapacityQuantity,
		CapacityWeight:   in.CapacityWeight,
	}, GetActor(c))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		if errors.Is(err, domain.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "solo admin registra celdas"})
		}
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "ya existe una celda en esa posición"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewCellResponse(cell))
}

// List godoc
// @Summary      Listar celdas de una bodega
// @Tags         cells
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  true   "ID de la bodega"
// @Param        limit         query  int     false  "tamaño de página (default 20)"
// @Param        offset        query  int     false  "desplazamiento"
// @Success      200   {array}   dto.CellResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/cells [get]
func (h *CellHandler) List(c *fiber.Ctx) error {
	warehouseID := c.Query("warehouse_id")
	if warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "warehouse_id requerido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	list, err := h.uc.ListByWarehouse(c.Context(), warehouseID, page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.CellResponse, 0, len(list))
	for _, cell := range list {
		out = append(out, dto.NewCellResponse(cell))
	}
	return c.JSON(out)
}
