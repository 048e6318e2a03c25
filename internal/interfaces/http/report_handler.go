package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/farmadepot/bodega-api/internal/application/dto"
	"github.com/farmadepot/bodega-api/internal/application/reports"
	"github.com/farmadepot/bodega-api/internal/domain"
)

// ReportHandler expone las vistas de lectura: asignaciones, inventario
// derivado, auditoría y el PDF de inventario por celda (protegido).
type ReportHandler struct {
	uc *reports.UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reports.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// AllocationsByQuality godoc
// @Summary      Asignaciones de un producto por estado de calidad
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  true   "ID del producto"
// @Param        quality     query  string  false  "QUARANTINE|APPROVED|RETURNS|SAMPLES|REJECTED (vacío = todos)"
// @Success      200   {array}   dto.AllocationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/reports/allocations [get]
func (h *ReportHandler) AllocationsByQuality(c *fiber.Ctx) error {
	list, err := h.uc.AllocationsByQuality(c.Context(), c.Query("product_id"), c.Query("quality"), GetActor(c).Scope())
	if err != nil {
		return mapReportError(c, err)
	}
	return c.JSON(dto.NewAllocationResponses(list))
}

// AllocationsByCell godoc
// @Summary      Asignaciones ubicadas en una celda
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la celda"
// @Success      200   {array}   dto.AllocationResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/reports/cells/{id}/allocations [get]
func (h *ReportHandler) AllocationsByCell(c *fiber.Ctx) error {
	list, err := h.uc.AllocationsByCell(c.Context(), c.Params("id"), GetActor(c).Scope())
	if err != nil {
		return mapReportError(c, err)
	}
	return c.JSON(dto.NewAllocationResponses(list))
}

// InventoryByCell godoc
// @Summary      Saldos derivados por estado de una celda
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la celda"
// @Success      200   {array}   dto.InventoryRecordResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/reports/cells/{id}/inventory [get]
func (h *ReportHandler) InventoryByCell(c *fiber.Ctx) error {
	list, err := h.uc.InventoryByCell(c.Context(), c.Params("id"), GetActor(c).Scope())
	if err != nil {
		return mapReportError(c, err)
	}
	return c.JSON(dto.NewInventoryRecordResponses(list))
}

// InventoryByCellPDF godoc
// @Summary      PDF del inventario de una celda
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la celda"
// @Success      200   {file}    binary
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/reports/cells/{id}/inventory.pdf [get]
func (h *ReportHandler) InventoryByCellPDF(c *fiber.Ctx) error {
	pdfBytes, err := h.uc.InventoryByCellPDF(c.Context(), c.Params("id"), GetActor(c).Scope())
	if err != nil {
		return mapReportError(c, err)
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `inline; filename="inventario-celda.pdf"`)
	return c.Send(pdfBytes)
}

// AuditByProduct godoc
// @Summary      Historia de cantidades de un producto
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        limit   query  int     false  "tamaño de página (default 20)"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200   {array}   dto.AuditEntryResponse
// @Router       /api/reports/products/{id}/audit [get]
func (h *ReportHandler) AuditByProduct(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	list, err := h.uc.AuditByProduct(c.Context(), c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return mapReportError(c, err)
	}
	return c.JSON(dto.NewAuditEntryResponses(list))
}

// AuditByCell godoc
// @Summary      Historia de cantidades de una celda
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID de la celda"
// @Param        limit   query  int     false  "tamaño de página (default 20)"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200   {array}   dto.AuditEntryResponse
// @Router       /api/reports/cells/{id}/audit [get]
func (h *ReportHandler) AuditByCell(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	list, err := h.uc.AuditByCell(c.Context(), c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return mapReportError(c, err)
	}
	return c.JSON(dto.NewAuditEntryResponses(list))
}

func mapReportError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrScopeDenied):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "SCOPE_DENIED", Message: "fuera del alcance del actor"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
