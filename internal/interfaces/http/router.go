package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/farmadepot/bodega-api/internal/application/allocation"
	"github.com/farmadepot/bodega-api/internal/application/auth"
	"github.com/farmadepot/bodega-api/internal/application/cells"
	"github.com/farmadepot/bodega-api/internal/application/departure"
	"github.com/farmadepot/bodega-api/internal/application/orders"
	"github.com/farmadepot/bodega-api/internal/application/quality"
	"github.com/farmadepot/bodega-api/internal/application/reports"
	"github.com/farmadepot/bodega-api/internal/domain/entity"
	"github.com/farmadepot/bodega-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.UseCase
	CellUC       *cells.UseCase
	OrderUC      *orders.UseCase
	AllocationUC *allocation.UseCase
	QualityUC    *quality.UseCase
	DepartureUC  *departure.UseCase
	ReportUC     *reports.UseCase
	Entries      repository.EntryOrderRepository
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Cells (protegido; creación solo admin, validado en el use case)
	cellGroup := protected.Group("/cells")
	cellHandler := NewCellHandler(deps.CellUC)
	cellGroup.Post("/", cellHandler.Create)
	cellGroup.Get("/", cellHandler.List)

	// Órdenes de ingreso
	orderHandler := NewOrderHandler(deps.OrderUC, deps.Entries)
	entryGroup := protected.Group("/entry-orders")
	entryGroup.Post("/", orderHandler.CreateEntryOrder)
	entryGroup.Get("/", orderHandler.ListEntryOrders)
	entryGroup.Get("/:id/lines", orderHandler.ListEntryOrderLines)
	entryGroup.Patch("/:id/review",
		RequireRole(entity.RoleAdmin, entity.RoleWarehouse),
		orderHandler.ReviewEntryOrder)

	// Órdenes de salida y despacho
	departureHandler := NewDepartureHandler(deps.DepartureUC)
	departureOrders := protected.Group("/departure-orders")
	departureOrders.Post("/", orderHandler.CreateDepartureOrder)
	departureOrders.Get("/", orderHandler.ListDepartureOrders)
	departureOrders.Post("/:id/dispatch", departureHandler.Dispatch)

	departures := protected.Group("/departures")
	departures.Get("/suggest", departureHandler.Suggest)

	departureLines := protected.Group("/departure-lines")
	departureLines.Post("/:id/reserve", departureHandler.Reserve)

	// Asignaciones y calidad
	allocationHandler := NewAllocationHandler(deps.AllocationUC, deps.QualityUC)
	allocations := protected.Group("/allocations")
	allocations.Post("/",
		RequireRole(entity.RoleAdmin, entity.RoleWarehouse),
		allocationHandler.Allocate)
	allocations.Post("/:id/transition",
		RequireRole(entity.RoleAdmin, entity.RoleWarehouse),
		allocationHandler.Transition)

	// Reportes y auditoría
	reportHandler := NewReportHandler(deps.ReportUC)
	reportGroup := protected.Group("/reports")
	reportGroup.Get("/allocations", reportHandler.AllocationsByQuality)
	reportGroup.Get("/cells/:id/allocations", reportHandler.AllocationsByCell)
	reportGroup.Get("/cells/:id/inventory", reportHandler.InventoryByCell)
	reportGroup.Get("/cells/:id/inventory.pdf", reportHandler.InventoryByCellPDF)
	reportGroup.Get("/cells/:id/audit", reportHandler.AuditByCell)
	reportGroup.Get("/products/:id/audit", reportHandler.AuditByProduct)
}
