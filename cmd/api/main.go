package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/farmadepot/bodega-api/internal/application/allocation"
	"github.com/farmadepot/bodega-api/internal/application/auth"
	"github.com/farmadepot/bodega-api/internal/application/cells"
	"github.com/farmadepot/bodega-api/internal/application/departure"
	"github.com/farmadepot/bodega-api/internal/application/ledger"
	"github.com/farmadepot/bodega-api/internal/application/orders"
	"github.com/farmadepot/bodega-api/internal/application/quality"
	"github.com/farmadepot/bodega-api/internal/application/reports"
	infrapdf "github.com/farmadepot/bodega-api/internal/infrastructure/pdf"
	"github.com/farmadepot/bodega-api/internal/infrastructure/postgres"
	httpRouter "github.com/farmadepot/bodega-api/internal/interfaces/http"
	"github.com/farmadepot/bodega-api/pkg/config"
	"github.com/farmadepot/bodega-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repositorios sobre el pool (lecturas fuera de transacción).
	allocationRepo := postgres.NewAllocationRepository(pool)
	cellRepo := postgres.NewCellRepository(pool)
	recordRepo := postgres.NewInventoryRecordRepository(pool)
	auditRepo := postgres.NewAuditLogRepository(pool)
	entryRepo := postgres.NewEntryOrderRepository(pool)
	departureRepo := postgres.NewDepartureRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	policy := ledger.Policy{EnforceCellCapacity: cfg.Ledger.EnforceCellCapacity}

	allocationUC := allocation.NewUseCase(txRunner, policy)
	qualityUC := quality.NewUseCase(txRunner, policy)
	departureUC := departure.NewUseCase(txRunner, policy, allocationRepo)
	orderUC := orders.NewUseCase(txRunner, entryRepo, departureRepo)
	cellUC := cells.NewUseCase(cellRepo)

	pdfGenerator := infrapdf.NewMarotoReportGenerator()
	reportUC := reports.NewUseCase(allocationRepo, recordRepo, cellRepo, auditRepo, pdfGenerator)

	authUC := auth.NewUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Bodega Farma API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		CellUC:       cellUC,
		OrderUC:      orderUC,
		AllocationUC: allocationUC,
		QualityUC:    qualityUC,
		DepartureUC:  departureUC,
		ReportUC:     reportUC,
		Entries:      entryRepo,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
