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

	"github.com/jhoicas/farmacia-api/internal/application/analytics"
	"github.com/jhoicas/farmacia-api/internal/application/audit"
	"github.com/jhoicas/farmacia-api/internal/application/inventory"
	"github.com/jhoicas/farmacia-api/internal/application/sales"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
	"github.com/jhoicas/farmacia-api/internal/infrastructure/memory"
	"github.com/jhoicas/farmacia-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/farmacia-api/internal/interfaces/http"
	"github.com/jhoicas/farmacia-api/pkg/clock"
	"github.com/jhoicas/farmacia-api/pkg/config"
	"github.com/jhoicas/farmacia-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// backend repositorios y transacciones del almacenamiento elegido.
type backend struct {
	salesTx      sales.TxRunner
	stockInTx    inventory.TxRunner
	medicineRepo repository.MedicineRepository
	saleRepo     repository.SaleRepository
	stockInRepo  repository.StockInRepository
	supplierRepo repository.SupplierRepository
	auditRepo    repository.AuditLogRepository
	close        func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Pharmacy.Store).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: todas las rutas /api responderán 401")
	}

	ctx := context.Background()
	be, err := openBackend(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer be.close()

	clk := clock.System(cfg.App.Location())
	auditSvc := audit.NewService(be.auditRepo, clk, log)

	salesUC := sales.NewUseCase(be.salesTx, be.saleRepo, auditSvc, clk, log)
	stockInUC := inventory.NewStockInUseCase(be.stockInTx, be.stockInRepo, be.supplierRepo, auditSvc, clk, log)
	summaryUC := analytics.NewSummaryUseCase(be.saleRepo, clk, analytics.NewMonthlyCache(cfg.Pharmacy.SummaryCacheTTL, clk))
	profitUC := analytics.NewProfitUseCase(be.saleRepo, clk, cfg.Pharmacy.DefaultRangeDays)
	dashboardUC := analytics.NewDashboardUseCase(be.medicineRepo, be.saleRepo, clk, cfg.Pharmacy.LowStockThreshold)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Farmacia API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("sin documentación swagger")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		SalesUC:     salesUC,
		SummaryUC:   summaryUC,
		ProfitUC:    profitUC,
		StockInUC:   stockInUC,
		DashboardUC: dashboardUC,
		JWTSecret:   cfg.JWT.Secret,
		Log:         log,
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

// openBackend conecta PostgreSQL (con migraciones si DB_AUTO_MIGRATE) o crea el almacén en memoria.
func openBackend(ctx context.Context, cfg *config.Config, log *logger.Logger) (*backend, error) {
	if cfg.Pharmacy.Store == "memory" {
		store := memory.NewStore()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return &backend{
			salesTx:      store,
			stockInTx:    store,
			medicineRepo: store.MedicineRepo(),
			saleRepo:     store.SaleRepo(),
			stockInRepo:  store.StockInRepo(),
			supplierRepo: store.SupplierRepo(),
			auditRepo:    store.AuditLogRepo(),
			close:        func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.RunMigrations(ctx, pool, log); err != nil {
			pool.Close()
			return nil, err
		}
	}
	txRunner := postgres.NewTxRunner(pool)
	return &backend{
		salesTx:      txRunner,
		stockInTx:    txRunner,
		medicineRepo: postgres.NewMedicineRepository(pool),
		saleRepo:     postgres.NewSaleRepository(pool),
		stockInRepo:  postgres.NewStockInRepository(pool),
		supplierRepo: postgres.NewSupplierRepository(pool),
		auditRepo:    postgres.NewAuditLogRepository(pool),
		close:        pool.Close,
	}, nil
}
