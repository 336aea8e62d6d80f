package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/farmacia-api/internal/application/analytics"
	"github.com/jhoicas/farmacia-api/internal/application/inventory"
	"github.com/jhoicas/farmacia-api/internal/application/sales"
	"github.com/jhoicas/farmacia-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SalesUC     *sales.UseCase
	SummaryUC   *analytics.SummaryUseCase
	ProfitUC    *analytics.ProfitUseCase
	StockInUC   *inventory.StockInUseCase
	DashboardUC *analytics.DashboardUseCase
	JWTSecret   string
	Log         *logger.Logger // nil = sin log de peticiones
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Log != nil {
		app.Use(RequestLogger(deps.Log))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Todo /api requiere Bearer Token
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	reports := RequireRole(RoleAdmin, RolePharmacist)

	// Ventas: cualquier rol puede vender
	salesHandler := NewSalesHandler(deps.SalesUC)
	salesGroup := api.Group("/sales")
	salesGroup.Post("/", RequireRole(RoleAdmin, RolePharmacist, RoleCashier), salesHandler.Create)
	salesGroup.Get("/status/:status", reports, salesHandler.ListByStatus)

	// Resúmenes
	summaryHandler := NewSummaryHandler(deps.SummaryUC)
	summary := salesGroup.Group("/summary", reports)
	summary.Get("/", summaryHandler.Summary)
	summary.Get("/today", summaryHandler.Today)
	summary.Get("/revenue/today", summaryHandler.TodayRevenue)
	summary.Get("/monthly", summaryHandler.Monthly)
	summary.Get("/monthly/range", summaryHandler.MonthlyRange)

	// Utilidad
	profitHandler := NewProfitHandler(deps.ProfitUC)
	profit := salesGroup.Group("/profit", reports)
	profit.Get("/summary", profitHandler.Summary)
	profit.Get("/series", profitHandler.Series)
	profit.Get("/top", profitHandler.Top)
	profit.Get("/export", profitHandler.Export)

	// Recepciones
	stockInHandler := NewStockInHandler(deps.StockInUC)
	stockIns := api.Group("/stock-ins", reports)
	stockIns.Post("/", stockInHandler.Create)
	stockIns.Get("/", stockInHandler.List)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	api.Get("/dashboard", RequireRole(RoleAdmin), dashboardHandler.Get)
}
