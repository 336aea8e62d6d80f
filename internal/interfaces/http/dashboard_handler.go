package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/farmacia-api/internal/application/analytics"
)

// DashboardHandler maneja el endpoint del dashboard.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Get devuelve el estado del inventario y de las ventas.
// GET /api/dashboard
//
// Respuesta: DashboardDTO (total_medicines, low_stock_medicines, out_of_stock_medicines,
// total_sales, today_sales_amount, completed_sales, cancelled_sales, date_label).
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.GetDashboard(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
