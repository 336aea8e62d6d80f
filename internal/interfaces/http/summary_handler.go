package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/farmacia-api/internal/application/analytics"
	"github.com/jhoicas/farmacia-api/internal/application/dto"
)

// SummaryHandler conteos y resúmenes del libro de ventas.
type SummaryHandler struct {
	uc *analytics.SummaryUseCase
}

// NewSummaryHandler construye el handler.
func NewSummaryHandler(uc *analytics.SummaryUseCase) *SummaryHandler {
	return &SummaryHandler{uc: uc}
}

// GET /api/sales/summary
func (h *SummaryHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.GetSummary(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GET /api/sales/summary/today
func (h *SummaryHandler) Today(c *fiber.Ctx) error {
	out, err := h.uc.GetTodaySummary(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GET /api/sales/summary/revenue/today
func (h *SummaryHandler) TodayRevenue(c *fiber.Ctx) error {
	out, err := h.uc.GetTodayRevenue(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Monthly GET /api/sales/summary/monthly?year=&month= (por defecto el mes actual).
func (h *SummaryHandler) Monthly(c *fiber.Ctx) error {
	var q dto.MonthlyQuery
	if err := c.QueryParser(&q); err != nil {
		return badQuery(c)
	}
	out, err := h.uc.GetMonthlySummary(c.UserContext(), q.Year, q.Month)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// MonthlyRange GET /api/sales/summary/monthly/range?year=&month=&count= (count 1–24, por defecto 6).
func (h *SummaryHandler) MonthlyRange(c *fiber.Ctx) error {
	var q dto.MonthlyQuery
	if err := c.QueryParser(&q); err != nil {
		return badQuery(c)
	}
	if c.Query("count") == "" {
		q.Count = analytics.DefaultRangeMonths
	}
	out, err := h.uc.GetMonthlySummaryRange(c.UserContext(), q.Year, q.Month, q.Count)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func badQuery(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de consulta inválidos"})
}
