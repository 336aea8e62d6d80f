package http

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/farmacia-api/internal/application/analytics"
	"github.com/jhoicas/farmacia-api/internal/application/dto"
	"github.com/jhoicas/farmacia-api/internal/domain"
	"github.com/jhoicas/farmacia-api/internal/domain/report"
	"github.com/jhoicas/farmacia-api/internal/infrastructure/excel"
)

// ProfitHandler reportes de utilidad. start/end son YYYY-MM-DD opcionales
// (por defecto los últimos 30 días hasta hoy).
type ProfitHandler struct {
	uc *analytics.ProfitUseCase
}

// NewProfitHandler construye el handler.
func NewProfitHandler(uc *analytics.ProfitUseCase) *ProfitHandler {
	return &ProfitHandler{uc: uc}
}

// profitParams parámetros ya validados de una consulta de utilidad.
type profitParams struct {
	start, end time.Time
	period     report.Period
	limit      int
}

func (h *ProfitHandler) parse(c *fiber.Ctx) (profitParams, error) {
	var q dto.ProfitQuery
	if err := c.QueryParser(&q); err != nil {
		return profitParams{}, fmt.Errorf("%w: parámetros de consulta inválidos", domain.ErrInvalidInput)
	}
	start, end, err := h.uc.ResolveRange(q.Start, q.End)
	if err != nil {
		return profitParams{}, err
	}
	period, err := report.ParsePeriod(q.Period)
	if err != nil {
		return profitParams{}, err
	}
	limit := analytics.DefaultTopLimit
	if raw := c.Query("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil {
			return profitParams{}, fmt.Errorf("%w: limit debe ser un entero", domain.ErrInvalidArgument)
		}
	}
	return profitParams{start: start, end: end, period: period, limit: limit}, nil
}

// Summary godoc
// @Summary  Resumen de utilidad
// @Tags     profit
// @Security Bearer
// @Produce  json
// @Param    start  query     string  false  "YYYY-MM-DD"
// @Param    end    query     string  false  "YYYY-MM-DD"
// @Success  200    {object}  dto.ProfitSummaryDTO
// @Failure  400    {object}  dto.ErrorResponse
// @Router   /api/sales/profit/summary [get]
func (h *ProfitHandler) Summary(c *fiber.Ctx) error {
	p, err := h.parse(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetProfitSummary(c.UserContext(), p.start, p.end)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Series godoc
// @Summary  Serie de utilidad por período
// @Tags     profit
// @Security Bearer
// @Produce  json
// @Param    start   query     string  false  "YYYY-MM-DD"
// @Param    end     query     string  false  "YYYY-MM-DD"
// @Param    period  query     string  false  "DAILY | WEEKLY | MONTHLY"
// @Success  200     {array}   dto.ProfitPointDTO
// @Failure  400     {object}  dto.ErrorResponse
// @Router   /api/sales/profit/series [get]
func (h *ProfitHandler) Series(c *fiber.Ctx) error {
	p, err := h.parse(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetProfitSeries(c.UserContext(), p.start, p.end, p.period)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Top GET /api/sales/profit/top?start=&end=&limit= (limit 1–50, por defecto 5).
func (h *ProfitHandler) Top(c *fiber.Ctx) error {
	p, err := h.parse(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetTopProfitMedicines(c.UserContext(), p.start, p.end, p.limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Export GET /api/sales/profit/export: resumen, serie y top en un XLSX.
func (h *ProfitHandler) Export(c *fiber.Ctx) error {
	p, err := h.parse(c)
	if err != nil {
		return writeError(c, err)
	}
	rep, err := h.uc.GetProfitReport(c.UserContext(), p.start, p.end, p.period, p.limit)
	if err != nil {
		return writeError(c, err)
	}
	var buf bytes.Buffer
	if err := excel.WriteProfitReport(&buf, rep); err != nil {
		return writeError(c, err)
	}
	filename := fmt.Sprintf("utilidad_%s_%s.xlsx", report.FormatDate(p.start), report.FormatDate(p.end))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}
