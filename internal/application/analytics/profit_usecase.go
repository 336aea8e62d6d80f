package analytics

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/farmacia-api/internal/application/dto"
	"github.com/jhoicas/farmacia-api/internal/domain"
	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/domain/report"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
	"github.com/jhoicas/farmacia-api/pkg/clock"
)

const (
	MinTopLimit     = 1
	MaxTopLimit     = 50
	DefaultTopLimit = 5

	defaultRangeDays = 30
)

// ProfitUseCase ingreso, costo y utilidad de las ventas válidas.
// El costo se calcula con el costo vigente de cada medicamento al momento de la consulta.
type ProfitUseCase struct {
	saleRepo  repository.SaleRepository
	clock     clock.Clock
	rangeDays int
}

// NewProfitUseCase construye el caso de uso. rangeDays es el rango por defecto cuando
// no se indican fechas (0 = 30 días).
func NewProfitUseCase(saleRepo repository.SaleRepository, clk clock.Clock, rangeDays int) *ProfitUseCase {
	if rangeDays <= 0 {
		rangeDays = defaultRangeDays
	}
	return &ProfitUseCase{saleRepo: saleRepo, clock: clk, rangeDays: rangeDays}
}

// ResolveRange interpreta start/end (YYYY-MM-DD, opcionales) con el rango por defecto
// terminando hoy.
func (uc *ProfitUseCase) ResolveRange(startStr, endStr string) (time.Time, time.Time, error) {
	return report.ResolveRange(startStr, endStr, uc.clock.Now(), uc.rangeDays)
}

// GetProfitSummary totales de [start 00:00, end fin del día].
func (uc *ProfitUseCase) GetProfitSummary(ctx context.Context, start, end time.Time) (*dto.ProfitSummaryDTO, error) {
	if err := report.ValidateRange(start, end); err != nil {
		return nil, err
	}
	from, to := report.RangeWindow(start, end)
	t, err := uc.totals(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return &dto.ProfitSummaryDTO{
		StartDate:    report.FormatDate(start),
		EndDate:      report.FormatDate(end),
		TotalRevenue: t.revenue.Round(2),
		TotalCost:    t.cost.Round(2),
		TotalProfit:  t.profit().Round(2),
		SaleCount:    t.count,
	}, nil
}

// ProfitSeries devuelve la serie como secuencia perezosa: cada tramo se consulta al recorrerlo.
// La secuencia puede recorrerse de nuevo (vuelve a consultar). Si una consulta falla se entrega
// el error y la secuencia termina.
func (uc *ProfitUseCase) ProfitSeries(ctx context.Context, start, end time.Time, period report.Period) (iter.Seq2[dto.ProfitPointDTO, error], error) {
	if err := report.ValidateRange(start, end); err != nil {
		return nil, err
	}
	if _, err := report.ParsePeriod(string(period)); err != nil {
		return nil, err
	}
	return func(yield func(dto.ProfitPointDTO, error) bool) {
		for seg := range report.Segments(start, end, period) {
			from, to := report.RangeWindow(seg.Start, seg.End)
			t, err := uc.totals(ctx, from, to)
			if err != nil {
				yield(dto.ProfitPointDTO{}, fmt.Errorf("profit: tramo %s: %w", seg.Label, err))
				return
			}
			point := dto.ProfitPointDTO{
				Label:     seg.Label,
				StartDate: report.FormatDate(seg.Start),
				EndDate:   report.FormatDate(seg.End),
				Revenue:   t.revenue.Round(2),
				Cost:      t.cost.Round(2),
				Profit:    t.profit().Round(2),
				SaleCount: t.count,
			}
			if !yield(point, nil) {
				return
			}
		}
	}, nil
}

// GetProfitSeries recorre ProfitSeries completa.
func (uc *ProfitUseCase) GetProfitSeries(ctx context.Context, start, end time.Time, period report.Period) ([]dto.ProfitPointDTO, error) {
	seq, err := uc.ProfitSeries(ctx, start, end, period)
	if err != nil {
		return nil, err
	}
	var out []dto.ProfitPointDTO
	for p, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// GetTopProfitMedicines los limit medicamentos con mayor utilidad en el rango.
func (uc *ProfitUseCase) GetTopProfitMedicines(ctx context.Context, start, end time.Time, limit int) ([]dto.ProfitByMedicineDTO, error) {
	if limit < MinTopLimit || limit > MaxTopLimit {
		return nil, fmt.Errorf("%w: limit debe estar entre %d y %d", domain.ErrInvalidArgument, MinTopLimit, MaxTopLimit)
	}
	if err := report.ValidateRange(start, end); err != nil {
		return nil, err
	}
	from, to := report.RangeWindow(start, end)
	rows, err := uc.saleRepo.ProfitByMedicine(ctx, entity.SaleStatusValid, from, to)
	if err != nil {
		return nil, fmt.Errorf("profit: utilidad por medicamento: %w", err)
	}
	if len(rows) > limit {
		rows = rows[:limit]
	}
	out := make([]dto.ProfitByMedicineDTO, 0, len(rows))
	for i, r := range rows {
		out = append(out, dto.ProfitByMedicineDTO{
			Rank:         i + 1,
			MedicineID:   r.MedicineID,
			MedicineName: r.MedicineName,
			BatchNumber:  r.BatchNumber,
			QuantitySold: r.QuantitySold,
			Revenue:      r.Revenue.Round(2),
			Cost:         r.Cost.Round(2),
			Profit:       r.Profit().Round(2),
		})
	}
	return out, nil
}

// GetProfitReport resumen, serie y top del mismo rango, con las mismas validaciones.
func (uc *ProfitUseCase) GetProfitReport(ctx context.Context, start, end time.Time, period report.Period, limit int) (*dto.ProfitReportDTO, error) {
	top, err := uc.GetTopProfitMedicines(ctx, start, end, limit)
	if err != nil {
		return nil, err
	}
	summary, err := uc.GetProfitSummary(ctx, start, end)
	if err != nil {
		return nil, err
	}
	series, err := uc.GetProfitSeries(ctx, start, end, period)
	if err != nil {
		return nil, err
	}
	return &dto.ProfitReportDTO{Period: string(period), Summary: *summary, Series: series, Top: top}, nil
}

type profitTotals struct {
	revenue, cost decimal.Decimal
	count         int64
}

func (t profitTotals) profit() decimal.Decimal { return t.revenue.Sub(t.cost) }

func (uc *ProfitUseCase) totals(ctx context.Context, from, to time.Time) (profitTotals, error) {
	revenue, err := uc.saleRepo.SumTotalPriceByStatusAndRange(ctx, entity.SaleStatusValid, from, to)
	if err != nil {
		return profitTotals{}, fmt.Errorf("profit: ingreso: %w", err)
	}
	cost, err := uc.saleRepo.SumCostByStatusAndRange(ctx, entity.SaleStatusValid, from, to)
	if err != nil {
		return profitTotals{}, fmt.Errorf("profit: costo: %w", err)
	}
	count, err := uc.saleRepo.CountByStatusAndRange(ctx, entity.SaleStatusValid, from, to)
	if err != nil {
		return profitTotals{}, fmt.Errorf("profit: conteo: %w", err)
	}
	return profitTotals{revenue: revenue, cost: cost, count: count}, nil
}
