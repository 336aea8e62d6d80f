package analytics

import (
	"context"
	"fmt"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/farmacia-api/internal/application/dto"
	"github.com/jhoicas/farmacia-api/internal/domain"
	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/domain/report"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
	"github.com/jhoicas/farmacia-api/pkg/cache"
	"github.com/jhoicas/farmacia-api/pkg/clock"
)

const (
	MinRangeMonths     = 1
	MaxRangeMonths     = 24
	DefaultRangeMonths = 6
)

// monthRangeKey clave de caché de GetMonthlySummaryRange.
type monthRangeKey struct {
	year  int
	month time.Month
	count int
}

// MonthlyCache caché de rangos mensuales. Se inyecta para poder compartirla y controlar su reloj.
type MonthlyCache = cache.TTL[monthRangeKey, []dto.MonthlySaleSummaryDTO]

// NewMonthlyCache crea la caché con copia defensiva de cada lista devuelta.
func NewMonthlyCache(ttl time.Duration, clk clock.Clock) *MonthlyCache {
	return cache.NewTTL[monthRangeKey, []dto.MonthlySaleSummaryDTO](ttl, clk, func(v []dto.MonthlySaleSummaryDTO) []dto.MonthlySaleSummaryDTO {
		return slices.Clone(v)
	})
}

// SummaryUseCase conteos por estado y resúmenes mensuales del libro de ventas.
type SummaryUseCase struct {
	saleRepo repository.SaleRepository
	clock    clock.Clock
	monthly  *MonthlyCache
}

// NewSummaryUseCase construye el caso de uso. Si monthly es nil se crea una caché de 5 minutos.
func NewSummaryUseCase(saleRepo repository.SaleRepository, clk clock.Clock, monthly *MonthlyCache) *SummaryUseCase {
	if monthly == nil {
		monthly = NewMonthlyCache(5*time.Minute, clk)
	}
	return &SummaryUseCase{saleRepo: saleRepo, clock: clk, monthly: monthly}
}

// GetSummary conteo histórico por estado.
func (uc *SummaryUseCase) GetSummary(ctx context.Context) (*dto.SaleSummaryDTO, error) {
	var counts [3]int64
	for i, st := range entity.SaleStatuses {
		n, err := uc.saleRepo.CountByStatus(ctx, st)
		if err != nil {
			return nil, fmt.Errorf("summary: contar %s: %w", st, err)
		}
		counts[i] = n
	}
	return newSaleSummary(counts), nil
}

// GetTodaySummary conteo por estado del día actual.
func (uc *SummaryUseCase) GetTodaySummary(ctx context.Context) (*dto.DailySaleSummaryDTO, error) {
	now := uc.clock.Now()
	start, end := report.DayWindow(now)
	counts, err := uc.countByStatusIn(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return &dto.DailySaleSummaryDTO{Date: report.FormatDate(now), SaleSummaryDTO: *newSaleSummary(counts)}, nil
}

// GetTodayRevenue ingreso y cantidad de ventas válidas del día.
func (uc *SummaryUseCase) GetTodayRevenue(ctx context.Context) (*dto.DailyRevenueDTO, error) {
	now := uc.clock.Now()
	start, end := report.DayWindow(now)
	revenue, err := uc.saleRepo.SumTotalPriceByStatusAndRange(ctx, entity.SaleStatusValid, start, end)
	if err != nil {
		return nil, fmt.Errorf("summary: ingreso de hoy: %w", err)
	}
	count, err := uc.saleRepo.CountByStatusAndRange(ctx, entity.SaleStatusValid, start, end)
	if err != nil {
		return nil, fmt.Errorf("summary: ventas válidas de hoy: %w", err)
	}
	return &dto.DailyRevenueDTO{
		Date:            report.FormatDate(now),
		TotalRevenue:    revenue.Round(2),
		ValidSalesCount: count,
	}, nil
}

// GetMonthlySummary conteos e ingreso del mes calendario (year, month).
// Si year o month son cero se usa el mes actual.
func (uc *SummaryUseCase) GetMonthlySummary(ctx context.Context, year, month int) (*dto.MonthlySaleSummaryDTO, error) {
	y, m, err := uc.resolveMonth(year, month)
	if err != nil {
		return nil, err
	}
	out, err := uc.monthSummary(ctx, y, m)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetMonthlySummaryRange count meses consecutivos que terminan en (year, month), del más antiguo
// al más reciente. El resultado se guarda en caché por (year, month, count) durante el TTL:
// dentro de esa ventana se devuelve lo calculado aunque el libro haya cambiado.
// count fuera de 1–24 (incluido 0) es ErrInvalidArgument; el valor por defecto lo aplica el llamador.
func (uc *SummaryUseCase) GetMonthlySummaryRange(ctx context.Context, year, month, count int) ([]dto.MonthlySaleSummaryDTO, error) {
	if count < MinRangeMonths || count > MaxRangeMonths {
		return nil, fmt.Errorf("%w: count debe estar entre %d y %d", domain.ErrInvalidArgument, MinRangeMonths, MaxRangeMonths)
	}
	y, m, err := uc.resolveMonth(year, month)
	if err != nil {
		return nil, err
	}

	key := monthRangeKey{year: y, month: m, count: count}
	return uc.monthly.GetOrCompute(key, func() ([]dto.MonthlySaleSummaryDTO, error) {
		last := time.Date(y, m, 1, 0, 0, 0, 0, uc.clock.Now().Location())
		out := make([]dto.MonthlySaleSummaryDTO, count)
		g, gctx := errgroup.WithContext(ctx)
		for i := range count {
			first := last.AddDate(0, i-(count-1), 0)
			g.Go(func() error {
				s, err := uc.monthSummary(gctx, first.Year(), first.Month())
				if err != nil {
					return err
				}
				out[i] = s
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return out, nil
	})
}

func (uc *SummaryUseCase) monthSummary(ctx context.Context, year int, month time.Month) (dto.MonthlySaleSummaryDTO, error) {
	start, end := report.MonthWindow(year, month, uc.clock.Now().Location())
	counts, err := uc.countByStatusIn(ctx, start, end)
	if err != nil {
		return dto.MonthlySaleSummaryDTO{}, err
	}
	total, err := uc.saleRepo.CountByRange(ctx, start, end)
	if err != nil {
		return dto.MonthlySaleSummaryDTO{}, fmt.Errorf("summary: total del mes: %w", err)
	}
	revenue, err := uc.saleRepo.SumTotalPriceByStatusAndRange(ctx, entity.SaleStatusValid, start, end)
	if err != nil {
		return dto.MonthlySaleSummaryDTO{}, fmt.Errorf("summary: ingreso del mes: %w", err)
	}
	return dto.MonthlySaleSummaryDTO{
		Month:              start.Format("2006-01"),
		ValidSales:         counts[0],
		RejectedExpired:    counts[1],
		RejectedOutOfStock: counts[2],
		TotalSales:         total,
		TotalRevenue:       revenue.Round(2),
	}, nil
}

// countByStatusIn cuenta en el orden de entity.SaleStatuses.
func (uc *SummaryUseCase) countByStatusIn(ctx context.Context, start, end time.Time) ([3]int64, error) {
	var counts [3]int64
	for i, st := range entity.SaleStatuses {
		n, err := uc.saleRepo.CountByStatusAndRange(ctx, st, start, end)
		if err != nil {
			return counts, fmt.Errorf("summary: contar %s: %w", st, err)
		}
		counts[i] = n
	}
	return counts, nil
}

func (uc *SummaryUseCase) resolveMonth(year, month int) (int, time.Month, error) {
	now := uc.clock.Now()
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("%w: month debe estar entre 1 y 12", domain.ErrInvalidArgument)
	}
	if year < 1 || year > 9999 {
		return 0, 0, fmt.Errorf("%w: year inválido", domain.ErrInvalidArgument)
	}
	return year, time.Month(month), nil
}

func newSaleSummary(counts [3]int64) *dto.SaleSummaryDTO {
	return &dto.SaleSummaryDTO{
		TotalSales:         counts[0] + counts[1] + counts[2],
		ValidSales:         counts[0],
		RejectedExpired:    counts[1],
		RejectedOutOfStock: counts[2],
	}
}
