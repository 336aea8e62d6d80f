package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/farmacia-api/internal/application/analytics"
	"github.com/jhoicas/farmacia-api/internal/domain"
	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/infrastructure/memory"
	"github.com/jhoicas/farmacia-api/pkg/clock"
)

func newSummary(t *testing.T) (*analytics.SummaryUseCase, *memory.Store, *clock.Manual) {
	t.Helper()
	store := memory.NewStore()
	seedMedicines(store)
	clk := clock.NewManual(now)
	uc := analytics.NewSummaryUseCase(store.SaleRepo(), clk, analytics.NewMonthlyCache(5*time.Minute, clk))
	return uc, store, clk
}

func TestGetSummary_YDeHoy(t *testing.T) {
	uc, store, _ := newSummary(t)
	putSale(store, "a", 1, entity.SaleStatusValid, now)
	putSale(store, "a", 1, entity.SaleStatusRejectedExpired, now)
	putSale(store, "b", 9, entity.SaleStatusRejectedOutOfStock, now.AddDate(0, 0, -3))
	ctx := context.Background()

	all, err := uc.GetSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.TotalSales)
	assert.Equal(t, int64(1), all.ValidSales)
	assert.Equal(t, int64(1), all.RejectedExpired)
	assert.Equal(t, int64(1), all.RejectedOutOfStock)

	today, err := uc.GetTodaySummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-14", today.Date)
	assert.Equal(t, int64(2), today.TotalSales)
	assert.Equal(t, int64(0), today.RejectedOutOfStock)
}

func TestGetTodayRevenue_IncluyeFinDelDia(t *testing.T) {
	uc, store, _ := newSummary(t)
	endOfDay := time.Date(2026, 10, 14, 23, 59, 59, 900_000_000, time.UTC)
	putSale(store, "a", 2, entity.SaleStatusValid, endOfDay)
	putSale(store, "a", 1, entity.SaleStatusValid, time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC))
	putSale(store, "b", 1, entity.SaleStatusRejectedExpired, now)

	rev, err := uc.GetTodayRevenue(context.Background())
	require.NoError(t, err)
	assert.True(t, rev.TotalRevenue.Equal(decimal.NewFromInt(20)), "revenue %s", rev.TotalRevenue)
	assert.Equal(t, int64(1), rev.ValidSalesCount)
}

func TestGetMonthlySummary(t *testing.T) {
	uc, store, _ := newSummary(t)
	putSale(store, "a", 1, entity.SaleStatusValid, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))
	putSale(store, "b", 2, entity.SaleStatusValid, time.Date(2026, 10, 31, 23, 59, 59, 0, time.UTC))
	putSale(store, "a", 1, entity.SaleStatusRejectedOutOfStock, time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC))
	putSale(store, "a", 1, entity.SaleStatusValid, time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC))

	m, err := uc.GetMonthlySummary(context.Background(), 2026, 10)
	require.NoError(t, err)
	assert.Equal(t, "2026-10", m.Month)
	assert.Equal(t, int64(2), m.ValidSales)
	assert.Equal(t, int64(1), m.RejectedOutOfStock)
	assert.Equal(t, int64(3), m.TotalSales)
	assert.True(t, m.TotalRevenue.Equal(decimal.NewFromInt(50)))

	_, err = uc.GetMonthlySummary(context.Background(), 2026, 13)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestGetMonthlySummaryRange_UnMesIgualAMensual(t *testing.T) {
	uc, store, _ := newSummary(t)
	putSale(store, "a", 3, entity.SaleStatusValid, now)
	ctx := context.Background()

	single, err := uc.GetMonthlySummary(ctx, 2026, 10)
	require.NoError(t, err)
	rng, err := uc.GetMonthlySummaryRange(ctx, 2026, 10, 1)
	require.NoError(t, err)
	require.Len(t, rng, 1)
	assert.Equal(t, *single, rng[0])
}

func TestGetMonthlySummaryRange_OrdenYLimites(t *testing.T) {
	uc, _, _ := newSummary(t)
	ctx := context.Background()

	rng, err := uc.GetMonthlySummaryRange(ctx, 2026, 2, 4)
	require.NoError(t, err)
	months := make([]string, 0, len(rng))
	for _, m := range rng {
		months = append(months, m.Month)
	}
	assert.Equal(t, []string{"2025-11", "2025-12", "2026-01", "2026-02"}, months)

	for _, count := range []int{-1, 0, 25} {
		_, err := uc.GetMonthlySummaryRange(ctx, 2026, 10, count)
		assert.True(t, errors.Is(err, domain.ErrInvalidArgument), "count %d", count)
	}
	full, err := uc.GetMonthlySummaryRange(ctx, 2026, 10, 24)
	require.NoError(t, err)
	assert.Len(t, full, 24)
}

func TestGetMonthlySummaryRange_CacheConTTL(t *testing.T) {
	uc, store, clk := newSummary(t)
	putSale(store, "a", 1, entity.SaleStatusValid, now)
	ctx := context.Background()

	first, err := uc.GetMonthlySummaryRange(ctx, 2026, 10, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first[1].ValidSales)

	// modificar la copia devuelta no afecta lo guardado
	first[1].ValidSales = 999

	putSale(store, "a", 1, entity.SaleStatusValid, now)
	clk.Advance(4 * time.Minute)
	stale, err := uc.GetMonthlySummaryRange(ctx, 2026, 10, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stale[1].ValidSales, "dentro del TTL se sirve lo cacheado")

	clk.Advance(time.Minute + time.Second)
	fresh, err := uc.GetMonthlySummaryRange(ctx, 2026, 10, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), fresh[1].ValidSales)
}
