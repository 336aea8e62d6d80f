//go:build integration

// Pruebas contra una base PostgreSQL real:
//
//	TEST_DATABASE_URL=postgres://... go test -tags integration ./internal/infrastructure/postgres/
package postgres_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/farmacia-api/internal/application/audit"
	"github.com/jhoicas/farmacia-api/internal/application/dto"
	"github.com/jhoicas/farmacia-api/internal/application/sales"
	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/infrastructure/postgres"
	"github.com/jhoicas/farmacia-api/pkg/clock"
	"github.com/jhoicas/farmacia-api/pkg/config"
	"github.com/jhoicas/farmacia-api/pkg/logger"
)

var day = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

func openTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: url, MaxConns: 30})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.RunMigrations(ctx, pool, logger.Nop()))
	_, err = pool.Exec(ctx, `TRUNCATE audit_logs, stock_ins, sales, medicines, suppliers CASCADE`)
	require.NoError(t, err)
	return pool
}

func createMedicine(t *testing.T, pool *pgxpool.Pool, id, batch string, price, cost int64, qty int) *entity.Medicine {
	t.Helper()
	m := &entity.Medicine{
		ID: id, Name: "Med " + id, BatchNumber: batch,
		Price: decimal.NewFromInt(price), CostPrice: decimal.NewFromInt(cost),
		Quantity: qty, ExpiryDate: day.AddDate(1, 0, 0), Active: true,
		CreatedAt: day, UpdatedAt: day,
	}
	require.NoError(t, postgres.NewMedicineRepository(pool).Create(context.Background(), m))
	return m
}

func createSale(t *testing.T, pool *pgxpool.Pool, med *entity.Medicine, qty int, status entity.SaleStatus, at time.Time) {
	t.Helper()
	s := entity.NewSale(fmt.Sprintf("%s-%d-%s", med.ID, at.UnixNano(), status), med, qty, status, at)
	require.NoError(t, postgres.NewSaleRepository(pool).Create(context.Background(), s))
}

func TestSaleRepo_AgregadosDeUtilidad(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()
	a := createMedicine(t, pool, "a", "A-1", 10, 6, 100)
	b := createMedicine(t, pool, "b", "B-1", 20, 5, 100)

	createSale(t, pool, a, 3, entity.SaleStatusValid, day)
	createSale(t, pool, b, 1, entity.SaleStatusValid, day.Add(time.Hour))
	createSale(t, pool, a, 9, entity.SaleStatusRejectedOutOfStock, day)
	createSale(t, pool, a, 1, entity.SaleStatusValid, day.AddDate(0, 0, -40))

	repo := postgres.NewSaleRepository(pool)
	start, end := day.AddDate(0, 0, -1), day.AddDate(0, 0, 1)

	revenue, err := repo.SumTotalPriceByStatusAndRange(ctx, entity.SaleStatusValid, start, end)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(50).Equal(revenue), revenue.String())

	cost, err := repo.SumCostByStatusAndRange(ctx, entity.SaleStatusValid, start, end)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(23).Equal(cost), cost.String())

	empty, err := repo.SumCostByStatusAndRange(ctx, entity.SaleStatusValid, day.AddDate(1, 0, 0), day.AddDate(1, 0, 1))
	require.NoError(t, err)
	assert.True(t, empty.IsZero())

	rows, err := repo.ProfitByMedicine(ctx, entity.SaleStatusValid, start, end)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// b: 20 - 5 = 15; a: 30 - 18 = 12
	assert.Equal(t, "b", rows[0].MedicineID)
	assert.True(t, decimal.NewFromInt(15).Equal(rows[0].Profit()))
	assert.Equal(t, "a", rows[1].MedicineID)
	assert.Equal(t, int64(3), rows[1].QuantitySold)
	assert.True(t, decimal.NewFromInt(12).Equal(rows[1].Profit()))
}

func TestRunSale_ConcurrenciaSinSobreventa(t *testing.T) {
	pool := openTestPool(t)
	createMedicine(t, pool, "m", "M-1", 10, 6, 10)

	clk := clock.System(time.UTC)
	recorder := audit.NewService(postgres.NewAuditLogRepository(pool), clk, nil)
	uc := sales.NewUseCase(postgres.NewTxRunner(pool), postgres.NewSaleRepository(pool), recorder, clk, nil)

	const workers = 25
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		statuses = map[string]int{}
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{MedicineID: "m", Quantity: 1})
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			statuses[out.Status]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, statuses[string(entity.SaleStatusValid)])
	assert.Equal(t, workers-10, statuses[string(entity.SaleStatusRejectedOutOfStock)])

	med, err := postgres.NewMedicineRepository(pool).GetActiveByID(context.Background(), "m")
	require.NoError(t, err)
	assert.Equal(t, 0, med.Quantity)

	n, err := postgres.NewSaleRepository(pool).Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(workers), n)
}
