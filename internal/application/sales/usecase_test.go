package sales_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/farmacia-api/internal/application/audit"
	"github.com/jhoicas/farmacia-api/internal/application/dto"
	"github.com/jhoicas/farmacia-api/internal/application/sales"
	"github.com/jhoicas/farmacia-api/internal/domain"
	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/infrastructure/memory"
	"github.com/jhoicas/farmacia-api/pkg/clock"
	"github.com/jhoicas/farmacia-api/pkg/logger"
)

var today = time.Date(2026, 10, 14, 10, 30, 0, 0, time.UTC)

func newUseCase(t *testing.T) (*sales.UseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	clk := clock.NewManual(today)
	rec := audit.NewService(store.AuditLogRepo(), clk, logger.Nop())
	return sales.NewUseCase(store, store.SaleRepo(), rec, clk, logger.Nop()), store
}

func medicineA(qty int) entity.Medicine {
	return entity.Medicine{
		ID:          "med-a",
		Name:        "Acetaminofén 500mg",
		BatchNumber: "L-001",
		Price:       decimal.RequireFromString("10.00"),
		CostPrice:   decimal.RequireFromString("6.00"),
		Quantity:    qty,
		ExpiryDate:  today.AddDate(1, 0, 0),
		Active:      true,
	}
}

func TestCreateSale_Escenario(t *testing.T) {
	uc, store := newUseCase(t)
	store.PutMedicine(medicineA(5))
	ctx := context.Background()

	first, err := uc.CreateSale(ctx, dto.CreateSaleRequest{MedicineID: "med-a", Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, string(entity.SaleStatusValid), first.Status)
	assert.True(t, first.TotalPrice.Equal(decimal.NewFromInt(30)), "total %s", first.TotalPrice)
	assert.True(t, first.UnitPrice.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "Acetaminofén 500mg", first.MedicineName)

	med, _ := store.Medicine("med-a")
	assert.Equal(t, 2, med.Quantity)

	second, err := uc.CreateSale(ctx, dto.CreateSaleRequest{MedicineID: "med-a", Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, string(entity.SaleStatusRejectedOutOfStock), second.Status)
	assert.True(t, second.TotalPrice.IsZero())

	med, _ = store.Medicine("med-a")
	assert.Equal(t, 2, med.Quantity)
	assert.Len(t, store.Sales(), 2)

	entries := store.AuditEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, audit.ActionSale, entries[0].Action)
	assert.Equal(t, audit.ActionSaleRejected, entries[1].Action)
}

func TestCreateSale_VencidoTienePrioridadSobreStock(t *testing.T) {
	uc, store := newUseCase(t)
	med := medicineA(1)
	med.ExpiryDate = today.AddDate(0, 0, -1)
	store.PutMedicine(med)

	// pide más de lo disponible: aun así el motivo debe ser el vencimiento
	sale, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{MedicineID: "med-a", Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, string(entity.SaleStatusRejectedExpired), sale.Status)
	assert.True(t, sale.TotalPrice.IsZero())

	got, _ := store.Medicine("med-a")
	assert.Equal(t, 1, got.Quantity)
}

func TestCreateSale_VenceHoyEsVendible(t *testing.T) {
	uc, store := newUseCase(t)
	med := medicineA(2)
	med.ExpiryDate = entity.DateOf(today)
	store.PutMedicine(med)

	sale, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{MedicineID: "med-a", Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, string(entity.SaleStatusValid), sale.Status)
	got, _ := store.Medicine("med-a")
	assert.Equal(t, 0, got.Quantity)
}

func TestCreateSale_NoEncontrado(t *testing.T) {
	uc, store := newUseCase(t)
	inactive := medicineA(5)
	inactive.Active = false
	store.PutMedicine(inactive)

	for _, id := range []string{"med-a", "no-existe"} {
		_, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{MedicineID: id, Quantity: 1})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrNotFound), "id %s: %v", id, err)
	}
	assert.Empty(t, store.Sales())
}

func TestCreateSale_EntradaInvalida(t *testing.T) {
	uc, _ := newUseCase(t)
	_, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{MedicineID: "med-a", Quantity: 0})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestCreateSale_FalloDeAuditoriaNoAfectaLaVenta(t *testing.T) {
	uc, store := newUseCase(t)
	store.PutMedicine(medicineA(5))
	store.FailAudit(errors.New("audit caído"))

	sale, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{MedicineID: "med-a", Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, string(entity.SaleStatusValid), sale.Status)
	assert.Len(t, store.Sales(), 1)
	assert.Empty(t, store.AuditEntries())
}

func TestCreateSale_ConcurrenteNoSobrevende(t *testing.T) {
	uc, store := newUseCase(t)
	store.PutMedicine(medicineA(10))

	const workers = 25
	var wg sync.WaitGroup
	results := make(chan string, workers)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sale, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{MedicineID: "med-a", Quantity: 1})
			if err == nil {
				results <- sale.Status
			}
		}()
	}
	wg.Wait()
	close(results)

	valid := 0
	total := 0
	for st := range results {
		total++
		if st == string(entity.SaleStatusValid) {
			valid++
		}
	}
	assert.Equal(t, workers, total)
	assert.Equal(t, 10, valid)
	med, _ := store.Medicine("med-a")
	assert.Equal(t, 0, med.Quantity)
}

func TestListByStatus(t *testing.T) {
	uc, store := newUseCase(t)
	store.PutMedicine(medicineA(1))
	ctx := context.Background()
	_, err := uc.CreateSale(ctx, dto.CreateSaleRequest{MedicineID: "med-a", Quantity: 1})
	require.NoError(t, err)
	_, err = uc.CreateSale(ctx, dto.CreateSaleRequest{MedicineID: "med-a", Quantity: 1})
	require.NoError(t, err)

	valid, err := uc.ListByStatus(ctx, "VALID", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, valid, 1)

	rejected, err := uc.ListByStatus(ctx, "REJECTED_OUT_OF_STOCK", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, rejected, 1)
	assert.Equal(t, "L-001", rejected[0].BatchNumber)

	_, err = uc.ListByStatus(ctx, "PENDING", dto.PageRequest{})
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}
