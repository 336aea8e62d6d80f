package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/farmacia-api/internal/application/analytics"
	"github.com/jhoicas/farmacia-api/internal/application/audit"
	"github.com/jhoicas/farmacia-api/internal/application/dto"
	"github.com/jhoicas/farmacia-api/internal/application/inventory"
	"github.com/jhoicas/farmacia-api/internal/application/sales"
	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/farmacia-api/internal/interfaces/http"
	"github.com/jhoicas/farmacia-api/pkg/clock"
)

var now = time.Date(2026, 10, 14, 15, 0, 0, 0, time.UTC)

type testAPI struct {
	app   *fiber.App
	store *memory.Store
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := memory.NewStore()
	store.PutMedicine(entity.Medicine{
		ID: "m1", Name: "Ibuprofeno", BatchNumber: "IB-1",
		Price: decimal.NewFromInt(10), CostPrice: decimal.NewFromInt(6),
		Quantity: 5, ExpiryDate: now.AddDate(0, 6, 0), Active: true,
	})
	store.PutSupplier(entity.Supplier{ID: "sup1", Name: "Droguería Central", Active: true})

	clk := clock.NewManual(now)
	auditSvc := audit.NewService(store.AuditLogRepo(), clk, nil)
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		SalesUC:     sales.NewUseCase(store, store.SaleRepo(), auditSvc, clk, nil),
		SummaryUC:   analytics.NewSummaryUseCase(store.SaleRepo(), clk, nil),
		ProfitUC:    analytics.NewProfitUseCase(store.SaleRepo(), clk, 30),
		StockInUC:   inventory.NewStockInUseCase(store, store.StockInRepo(), store.SupplierRepo(), auditSvc, clk, nil),
		DashboardUC: analytics.NewDashboardUseCase(store.MedicineRepo(), store.SaleRepo(), clk, 10),
		JWTSecret:   testJWTSecret,
	})
	return &testAPI{app: app, store: store}
}

func (a *testAPI) do(t *testing.T, method, path, role string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	resp := api.do(t, http.MethodGet, "/health", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateSale_ValidaYRechazada(t *testing.T) {
	api := newTestAPI(t)

	resp := api.do(t, http.MethodPost, "/api/sales", apphttp.RoleCashier, dto.CreateSaleRequest{MedicineID: "m1", Quantity: 3})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sale := decode[dto.SaleDTO](t, resp)
	assert.Equal(t, "VALID", sale.Status)
	assert.True(t, decimal.NewFromInt(30).Equal(sale.TotalPrice))

	// Un rechazo no es un error HTTP: el motivo va en status.
	resp = api.do(t, http.MethodPost, "/api/sales", apphttp.RoleCashier, dto.CreateSaleRequest{MedicineID: "m1", Quantity: 5})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "REJECTED_OUT_OF_STOCK", decode[dto.SaleDTO](t, resp).Status)

	med, _ := api.store.Medicine("m1")
	assert.Equal(t, 2, med.Quantity)

	entries := api.store.AuditEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, testUsername, entries[0].Actor)
}

func TestCreateSale_Errores(t *testing.T) {
	api := newTestAPI(t)

	resp := api.do(t, http.MethodPost, "/api/sales", apphttp.RoleCashier, dto.CreateSaleRequest{MedicineID: "nope", Quantity: 1})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = api.do(t, http.MethodPost, "/api/sales", apphttp.RoleCashier, dto.CreateSaleRequest{MedicineID: "m1", Quantity: 0})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = api.do(t, http.MethodPost, "/api/sales", "", dto.CreateSaleRequest{MedicineID: "m1", Quantity: 1})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestListByStatus(t *testing.T) {
	api := newTestAPI(t)
	api.do(t, http.MethodPost, "/api/sales", apphttp.RoleCashier, dto.CreateSaleRequest{MedicineID: "m1", Quantity: 1}).Body.Close()

	resp := api.do(t, http.MethodGet, "/api/sales/status/VALID", apphttp.RolePharmacist, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.SaleDTO](t, resp), 1)

	resp = api.do(t, http.MethodGet, "/api/sales/status/PENDING", apphttp.RolePharmacist, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestSummaryEndpoints(t *testing.T) {
	api := newTestAPI(t)
	api.do(t, http.MethodPost, "/api/sales", apphttp.RoleCashier, dto.CreateSaleRequest{MedicineID: "m1", Quantity: 3}).Body.Close()
	api.do(t, http.MethodPost, "/api/sales", apphttp.RoleCashier, dto.CreateSaleRequest{MedicineID: "m1", Quantity: 5}).Body.Close()

	resp := api.do(t, http.MethodGet, "/api/sales/summary", apphttp.RoleCashier, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = api.do(t, http.MethodGet, "/api/sales/summary", apphttp.RolePharmacist, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sum := decode[dto.SaleSummaryDTO](t, resp)
	assert.Equal(t, int64(2), sum.TotalSales)
	assert.Equal(t, int64(1), sum.ValidSales)
	assert.Equal(t, int64(1), sum.RejectedOutOfStock)

	resp = api.do(t, http.MethodGet, "/api/sales/summary/revenue/today", apphttp.RolePharmacist, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rev := decode[dto.DailyRevenueDTO](t, resp)
	assert.Equal(t, "2026-10-14", rev.Date)
	assert.True(t, decimal.NewFromInt(30).Equal(rev.TotalRevenue))

	resp = api.do(t, http.MethodGet, "/api/sales/summary/monthly/range?year=2026&month=10", apphttp.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	months := decode[[]dto.MonthlySaleSummaryDTO](t, resp)
	require.Len(t, months, analytics.DefaultRangeMonths)
	assert.Equal(t, "2026-10", months[len(months)-1].Month)

	for _, count := range []string{"0", "25", "-1"} {
		resp = api.do(t, http.MethodGet, "/api/sales/summary/monthly/range?year=2026&month=10&count="+count, apphttp.RoleAdmin, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "count=%s", count)
		resp.Body.Close()
	}

	resp = api.do(t, http.MethodGet, "/api/sales/summary/monthly?month=13", apphttp.RoleAdmin, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestProfitEndpoints(t *testing.T) {
	api := newTestAPI(t)
	api.do(t, http.MethodPost, "/api/sales", apphttp.RoleCashier, dto.CreateSaleRequest{MedicineID: "m1", Quantity: 3}).Body.Close()

	resp := api.do(t, http.MethodGet, "/api/sales/profit/summary", apphttp.RolePharmacist, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	p := decode[dto.ProfitSummaryDTO](t, resp)
	assert.True(t, decimal.NewFromInt(30).Equal(p.TotalRevenue))
	assert.True(t, decimal.NewFromInt(18).Equal(p.TotalCost))
	assert.True(t, decimal.NewFromInt(12).Equal(p.TotalProfit))

	resp = api.do(t, http.MethodGet, "/api/sales/profit/series?start=2026-10-01&end=2026-10-14&period=weekly", apphttp.RolePharmacist, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.ProfitPointDTO](t, resp), 2)

	resp = api.do(t, http.MethodGet, "/api/sales/profit/top", apphttp.RolePharmacist, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	top := decode[[]dto.ProfitByMedicineDTO](t, resp)
	require.Len(t, top, 1)
	assert.Equal(t, 1, top[0].Rank)

	bad := []string{
		"/api/sales/profit/summary?start=2026-10-10&end=2026-10-01",
		"/api/sales/profit/summary?start=10/01/2026",
		"/api/sales/profit/series?period=HOURLY",
		"/api/sales/profit/top?limit=0",
		"/api/sales/profit/top?limit=51",
		"/api/sales/profit/top?limit=abc",
	}
	for _, path := range bad {
		resp := api.do(t, http.MethodGet, path, apphttp.RolePharmacist, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
		resp.Body.Close()
	}
}

func TestProfitExport(t *testing.T) {
	api := newTestAPI(t)
	api.do(t, http.MethodPost, "/api/sales", apphttp.RoleCashier, dto.CreateSaleRequest{MedicineID: "m1", Quantity: 2}).Body.Close()

	resp := api.do(t, http.MethodGet, "/api/sales/profit/export?start=2026-10-01&end=2026-10-14", apphttp.RoleAdmin, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "utilidad_2026-10-01_2026-10-14.xlsx")

	f, err := excelize.OpenReader(resp.Body)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Resumen")
}

func TestStockInEndpoints(t *testing.T) {
	api := newTestAPI(t)

	resp := api.do(t, http.MethodPost, "/api/stock-ins", apphttp.RoleCashier, dto.StockInRequest{MedicineID: "m1", SupplierID: "sup1", Quantity: 10})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = api.do(t, http.MethodPost, "/api/stock-ins", apphttp.RolePharmacist, dto.StockInRequest{MedicineID: "m1", SupplierID: "sup1", Quantity: 10})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	in := decode[dto.StockInDTO](t, resp)
	assert.Equal(t, 15, in.ResultingStock)
	assert.False(t, in.MedicineCreated)

	resp = api.do(t, http.MethodPost, "/api/stock-ins", apphttp.RolePharmacist, dto.StockInRequest{MedicineID: "m1", SupplierID: "ghost", Quantity: 1})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = api.do(t, http.MethodGet, "/api/stock-ins", apphttp.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.StockInDTO](t, resp), 1)
}

func TestDashboard(t *testing.T) {
	api := newTestAPI(t)
	api.do(t, http.MethodPost, "/api/sales", apphttp.RoleCashier, dto.CreateSaleRequest{MedicineID: "m1", Quantity: 1}).Body.Close()

	resp := api.do(t, http.MethodGet, "/api/dashboard", apphttp.RolePharmacist, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = api.do(t, http.MethodGet, "/api/dashboard", apphttp.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	d := decode[dto.DashboardDTO](t, resp)
	assert.Equal(t, "Octubre 2026", d.DateLabel)
}
