// Package analytics contiene los casos de uso de reportes sobre el libro de ventas:
// resúmenes por estado, utilidad (resumen, serie, ranking) y el dashboard.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/farmacia-api/internal/application/dto"
	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/domain/report"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
	"github.com/jhoicas/farmacia-api/pkg/clock"
)

// DashboardUseCase estado del inventario y de las ventas para la pantalla principal.
//
// Solo lectura: no toma bloqueos ni abre transacciones.
type DashboardUseCase struct {
	medicineRepo      repository.MedicineRepository
	saleRepo          repository.SaleRepository
	clock             clock.Clock
	lowStockThreshold int
}

// NewDashboardUseCase construye el caso de uso. lowStockThreshold aplica a medicamentos sin punto de reorden propio.
func NewDashboardUseCase(
	medicineRepo repository.MedicineRepository,
	saleRepo repository.SaleRepository,
	clk clock.Clock,
	lowStockThreshold int,
) *DashboardUseCase {
	return &DashboardUseCase{
		medicineRepo:      medicineRepo,
		saleRepo:          saleRepo,
		clock:             clk,
		lowStockThreshold: lowStockThreshold,
	}
}

// GetDashboard construye el DashboardDTO.
//
// Las consultas de ventas corren en paralelo:
//  1. Count                       → TotalSales
//  2. SumTotalPrice(VALID, hoy)   → TodaySalesAmount
//  3. CountByStatus(por estado)   → CompletedSales + CancelledSales
func (uc *DashboardUseCase) GetDashboard(ctx context.Context) (*dto.DashboardDTO, error) {
	now := uc.clock.Now()
	todayStart, todayEnd := report.DayWindow(now)

	type countResult struct {
		n   int64
		err error
	}
	type amountResult struct {
		amount decimal.Decimal
		err    error
	}
	type statusResult struct {
		byStatus map[entity.SaleStatus]int64
		err      error
	}

	totalCh := make(chan countResult, 1)
	todayCh := make(chan amountResult, 1)
	statusCh := make(chan statusResult, 1)

	go func() {
		n, err := uc.saleRepo.Count(ctx)
		totalCh <- countResult{n, err}
	}()
	go func() {
		amount, err := uc.saleRepo.SumTotalPriceByStatusAndRange(ctx, entity.SaleStatusValid, todayStart, todayEnd)
		todayCh <- amountResult{amount, err}
	}()
	go func() {
		byStatus := make(map[entity.SaleStatus]int64, len(entity.SaleStatuses))
		for _, st := range entity.SaleStatuses {
			n, err := uc.saleRepo.CountByStatus(ctx, st)
			if err != nil {
				statusCh <- statusResult{err: err}
				return
			}
			byStatus[st] = n
		}
		statusCh <- statusResult{byStatus: byStatus}
	}()

	active, err := uc.medicineRepo.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: medicamentos activos: %w", err)
	}
	lowStock, err := uc.medicineRepo.CountLowStock(ctx, uc.lowStockThreshold)
	if err != nil {
		return nil, fmt.Errorf("dashboard: bajo stock: %w", err)
	}
	outOfStock, err := uc.medicineRepo.CountOutOfStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: sin stock: %w", err)
	}

	total := <-totalCh
	today := <-todayCh
	status := <-statusCh

	if total.err != nil {
		return nil, fmt.Errorf("dashboard: total de ventas: %w", total.err)
	}
	if today.err != nil {
		return nil, fmt.Errorf("dashboard: ingreso de hoy: %w", today.err)
	}
	if status.err != nil {
		return nil, fmt.Errorf("dashboard: ventas por estado: %w", status.err)
	}

	return &dto.DashboardDTO{
		TotalMedicines:      active,
		LowStockMedicines:   lowStock,
		OutOfStockMedicines: outOfStock,
		TotalSales:          total.n,
		TodaySalesAmount:    today.amount.Round(2),
		CompletedSales:      status.byStatus[entity.SaleStatusValid],
		CancelledSales:      status.byStatus[entity.SaleStatusRejectedExpired] + status.byStatus[entity.SaleStatusRejectedOutOfStock],
		DateLabel:           monthLabel(now),
	}, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Octubre 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
