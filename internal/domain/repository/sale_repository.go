package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/farmacia-api/internal/domain/entity"
)

// ProfitByMedicineResult resultado crudo de la agregación de utilidad por medicamento.
// Cost se calcula con el costo vigente del medicamento al momento de la consulta.
type ProfitByMedicineResult struct {
	MedicineID   string
	MedicineName string
	BatchNumber  string
	QuantitySold int64
	Revenue      decimal.Decimal // SUM(total_price)
	Cost         decimal.Decimal // SUM(quantity * medicines.cost_price)
}

// Profit Revenue - Cost.
func (r ProfitByMedicineResult) Profit() decimal.Decimal {
	return r.Revenue.Sub(r.Cost)
}

// SaleRepository puerto del libro de ventas (append-only).
// Create y Update aplican entity.DeriveTotalPrice antes de escribir.
// Los rangos [start, end] son inclusivos.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	Update(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	ListByStatus(ctx context.Context, status entity.SaleStatus, limit, offset int) ([]*entity.Sale, error)

	CountByStatus(ctx context.Context, status entity.SaleStatus) (int64, error)
	CountByStatusAndRange(ctx context.Context, status entity.SaleStatus, start, end time.Time) (int64, error)
	CountByRange(ctx context.Context, start, end time.Time) (int64, error)
	Count(ctx context.Context) (int64, error)

	SumTotalPriceByStatusAndRange(ctx context.Context, status entity.SaleStatus, start, end time.Time) (decimal.Decimal, error)
	SumCostByStatusAndRange(ctx context.Context, status entity.SaleStatus, start, end time.Time) (decimal.Decimal, error)

	// ProfitByMedicine agrupa por medicamento, ordenado por utilidad descendente.
	ProfitByMedicine(ctx context.Context, status entity.SaleStatus, start, end time.Time) ([]ProfitByMedicineResult, error)
}
