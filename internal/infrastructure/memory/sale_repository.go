package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/farmacia-api/internal/domain"
	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación en memoria del libro de ventas.
type SaleRepo struct{ v view }

func (r *SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	sale.Normalize()
	defer r.v.lock()()
	for _, s := range r.v.st.sales {
		if s.ID == sale.ID {
			return fmt.Errorf("%w: venta %s ya existe", domain.ErrConflict, sale.ID)
		}
	}
	stored := *sale
	stored.Medicine = nil
	r.v.st.sales = append(r.v.st.sales, stored)
	return nil
}

func (r *SaleRepo) Update(_ context.Context, sale *entity.Sale) error {
	sale.Normalize()
	defer r.v.lock()()
	for i, s := range r.v.st.sales {
		if s.ID == sale.ID {
			stored := *sale
			stored.Medicine = nil
			r.v.st.sales[i] = stored
			return nil
		}
	}
	return fmt.Errorf("%w: venta %s", domain.ErrNotFound, sale.ID)
}

func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	defer r.v.rlock()()
	for _, s := range r.v.st.sales {
		if s.ID == id {
			return r.withMedicine(s), nil
		}
	}
	return nil, nil
}

func (r *SaleRepo) ListByStatus(_ context.Context, status entity.SaleStatus, limit, offset int) ([]*entity.Sale, error) {
	defer r.v.rlock()()
	var matched []entity.Sale
	for _, s := range r.v.st.sales {
		if s.Status == status {
			matched = append(matched, s)
		}
	}
	slices.SortStableFunc(matched, func(a, b entity.Sale) int { return b.SaleDate.Compare(a.SaleDate) })
	if offset >= len(matched) {
		return []*entity.Sale{}, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	out := make([]*entity.Sale, 0, len(matched))
	for _, s := range matched {
		out = append(out, r.withMedicine(s))
	}
	return out, nil
}

func (r *SaleRepo) CountByStatus(_ context.Context, status entity.SaleStatus) (int64, error) {
	return r.count(func(s entity.Sale) bool { return s.Status == status }), nil
}

func (r *SaleRepo) CountByStatusAndRange(_ context.Context, status entity.SaleStatus, start, end time.Time) (int64, error) {
	return r.count(func(s entity.Sale) bool { return s.Status == status && inRange(s.SaleDate, start, end) }), nil
}

func (r *SaleRepo) CountByRange(_ context.Context, start, end time.Time) (int64, error) {
	return r.count(func(s entity.Sale) bool { return inRange(s.SaleDate, start, end) }), nil
}

func (r *SaleRepo) Count(_ context.Context) (int64, error) {
	return r.count(func(entity.Sale) bool { return true }), nil
}

func (r *SaleRepo) SumTotalPriceByStatusAndRange(_ context.Context, status entity.SaleStatus, start, end time.Time) (decimal.Decimal, error) {
	defer r.v.rlock()()
	total := decimal.Zero
	for _, s := range r.v.st.sales {
		if s.Status == status && inRange(s.SaleDate, start, end) {
			total = total.Add(s.TotalPrice)
		}
	}
	return total, nil
}

// SumCostByStatusAndRange usa el costo vigente del medicamento, igual que el JOIN en PostgreSQL.
func (r *SaleRepo) SumCostByStatusAndRange(_ context.Context, status entity.SaleStatus, start, end time.Time) (decimal.Decimal, error) {
	defer r.v.rlock()()
	total := decimal.Zero
	for _, s := range r.v.st.sales {
		if s.Status == status && inRange(s.SaleDate, start, end) {
			total = total.Add(r.costOf(s))
		}
	}
	return total, nil
}

func (r *SaleRepo) ProfitByMedicine(_ context.Context, status entity.SaleStatus, start, end time.Time) ([]repository.ProfitByMedicineResult, error) {
	defer r.v.rlock()()
	byID := make(map[string]*repository.ProfitByMedicineResult)
	for _, s := range r.v.st.sales {
		if s.Status != status || !inRange(s.SaleDate, start, end) {
			continue
		}
		row, ok := byID[s.MedicineID]
		if !ok {
			m := r.v.st.medicines[s.MedicineID]
			row = &repository.ProfitByMedicineResult{
				MedicineID:   s.MedicineID,
				MedicineName: m.Name,
				BatchNumber:  m.BatchNumber,
				Revenue:      decimal.Zero,
				Cost:         decimal.Zero,
			}
			byID[s.MedicineID] = row
		}
		row.QuantitySold += int64(s.QuantitySold)
		row.Revenue = row.Revenue.Add(s.TotalPrice)
		row.Cost = row.Cost.Add(r.costOf(s))
	}

	out := make([]repository.ProfitByMedicineResult, 0, len(byID))
	for _, row := range byID {
		out = append(out, *row)
	}
	slices.SortFunc(out, func(a, b repository.ProfitByMedicineResult) int {
		if c := b.Profit().Cmp(a.Profit()); c != 0 {
			return c
		}
		return cmp.Compare(a.MedicineName, b.MedicineName)
	})
	return out, nil
}

func (r *SaleRepo) count(match func(entity.Sale) bool) int64 {
	defer r.v.rlock()()
	var n int64
	for _, s := range r.v.st.sales {
		if match(s) {
			n++
		}
	}
	return n
}

func (r *SaleRepo) costOf(s entity.Sale) decimal.Decimal {
	m, ok := r.v.st.medicines[s.MedicineID]
	if !ok {
		return decimal.Zero
	}
	return m.CostPrice.Mul(decimal.NewFromInt(int64(s.QuantitySold)))
}

func (r *SaleRepo) withMedicine(s entity.Sale) *entity.Sale {
	if m, ok := r.v.st.medicines[s.MedicineID]; ok {
		s.Medicine = &m
	}
	return &s
}

// inRange rango inclusivo en ambos extremos.
func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}
