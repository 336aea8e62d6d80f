package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/farmacia-api/internal/domain"
	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo libro de ventas sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta la venta; el total se vuelve a derivar antes de escribir.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	s.Normalize()
	query := `
		INSERT INTO sales (id, medicine_id, quantity_sold, unit_price, total_price, status, sale_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.MedicineID, s.QuantitySold, s.UnitPrice, s.TotalPrice, string(s.Status), s.SaleDate,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: venta %s ya existe", domain.ErrConflict, s.ID)
		}
		return fmt.Errorf("sales.Create: %w", err)
	}
	return nil
}

// Update reescribe la venta aplicando la misma derivación del total que Create.
func (r *SaleRepo) Update(ctx context.Context, s *entity.Sale) error {
	s.Normalize()
	query := `
		UPDATE sales SET quantity_sold = $2, unit_price = $3, total_price = $4, status = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, s.ID, s.QuantitySold, s.UnitPrice, s.TotalPrice, string(s.Status))
	if err != nil {
		return fmt.Errorf("sales.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: venta %s", domain.ErrNotFound, s.ID)
	}
	return nil
}

const saleSelect = `
	SELECT s.id, s.medicine_id, s.quantity_sold, s.unit_price, s.total_price, s.status, s.sale_date,
	       m.name, m.batch_number
	FROM sales s
	JOIN medicines m ON m.id = s.medicine_id`

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var (
		s      entity.Sale
		status string
		med    entity.Medicine
	)
	if err := row.Scan(
		&s.ID, &s.MedicineID, &s.QuantitySold, &s.UnitPrice, &s.TotalPrice, &status, &s.SaleDate,
		&med.Name, &med.BatchNumber,
	); err != nil {
		return nil, err
	}
	s.Status = entity.SaleStatus(status)
	med.ID = s.MedicineID
	s.Medicine = &med
	return &s, nil
}

func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, saleSelect+` WHERE s.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("sales.GetByID: %w", err)
	}
	return s, nil
}

func (r *SaleRepo) ListByStatus(ctx context.Context, status entity.SaleStatus, limit, offset int) ([]*entity.Sale, error) {
	rows, err := r.q.Query(ctx,
		saleSelect+` WHERE s.status = $1 ORDER BY s.sale_date DESC LIMIT $2 OFFSET $3`,
		string(status), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("sales.ListByStatus: %w", err)
	}
	defer rows.Close()

	out := []*entity.Sale{}
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("sales.ListByStatus scan: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SaleRepo) CountByStatus(ctx context.Context, status entity.SaleStatus) (int64, error) {
	return r.count(ctx, "sales.CountByStatus", `SELECT COUNT(*) FROM sales WHERE status = $1`, string(status))
}

func (r *SaleRepo) CountByStatusAndRange(ctx context.Context, status entity.SaleStatus, start, end time.Time) (int64, error) {
	return r.count(ctx, "sales.CountByStatusAndRange",
		`SELECT COUNT(*) FROM sales WHERE status = $1 AND sale_date BETWEEN $2 AND $3`,
		string(status), start, end)
}

func (r *SaleRepo) CountByRange(ctx context.Context, start, end time.Time) (int64, error) {
	return r.count(ctx, "sales.CountByRange", `SELECT COUNT(*) FROM sales WHERE sale_date BETWEEN $1 AND $2`, start, end)
}

func (r *SaleRepo) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, "sales.Count", `SELECT COUNT(*) FROM sales`)
}

func (r *SaleRepo) SumTotalPriceByStatusAndRange(ctx context.Context, status entity.SaleStatus, start, end time.Time) (decimal.Decimal, error) {
	const query = `
	SELECT COALESCE(SUM(total_price), 0)
	FROM sales
	WHERE status = $1 AND sale_date BETWEEN $2 AND $3`
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, string(status), start, end).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sales.SumTotalPriceByStatusAndRange: %w", err)
	}
	return total, nil
}

// SumCostByStatusAndRange costo = cantidad × costo vigente del medicamento (JOIN al consultar).
func (r *SaleRepo) SumCostByStatusAndRange(ctx context.Context, status entity.SaleStatus, start, end time.Time) (decimal.Decimal, error) {
	const query = `
	SELECT COALESCE(SUM(s.quantity_sold * m.cost_price), 0)
	FROM sales s
	JOIN medicines m ON m.id = s.medicine_id
	WHERE s.status = $1 AND s.sale_date BETWEEN $2 AND $3`
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, string(status), start, end).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sales.SumCostByStatusAndRange: %w", err)
	}
	return total, nil
}

func (r *SaleRepo) ProfitByMedicine(ctx context.Context, status entity.SaleStatus, start, end time.Time) ([]repository.ProfitByMedicineResult, error) {
	const query = `
	SELECT
	    m.id,
	    m.name,
	    m.batch_number,
	    COALESCE(SUM(s.quantity_sold), 0)                                      AS units_sold,
	    COALESCE(SUM(s.total_price), 0)                                        AS revenue,
	    COALESCE(SUM(s.quantity_sold * m.cost_price), 0)                       AS cost
	FROM sales s
	JOIN medicines m ON m.id = s.medicine_id
	WHERE s.status = $1
	  AND s.sale_date BETWEEN $2 AND $3
	GROUP BY m.id, m.name, m.batch_number
	ORDER BY COALESCE(SUM(s.total_price), 0) - COALESCE(SUM(s.quantity_sold * m.cost_price), 0) DESC, m.name`

	rows, err := r.q.Query(ctx, query, string(status), start, end)
	if err != nil {
		return nil, fmt.Errorf("sales.ProfitByMedicine: %w", err)
	}
	defer rows.Close()

	var results []repository.ProfitByMedicineResult
	for rows.Next() {
		var row repository.ProfitByMedicineResult
		if err := rows.Scan(
			&row.MedicineID,
			&row.MedicineName,
			&row.BatchNumber,
			&row.QuantitySold,
			&row.Revenue,
			&row.Cost,
		); err != nil {
			return nil, fmt.Errorf("sales.ProfitByMedicine scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

func (r *SaleRepo) count(ctx context.Context, op, query string, args ...any) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}
