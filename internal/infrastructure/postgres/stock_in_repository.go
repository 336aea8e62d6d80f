package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
)

var _ repository.StockInRepository = (*StockInRepo)(nil)

// StockInRepo recepciones de mercancía (usable con pool o tx).
type StockInRepo struct {
	q Querier
}

// NewStockInRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockInRepository(q Querier) *StockInRepo {
	return &StockInRepo{q: q}
}

func (r *StockInRepo) Create(ctx context.Context, s *entity.StockIn) error {
	query := `
		INSERT INTO stock_ins (id, medicine_id, supplier_id, quantity, unit_cost, invoice_number, note, received_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.MedicineID, s.SupplierID, s.Quantity, s.UnitCost, s.InvoiceNumber, s.Note, s.ReceivedAt, s.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("stock_ins.Create: %w", err)
	}
	return nil
}

func (r *StockInRepo) List(ctx context.Context, limit, offset int) ([]*entity.StockIn, error) {
	query := `
		SELECT id, medicine_id, supplier_id, quantity, unit_cost, invoice_number, note, received_at, created_by
		FROM stock_ins
		ORDER BY received_at DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("stock_ins.List: %w", err)
	}
	defer rows.Close()

	out := []*entity.StockIn{}
	for rows.Next() {
		var s entity.StockIn
		if err := rows.Scan(
			&s.ID, &s.MedicineID, &s.SupplierID, &s.Quantity, &s.UnitCost,
			&s.InvoiceNumber, &s.Note, &s.ReceivedAt, &s.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("stock_ins.List scan: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}
