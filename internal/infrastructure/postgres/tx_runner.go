package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/farmacia-api/internal/application/inventory"
	"github.com/jhoicas/farmacia-api/internal/application/sales"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
)

var (
	_ sales.TxRunner     = (*TxRunner)(nil)
	_ inventory.TxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunSale transacción del motor de ventas: medicamentos y libro de ventas.
func (r *TxRunner) RunSale(ctx context.Context, fn func(
	medicineRepo repository.MedicineRepository,
	saleRepo repository.SaleRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewMedicineRepository(tx), NewSaleRepository(tx))
	})
}

// RunStockIn transacción de recepción: medicamentos y recepciones.
func (r *TxRunner) RunStockIn(ctx context.Context, fn func(
	medicineRepo repository.MedicineRepository,
	stockInRepo repository.StockInRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewMedicineRepository(tx), NewStockInRepository(tx))
	})
}

// run inicia la transacción, ejecuta fn y hace Commit; ante cualquier error, Rollback.
func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
