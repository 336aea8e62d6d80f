package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/farmacia-api/internal/domain"
	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
)

var _ repository.MedicineRepository = (*MedicineRepo)(nil)

// MedicineRepo implementación de MedicineRepository sobre PostgreSQL (usable con pool o tx).
type MedicineRepo struct {
	q Querier
}

// NewMedicineRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMedicineRepository(q Querier) *MedicineRepo {
	return &MedicineRepo{q: q}
}

const medicineColumns = `id, name, category, manufacturer, batch_number, price, cost_price,
	quantity, reorder_level, expiry_date, active, created_at, updated_at`

func scanMedicine(row pgx.Row) (*entity.Medicine, error) {
	var m entity.Medicine
	err := row.Scan(
		&m.ID, &m.Name, &m.Category, &m.Manufacturer, &m.BatchNumber, &m.Price, &m.CostPrice,
		&m.Quantity, &m.ReorderLevel, &m.ExpiryDate, &m.Active, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *MedicineRepo) GetActiveByID(ctx context.Context, id string) (*entity.Medicine, error) {
	query := `SELECT ` + medicineColumns + ` FROM medicines WHERE id = $1 AND active`
	m, err := scanMedicine(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("medicines.GetActiveByID: %w", err)
	}
	return m, nil
}

// GetActiveByIDForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
func (r *MedicineRepo) GetActiveByIDForUpdate(ctx context.Context, id string) (*entity.Medicine, error) {
	query := `SELECT ` + medicineColumns + ` FROM medicines WHERE id = $1 AND active FOR UPDATE`
	m, err := scanMedicine(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("medicines.GetActiveByIDForUpdate: %w", err)
	}
	return m, nil
}

func (r *MedicineRepo) GetByBatchNumberForUpdate(ctx context.Context, batchNumber string) (*entity.Medicine, error) {
	query := `SELECT ` + medicineColumns + ` FROM medicines WHERE batch_number = $1 FOR UPDATE`
	m, err := scanMedicine(r.q.QueryRow(ctx, query, batchNumber))
	if err != nil {
		return nil, fmt.Errorf("medicines.GetByBatchNumberForUpdate: %w", err)
	}
	return m, nil
}

func (r *MedicineRepo) ExistsByBatchNumber(ctx context.Context, batchNumber string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM medicines WHERE batch_number = $1)`, batchNumber).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("medicines.ExistsByBatchNumber: %w", err)
	}
	return exists, nil
}

func (r *MedicineRepo) Create(ctx context.Context, m *entity.Medicine) error {
	query := `
		INSERT INTO medicines (` + medicineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.Name, m.Category, m.Manufacturer, m.BatchNumber, m.Price, m.CostPrice,
		m.Quantity, m.ReorderLevel, m.ExpiryDate, m.Active, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: el lote %s ya existe", domain.ErrConflict, m.BatchNumber)
		}
		return fmt.Errorf("medicines.Create: %w", err)
	}
	return nil
}

func (r *MedicineRepo) Update(ctx context.Context, m *entity.Medicine) error {
	query := `
		UPDATE medicines SET
			name = $2, category = $3, manufacturer = $4, batch_number = $5, price = $6, cost_price = $7,
			quantity = $8, reorder_level = $9, expiry_date = $10, active = $11, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		m.ID, m.Name, m.Category, m.Manufacturer, m.BatchNumber, m.Price, m.CostPrice,
		m.Quantity, m.ReorderLevel, m.ExpiryDate, m.Active,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: el lote %s ya existe", domain.ErrConflict, m.BatchNumber)
		}
		return fmt.Errorf("medicines.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: medicamento %s", domain.ErrNotFound, m.ID)
	}
	return nil
}

// UpdateQuantity escribe la cantidad ya calculada; el llamador debe tener la fila bloqueada.
// El CHECK (quantity >= 0) de la tabla rechaza valores negativos.
func (r *MedicineRepo) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	tag, err := r.q.Exec(ctx, `UPDATE medicines SET quantity = $2, updated_at = now() WHERE id = $1`, id, quantity)
	if err != nil {
		return fmt.Errorf("medicines.UpdateQuantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: medicamento %s", domain.ErrNotFound, id)
	}
	return nil
}

func (r *MedicineRepo) CountActive(ctx context.Context) (int64, error) {
	return r.count(ctx, "medicines.CountActive", `SELECT COUNT(*) FROM medicines WHERE active`)
}

func (r *MedicineRepo) CountLowStock(ctx context.Context, threshold int) (int64, error) {
	return r.count(ctx, "medicines.CountLowStock", `
		SELECT COUNT(*) FROM medicines
		WHERE active AND quantity > 0 AND quantity <= COALESCE(reorder_level, $1)`, threshold)
}

func (r *MedicineRepo) CountOutOfStock(ctx context.Context) (int64, error) {
	return r.count(ctx, "medicines.CountOutOfStock", `SELECT COUNT(*) FROM medicines WHERE active AND quantity = 0`)
}

func (r *MedicineRepo) count(ctx context.Context, op, query string, args ...any) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}
