package repository

import (
	"context"

	"github.com/jhoicas/farmacia-api/internal/domain/entity"
)

// MedicineRepository define el puerto de persistencia del inventario de medicamentos.
// Los métodos Get* devuelven (nil, nil) si no hay fila.
// Todo mutador de Quantity debe leer la fila con un método *ForUpdate dentro de la transacción.
type MedicineRepository interface {
	GetActiveByID(ctx context.Context, id string) (*entity.Medicine, error)
	// GetActiveByIDForUpdate bloquea la fila (SELECT FOR UPDATE) hasta el fin de la transacción.
	GetActiveByIDForUpdate(ctx context.Context, id string) (*entity.Medicine, error)
	// GetByBatchNumberForUpdate incluye lotes inactivos (una recepción puede reactivarlos).
	GetByBatchNumberForUpdate(ctx context.Context, batchNumber string) (*entity.Medicine, error)
	ExistsByBatchNumber(ctx context.Context, batchNumber string) (bool, error)
	Create(ctx context.Context, medicine *entity.Medicine) error
	Update(ctx context.Context, medicine *entity.Medicine) error
	UpdateQuantity(ctx context.Context, id string, quantity int) error

	CountActive(ctx context.Context) (int64, error)
	// CountLowStock cuenta activos con 0 < quantity <= COALESCE(reorder_level, threshold).
	CountLowStock(ctx context.Context, threshold int) (int64, error)
	CountOutOfStock(ctx context.Context) (int64, error)
}
