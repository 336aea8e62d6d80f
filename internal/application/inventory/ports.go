package inventory

import (
	"context"

	"github.com/jhoicas/farmacia-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Las recepciones usan el mismo bloqueo de fila que el motor de ventas.
type TxRunner interface {
	RunStockIn(ctx context.Context, fn func(
		medicineRepo repository.MedicineRepository,
		stockInRepo repository.StockInRepository,
	) error) error
}
