package sales

import (
	"context"

	"github.com/jhoicas/farmacia-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con repositorios atados a ella.
// Si fn devuelve error no queda ninguna escritura: ni el descuento de stock ni la venta.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		medicineRepo repository.MedicineRepository,
		saleRepo repository.SaleRepository,
	) error) error
}
