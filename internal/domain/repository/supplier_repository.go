package repository

import (
	"context"

	"github.com/jhoicas/farmacia-api/internal/domain/entity"
)

// SupplierRepository lectura de proveedores (el CRUD vive en otro servicio).
type SupplierRepository interface {
	GetActiveByID(ctx context.Context, id string) (*entity.Supplier, error)
}
