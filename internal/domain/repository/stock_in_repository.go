package repository

import (
	"context"

	"github.com/jhoicas/farmacia-api/internal/domain/entity"
)

// StockInRepository puerto de las recepciones de mercancía.
type StockInRepository interface {
	Create(ctx context.Context, stockIn *entity.StockIn) error
	List(ctx context.Context, limit, offset int) ([]*entity.StockIn, error)
}
