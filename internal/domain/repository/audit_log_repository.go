package repository

import (
	"context"

	"github.com/jhoicas/farmacia-api/internal/domain/entity"
)

// AuditLogRepository destino de las entradas de auditoría.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *entity.AuditLog) error
}
