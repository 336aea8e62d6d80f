package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo escribe en audit_logs. Se usa fuera de la transacción de negocio.
type AuditLogRepo struct {
	q Querier
}

// NewAuditLogRepository construye el adaptador.
func NewAuditLogRepository(q Querier) *AuditLogRepo {
	return &AuditLogRepo{q: q}
}

func (r *AuditLogRepo) Create(ctx context.Context, e *entity.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, actor, action, entity_type, entity_id, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.q.Exec(ctx, query, e.ID, e.Actor, e.Action, e.EntityType, e.EntityID, e.Message, e.CreatedAt); err != nil {
		return fmt.Errorf("audit_logs.Create: %w", err)
	}
	return nil
}
