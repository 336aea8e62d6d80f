// Package audit registra eventos legibles de cambios de negocio.
// Es de mejor esfuerzo: un fallo al persistir se registra en el log y se descarta.
package audit

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
	"github.com/jhoicas/farmacia-api/pkg/clock"
	"github.com/jhoicas/farmacia-api/pkg/logger"
)

// SystemActor actor cuando la operación no viene de un usuario autenticado.
const SystemActor = "system"

type actorKey struct{}

// WithActor adjunta al contexto el usuario que origina la operación.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom devuelve el actor del contexto o SystemActor.
func ActorFrom(ctx context.Context) string {
	if v, ok := ctx.Value(actorKey{}).(string); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return SystemActor
}

// Service destino de auditoría sobre un AuditLogRepository.
type Service struct {
	repo  repository.AuditLogRepository
	clock clock.Clock
	log   *logger.Logger
}

// NewService construye el servicio de auditoría.
func NewService(repo repository.AuditLogRepository, clk clock.Clock, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{repo: repo, clock: clk, log: log.Component("audit")}
}

// Record persiste la entrada. Nunca devuelve error ni entra en pánico hacia el llamador.
func (s *Service) Record(ctx context.Context, action, entityType, entityID, message string) {
	entry := &entity.AuditLog{
		ID:         uuid.New().String(),
		Actor:      ActorFrom(ctx),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Message:    message,
		CreatedAt:  s.clock.Now(),
	}
	defer func() {
		if r := recover(); r != nil {
			s.log.Warn().Interface("panic", r).Str("action", action).Msg("fallo en auditoría")
		}
	}()
	if err := s.repo.Create(ctx, entry); err != nil {
		s.log.Warn().Err(err).
			Str("action", action).
			Str("entity_type", entityType).
			Str("entity_id", entityID).
			Msg("no se pudo registrar la auditoría")
	}
}

// Recorder lo que los casos de uso necesitan del destino de auditoría.
type Recorder interface {
	Record(ctx context.Context, action, entityType, entityID, message string)
}

var _ Recorder = (*Service)(nil)

// Acciones registradas.
const (
	ActionSale         = "SALE"
	ActionSaleRejected = "SALE_REJECTED"
	ActionStockIn      = "STOCK_IN"

	EntitySale    = "SALE"
	EntityStockIn = "STOCK_IN"
)
