package audit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/farmacia-api/internal/application/audit"
	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/pkg/clock"
	"github.com/jhoicas/farmacia-api/pkg/logger"
)

type fakeRepo struct {
	entries []*entity.AuditLog
	err     error
	panics  bool
}

func (f *fakeRepo) Create(_ context.Context, e *entity.AuditLog) error {
	if f.panics {
		panic("db caída")
	}
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, e)
	return nil
}

func TestRecord_PersisteConActor(t *testing.T) {
	repo := &fakeRepo{}
	now := time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)
	svc := audit.NewService(repo, clock.NewManual(now), logger.Nop())

	ctx := audit.WithActor(context.Background(), "ana")
	svc.Record(ctx, "SALE", "SALE", "s1", "venta")

	require.Len(t, repo.entries, 1)
	e := repo.entries[0]
	assert.Equal(t, "ana", e.Actor)
	assert.Equal(t, "SALE", e.Action)
	assert.Equal(t, "s1", e.EntityID)
	assert.Equal(t, now, e.CreatedAt)
	assert.NotEmpty(t, e.ID)
}

func TestRecord_ActorPorDefecto(t *testing.T) {
	repo := &fakeRepo{}
	svc := audit.NewService(repo, clock.System(time.UTC), nil)
	svc.Record(context.Background(), "SALE", "SALE", "s1", "venta")
	require.Len(t, repo.entries, 1)
	assert.Equal(t, audit.SystemActor, repo.entries[0].Actor)
}

func TestRecord_FallosNoSePropagan(t *testing.T) {
	svc := audit.NewService(&fakeRepo{err: errors.New("timeout")}, clock.System(time.UTC), logger.Nop())
	assert.NotPanics(t, func() { svc.Record(context.Background(), "SALE", "SALE", "s1", "venta") })

	svc = audit.NewService(&fakeRepo{panics: true}, clock.System(time.UTC), logger.Nop())
	assert.NotPanics(t, func() { svc.Record(context.Background(), "SALE", "SALE", "s1", "venta") })
}
