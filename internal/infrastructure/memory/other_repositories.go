package memory

import (
	"context"
	"slices"

	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
)

var (
	_ repository.StockInRepository  = (*StockInRepo)(nil)
	_ repository.SupplierRepository = (*SupplierRepo)(nil)
	_ repository.AuditLogRepository = (*AuditLogRepo)(nil)
)

// StockInRepo recepciones en memoria.
type StockInRepo struct{ v view }

func (r *StockInRepo) Create(_ context.Context, stockIn *entity.StockIn) error {
	defer r.v.lock()()
	r.v.st.stockIns = append(r.v.st.stockIns, *stockIn)
	return nil
}

func (r *StockInRepo) List(_ context.Context, limit, offset int) ([]*entity.StockIn, error) {
	defer r.v.rlock()()
	list := append([]entity.StockIn(nil), r.v.st.stockIns...)
	slices.SortStableFunc(list, func(a, b entity.StockIn) int { return b.ReceivedAt.Compare(a.ReceivedAt) })
	if offset >= len(list) {
		return []*entity.StockIn{}, nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	out := make([]*entity.StockIn, 0, len(list))
	for i := range list {
		out = append(out, &list[i])
	}
	return out, nil
}

// SupplierRepo proveedores en memoria.
type SupplierRepo struct{ v view }

func (r *SupplierRepo) GetActiveByID(_ context.Context, id string) (*entity.Supplier, error) {
	defer r.v.rlock()()
	s, ok := r.v.st.suppliers[id]
	if !ok || !s.Active {
		return nil, nil
	}
	return &s, nil
}

// AuditLogRepo entradas de auditoría en memoria. FailAudit permite simular caídas.
type AuditLogRepo struct{ v view }

func (r *AuditLogRepo) Create(_ context.Context, entry *entity.AuditLog) error {
	defer r.v.lock()()
	if r.v.st.auditErr != nil {
		return r.v.st.auditErr
	}
	r.v.st.auditLogs = append(r.v.st.auditLogs, *entry)
	return nil
}
