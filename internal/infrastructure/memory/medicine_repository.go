package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/farmacia-api/internal/domain"
	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
)

var _ repository.MedicineRepository = (*MedicineRepo)(nil)

// MedicineRepo implementación en memoria de MedicineRepository.
type MedicineRepo struct{ v view }

func (r *MedicineRepo) GetActiveByID(_ context.Context, id string) (*entity.Medicine, error) {
	defer r.v.rlock()()
	m, ok := r.v.st.medicines[id]
	if !ok || !m.Active {
		return nil, nil
	}
	return &m, nil
}

// GetActiveByIDForUpdate no necesita bloqueo propio: la transacción ya serializa el store.
func (r *MedicineRepo) GetActiveByIDForUpdate(ctx context.Context, id string) (*entity.Medicine, error) {
	return r.GetActiveByID(ctx, id)
}

func (r *MedicineRepo) GetByBatchNumberForUpdate(_ context.Context, batchNumber string) (*entity.Medicine, error) {
	defer r.v.rlock()()
	for _, m := range r.v.st.medicines {
		if m.BatchNumber == batchNumber {
			return &m, nil
		}
	}
	return nil, nil
}

func (r *MedicineRepo) ExistsByBatchNumber(ctx context.Context, batchNumber string) (bool, error) {
	m, err := r.GetByBatchNumberForUpdate(ctx, batchNumber)
	return m != nil, err
}

func (r *MedicineRepo) Create(_ context.Context, medicine *entity.Medicine) error {
	defer r.v.lock()()
	for _, m := range r.v.st.medicines {
		if m.BatchNumber == medicine.BatchNumber {
			return fmt.Errorf("%w: el lote %s ya existe", domain.ErrConflict, medicine.BatchNumber)
		}
	}
	if _, ok := r.v.st.medicines[medicine.ID]; ok {
		return fmt.Errorf("%w: medicamento %s ya existe", domain.ErrConflict, medicine.ID)
	}
	r.v.st.medicines[medicine.ID] = *medicine
	return nil
}

func (r *MedicineRepo) Update(_ context.Context, medicine *entity.Medicine) error {
	defer r.v.lock()()
	if _, ok := r.v.st.medicines[medicine.ID]; !ok {
		return fmt.Errorf("%w: medicamento %s", domain.ErrNotFound, medicine.ID)
	}
	r.v.st.medicines[medicine.ID] = *medicine
	return nil
}

func (r *MedicineRepo) UpdateQuantity(_ context.Context, id string, quantity int) error {
	defer r.v.lock()()
	m, ok := r.v.st.medicines[id]
	if !ok {
		return fmt.Errorf("%w: medicamento %s", domain.ErrNotFound, id)
	}
	if quantity < 0 {
		return fmt.Errorf("%w: la cantidad no puede ser negativa", domain.ErrInvalidInput)
	}
	m.Quantity = quantity
	r.v.st.medicines[id] = m
	return nil
}

func (r *MedicineRepo) CountActive(_ context.Context) (int64, error) {
	return r.count(func(m entity.Medicine) bool { return true }), nil
}

func (r *MedicineRepo) CountLowStock(_ context.Context, threshold int) (int64, error) {
	return r.count(func(m entity.Medicine) bool {
		return m.Quantity > 0 && m.Quantity <= m.EffectiveReorderLevel(threshold)
	}), nil
}

func (r *MedicineRepo) CountOutOfStock(_ context.Context) (int64, error) {
	return r.count(func(m entity.Medicine) bool { return m.Quantity == 0 }), nil
}

// count cuenta solo medicamentos activos.
func (r *MedicineRepo) count(match func(entity.Medicine) bool) int64 {
	defer r.v.rlock()()
	var n int64
	for _, m := range r.v.st.medicines {
		if m.Active && match(m) {
			n++
		}
	}
	return n
}
