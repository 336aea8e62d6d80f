// Package memory implementa los puertos de persistencia en memoria (tests y desarrollo local).
// RunSale y RunStockIn toman el lock de escritura durante toda la transacción y restauran
// el estado previo si la función devuelve error.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/farmacia-api/internal/application/inventory"
	"github.com/jhoicas/farmacia-api/internal/application/sales"
	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
)

var (
	_ sales.TxRunner     = (*Store)(nil)
	_ inventory.TxRunner = (*Store)(nil)
)

// Store estado completo en memoria.
type Store struct {
	mu        sync.RWMutex
	medicines map[string]entity.Medicine
	suppliers map[string]entity.Supplier
	sales     []entity.Sale
	stockIns  []entity.StockIn
	auditLogs []entity.AuditLog
	auditErr  error
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		medicines: make(map[string]entity.Medicine),
		suppliers: make(map[string]entity.Supplier),
	}
}

type state struct {
	medicines map[string]entity.Medicine
	sales     []entity.Sale
	stockIns  []entity.StockIn
}

func (s *Store) snapshotLocked() state {
	meds := make(map[string]entity.Medicine, len(s.medicines))
	for k, v := range s.medicines {
		meds[k] = v
	}
	return state{
		medicines: meds,
		sales:     append([]entity.Sale(nil), s.sales...),
		stockIns:  append([]entity.StockIn(nil), s.stockIns...),
	}
}

func (s *Store) restoreLocked(st state) {
	s.medicines = st.medicines
	s.sales = st.sales
	s.stockIns = st.stockIns
}

// runTx serializa la transacción completa con el lock de escritura.
func (s *Store) runTx(fn func(v view) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := s.snapshotLocked()
	if err := fn(view{st: s, inTx: true}); err != nil {
		s.restoreLocked(before)
		return err
	}
	return nil
}

// RunSale implementa sales.TxRunner.
func (s *Store) RunSale(ctx context.Context, fn func(
	medicineRepo repository.MedicineRepository,
	saleRepo repository.SaleRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.runTx(func(v view) error {
		return fn(&MedicineRepo{v}, &SaleRepo{v})
	})
}

// RunStockIn implementa inventory.TxRunner.
func (s *Store) RunStockIn(ctx context.Context, fn func(
	medicineRepo repository.MedicineRepository,
	stockInRepo repository.StockInRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.runTx(func(v view) error {
		return fn(&MedicineRepo{v}, &StockInRepo{v})
	})
}

// MedicineRepo repositorio fuera de transacción.
func (s *Store) MedicineRepo() *MedicineRepo { return &MedicineRepo{view{st: s}} }

// SaleRepo repositorio fuera de transacción.
func (s *Store) SaleRepo() *SaleRepo { return &SaleRepo{view{st: s}} }

// StockInRepo repositorio fuera de transacción.
func (s *Store) StockInRepo() *StockInRepo { return &StockInRepo{view{st: s}} }

// SupplierRepo repositorio de proveedores.
func (s *Store) SupplierRepo() *SupplierRepo { return &SupplierRepo{view{st: s}} }

// AuditLogRepo repositorio de auditoría.
func (s *Store) AuditLogRepo() *AuditLogRepo { return &AuditLogRepo{view{st: s}} }

// PutMedicine inserta o reemplaza un medicamento (semilla de tests).
func (s *Store) PutMedicine(m entity.Medicine) {
	s.mu.Lock()
	s.medicines[m.ID] = m
	s.mu.Unlock()
}

// PutSupplier inserta o reemplaza un proveedor.
func (s *Store) PutSupplier(sup entity.Supplier) {
	s.mu.Lock()
	s.suppliers[sup.ID] = sup
	s.mu.Unlock()
}

// PutSale inserta una venta tal cual, sin pasar por el motor. Aplica la derivación del total.
func (s *Store) PutSale(sale entity.Sale) {
	sale.Normalize()
	sale.Medicine = nil
	s.mu.Lock()
	s.sales = append(s.sales, sale)
	s.mu.Unlock()
}

// Medicine devuelve una copia del medicamento almacenado.
func (s *Store) Medicine(id string) (entity.Medicine, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.medicines[id]
	return m, ok
}

// Sales copia del libro de ventas en orden de inserción.
func (s *Store) Sales() []entity.Sale {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.Sale(nil), s.sales...)
}

// AuditEntries copia de las entradas de auditoría registradas.
func (s *Store) AuditEntries() []entity.AuditLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.AuditLog(nil), s.auditLogs...)
}

// FailAudit hace que las siguientes escrituras de auditoría fallen con err (nil para restablecer).
func (s *Store) FailAudit(err error) {
	s.mu.Lock()
	s.auditErr = err
	s.mu.Unlock()
}

// view acceso al store; dentro de una transacción el lock ya está tomado.
type view struct {
	st   *Store
	inTx bool
}

func (v view) rlock() func() {
	if v.inTx {
		return func() {}
	}
	v.st.mu.RLock()
	return v.st.mu.RUnlock
}

func (v view) lock() func() {
	if v.inTx {
		return func() {}
	}
	v.st.mu.Lock()
	return v.st.mu.Unlock
}
