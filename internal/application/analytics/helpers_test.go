package analytics_test

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/infrastructure/memory"
)

var now = time.Date(2026, 10, 14, 15, 0, 0, 0, time.UTC)

func seedMedicines(store *memory.Store) {
	store.PutMedicine(entity.Medicine{
		ID: "a", Name: "Acetaminofén", BatchNumber: "A-1",
		Price: decimal.NewFromInt(10), CostPrice: decimal.NewFromInt(6),
		Quantity: 100, ExpiryDate: now.AddDate(1, 0, 0), Active: true,
	})
	store.PutMedicine(entity.Medicine{
		ID: "b", Name: "Loratadina", BatchNumber: "B-1",
		Price: decimal.NewFromInt(20), CostPrice: decimal.NewFromInt(5),
		Quantity: 3, ExpiryDate: now.AddDate(1, 0, 0), Active: true,
	})
}

var saleSeq int

// putSale agrega una venta al libro con el precio actual del medicamento.
func putSale(store *memory.Store, medicineID string, qty int, status entity.SaleStatus, at time.Time) {
	med, _ := store.Medicine(medicineID)
	saleSeq++
	store.PutSale(*entity.NewSale(fmt.Sprintf("s-%d", saleSeq), &med, qty, status, at))
}
