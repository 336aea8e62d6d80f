package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockIn recepción de mercancía de un proveedor (suma existencias).
type StockIn struct {
	ID            string
	MedicineID    string
	SupplierID    string
	Quantity      int
	UnitCost      decimal.Decimal
	InvoiceNumber string
	Note          string
	ReceivedAt    time.Time
	CreatedBy     string
}
