package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockInRequest body para POST /api/stock-ins.
// Se resuelve el medicamento por medicine_id, luego por batch_number; si no existe se crea.
type StockInRequest struct {
	MedicineID    string           `json:"medicine_id,omitempty"`
	BatchNumber   string           `json:"batch_number,omitempty"`
	Name          string           `json:"name,omitempty"`
	Category      *string          `json:"category,omitempty"`
	Manufacturer  *string          `json:"manufacturer,omitempty"`
	ExpiryDate    string           `json:"expiry_date,omitempty"` // YYYY-MM-DD
	Price         *decimal.Decimal `json:"price,omitempty"`
	CostPrice     *decimal.Decimal `json:"cost_price,omitempty"`
	ReorderLevel  *int             `json:"reorder_level,omitempty"`
	SupplierID    string           `json:"supplier_id"`
	Quantity      int              `json:"quantity"`
	InvoiceNumber string           `json:"invoice_number,omitempty"`
	Note          string           `json:"note,omitempty"`
}

// StockInDTO recepción registrada.
type StockInDTO struct {
	ID              string          `json:"id"`
	MedicineID      string          `json:"medicine_id"`
	SupplierID      string          `json:"supplier_id"`
	Quantity        int             `json:"quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	InvoiceNumber   string          `json:"invoice_number,omitempty"`
	Note            string          `json:"note,omitempty"`
	ReceivedAt      time.Time       `json:"received_at"`
	ResultingStock  int             `json:"resulting_stock"`
	MedicineCreated bool            `json:"medicine_created"`
}
