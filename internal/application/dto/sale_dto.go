package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	MedicineID string `json:"medicine_id"`
	Quantity   int    `json:"quantity"`
}

// Validate validación de binding: medicamento requerido y cantidad positiva.
func (r CreateSaleRequest) Validate() bool {
	return r.MedicineID != "" && r.Quantity > 0
}

// SaleDTO venta registrada (válida o rechazada).
type SaleDTO struct {
	ID           string          `json:"id"`
	MedicineID   string          `json:"medicine_id"`
	MedicineName string          `json:"medicine_name,omitempty"`
	BatchNumber  string          `json:"batch_number,omitempty"`
	QuantitySold int             `json:"quantity_sold"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	Status       string          `json:"status"` // VALID | REJECTED_EXPIRED | REJECTED_OUT_OF_STOCK
	SaleDate     time.Time       `json:"sale_date"`
}
