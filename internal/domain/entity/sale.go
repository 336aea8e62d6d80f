package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleStatus resultado de una solicitud de venta.
type SaleStatus string

const (
	SaleStatusValid              SaleStatus = "VALID"
	SaleStatusRejectedExpired    SaleStatus = "REJECTED_EXPIRED"
	SaleStatusRejectedOutOfStock SaleStatus = "REJECTED_OUT_OF_STOCK"
)

// SaleStatuses todos los estados en el orden en que se reportan.
var SaleStatuses = []SaleStatus{SaleStatusValid, SaleStatusRejectedExpired, SaleStatusRejectedOutOfStock}

// IsRejection indica si el estado corresponde a una venta rechazada.
func (s SaleStatus) IsRejection() bool {
	return s == SaleStatusRejectedExpired || s == SaleStatusRejectedOutOfStock
}

// Valid indica si el estado es uno de los conocidos.
func (s SaleStatus) Valid() bool {
	switch s {
	case SaleStatusValid, SaleStatusRejectedExpired, SaleStatusRejectedOutOfStock:
		return true
	}
	return false
}

// Sale registro inmutable del libro de ventas, incluidas las rechazadas.
// UnitPrice es el precio del medicamento en el momento de la venta.
type Sale struct {
	ID           string
	MedicineID   string
	Medicine     *Medicine // opcional, para respuestas
	QuantitySold int
	UnitPrice    decimal.Decimal
	SaleDate     time.Time
	TotalPrice   decimal.Decimal
	Status       SaleStatus
}

// NewSale construye la venta para el medicamento con el estado ya decidido y deriva el total.
func NewSale(id string, medicine *Medicine, quantity int, status SaleStatus, at time.Time) *Sale {
	s := &Sale{
		ID:           id,
		MedicineID:   medicine.ID,
		Medicine:     medicine,
		QuantitySold: quantity,
		UnitPrice:    medicine.Price,
		SaleDate:     at,
		Status:       status,
	}
	s.TotalPrice = DeriveTotalPrice(s.Status, s.UnitPrice, s.QuantitySold, s.TotalPrice)
	return s
}

// DeriveTotalPrice regla de derivación del total: cero si la venta fue rechazada,
// precio × cantidad si hay cantidad; en otro caso conserva el valor actual.
// Debe aplicarse en cada punto donde se crea o se escribe una venta.
func DeriveTotalPrice(status SaleStatus, unitPrice decimal.Decimal, quantity int, current decimal.Decimal) decimal.Decimal {
	if status.IsRejection() {
		return decimal.Zero
	}
	if quantity > 0 {
		return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	}
	return current
}

// Normalize vuelve a aplicar DeriveTotalPrice sobre la venta.
func (s *Sale) Normalize() {
	s.TotalPrice = DeriveTotalPrice(s.Status, s.UnitPrice, s.QuantitySold, s.TotalPrice)
}

// EvaluateSale decide el estado de una solicitud de venta. El vencimiento se
// evalúa antes que las existencias: un lote vencido se rechaza aunque haya stock.
func EvaluateSale(medicine *Medicine, quantity int, today time.Time) SaleStatus {
	if medicine.IsExpiredOn(today) {
		return SaleStatusRejectedExpired
	}
	if medicine.Quantity < quantity {
		return SaleStatusRejectedOutOfStock
	}
	return SaleStatusValid
}
