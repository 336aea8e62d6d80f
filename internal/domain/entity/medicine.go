package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Medicine representa un medicamento (lote) del inventario de la farmacia.
// Invariantes: CostPrice <= Price y Quantity >= 0. Active=false es el borrado lógico.
type Medicine struct {
	ID           string
	Name         string
	Category     string
	Manufacturer string
	BatchNumber  string          // único
	Price        decimal.Decimal // precio de venta unitario
	CostPrice    decimal.Decimal // costo unitario
	Quantity     int             // existencias actuales
	ReorderLevel *int            // nil = usar el umbral configurado
	ExpiryDate   time.Time       // fecha (sin hora) de vencimiento
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsExpiredOn indica si el lote venció antes del día dado.
// Compara fechas calendario; la zona horaria de cada valor no influye (DATE de PostgreSQL llega en UTC).
func (m *Medicine) IsExpiredOn(day time.Time) bool {
	return calendarDate(m.ExpiryDate).Before(calendarDate(day))
}

// EffectiveReorderLevel devuelve el punto de reorden propio o el umbral por defecto.
func (m *Medicine) EffectiveReorderLevel(threshold int) int {
	if m.ReorderLevel != nil {
		return *m.ReorderLevel
	}
	return threshold
}

// DateOf trunca t a la medianoche de su propia zona horaria.
func DateOf(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, t.Location())
}

func calendarDate(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}
