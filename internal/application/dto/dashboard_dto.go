package dto

import "github.com/shopspring/decimal"

// DashboardDTO respuesta de GET /api/dashboard: estado del inventario y de las ventas.
type DashboardDTO struct {
	// Inventario
	TotalMedicines      int64 `json:"total_medicines"`        // activos
	LowStockMedicines   int64 `json:"low_stock_medicines"`    // 0 < qty <= punto de reorden
	OutOfStockMedicines int64 `json:"out_of_stock_medicines"` // qty = 0

	// Ventas
	TotalSales       int64           `json:"total_sales"`
	TodaySalesAmount decimal.Decimal `json:"today_sales_amount"` // ingreso válido de hoy
	CompletedSales   int64           `json:"completed_sales"`    // VALID
	CancelledSales   int64           `json:"cancelled_sales"`    // rechazadas (vencido + sin stock)

	DateLabel string `json:"date_label"` // ej: "Octubre 2026"
}
