package dto

import "github.com/shopspring/decimal"

// SaleSummaryDTO conteo de ventas por estado (GET /api/sales/summary).
type SaleSummaryDTO struct {
	TotalSales         int64 `json:"total_sales"`
	ValidSales         int64 `json:"valid_sales"`
	RejectedExpired    int64 `json:"rejected_expired"`
	RejectedOutOfStock int64 `json:"rejected_out_of_stock"`
}

// DailySaleSummaryDTO conteo por estado del día (GET /api/sales/summary/today).
type DailySaleSummaryDTO struct {
	Date string `json:"date"` // YYYY-MM-DD
	SaleSummaryDTO
}

// DailyRevenueDTO ingreso de ventas válidas del día (GET /api/sales/summary/revenue/today).
type DailyRevenueDTO struct {
	Date            string          `json:"date"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	ValidSalesCount int64           `json:"valid_sales_count"`
}

// MonthlySaleSummaryDTO conteos e ingreso de un mes calendario.
type MonthlySaleSummaryDTO struct {
	Month              string          `json:"month"` // YYYY-MM
	ValidSales         int64           `json:"valid_sales"`
	RejectedExpired    int64           `json:"rejected_expired"`
	RejectedOutOfStock int64           `json:"rejected_out_of_stock"`
	TotalSales         int64           `json:"total_sales"`
	TotalRevenue       decimal.Decimal `json:"total_revenue"`
}

// MonthlyQuery parámetros de /summary/monthly y /summary/monthly/range.
type MonthlyQuery struct {
	Year  int `query:"year"`
	Month int `query:"month"`
	Count int `query:"count"` // solo /range; default 6, 1–24
}
