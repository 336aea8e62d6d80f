package dto

import "github.com/shopspring/decimal"

// ProfitQuery parámetros de los endpoints /api/sales/profit/*.
// Start/End YYYY-MM-DD opcionales (por defecto los últimos 30 días hasta hoy).
type ProfitQuery struct {
	Start  string `query:"start"`
	End    string `query:"end"`
	Period string `query:"period"` // DAILY | WEEKLY | MONTHLY
	Limit  int    `query:"limit"`  // top: 1–50, default 5
}

// ProfitSummaryDTO ingreso, costo y utilidad de las ventas válidas del rango.
type ProfitSummaryDTO struct {
	StartDate    string          `json:"start_date"`
	EndDate      string          `json:"end_date"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalCost    decimal.Decimal `json:"total_cost"`   // quantity × costo vigente del medicamento
	TotalProfit  decimal.Decimal `json:"total_profit"` // TotalRevenue - TotalCost
	SaleCount    int64           `json:"sale_count"`
}

// ProfitPointDTO punto de la serie de utilidad (un tramo diario, semanal o mensual).
type ProfitPointDTO struct {
	Label     string          `json:"label"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	Revenue   decimal.Decimal `json:"revenue"`
	Cost      decimal.Decimal `json:"cost"`
	Profit    decimal.Decimal `json:"profit"`
	SaleCount int64           `json:"sale_count"`
}

// ProfitByMedicineDTO utilidad acumulada por medicamento.
type ProfitByMedicineDTO struct {
	Rank         int             `json:"rank"` // 1 = más rentable
	MedicineID   string          `json:"medicine_id"`
	MedicineName string          `json:"medicine_name"`
	BatchNumber  string          `json:"batch_number"`
	QuantitySold int64           `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
	Cost         decimal.Decimal `json:"cost"`
	Profit       decimal.Decimal `json:"profit"`
}

// ProfitReportDTO resumen, serie y ranking de un mismo rango (exportación XLSX).
type ProfitReportDTO struct {
	Period  string                `json:"period"`
	Summary ProfitSummaryDTO      `json:"summary"`
	Series  []ProfitPointDTO      `json:"series"`
	Top     []ProfitByMedicineDTO `json:"top"`
}
