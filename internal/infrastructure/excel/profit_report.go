// Package excel genera el reporte de utilidad en formato XLSX.
package excel

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/farmacia-api/internal/application/dto"
)

const (
	SheetSummary = "Resumen"
	SheetSeries  = "Serie"
	SheetTop     = "Top"
)

// WriteProfitReport escribe el libro con tres hojas: resumen, serie por tramo y ranking por medicamento.
func WriteProfitReport(w io.Writer, rep *dto.ProfitReportDTO) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		return fmt.Errorf("renombrar hoja: %w", err)
	}
	for _, name := range []string{SheetSeries, SheetTop} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("crear hoja %s: %w", name, err)
		}
	}

	s := rep.Summary
	summary := [][]any{
		{"Desde", s.StartDate},
		{"Hasta", s.EndDate},
		{"Período", rep.Period},
		{"Ingresos", s.TotalRevenue.InexactFloat64()},
		{"Costo", s.TotalCost.InexactFloat64()},
		{"Utilidad", s.TotalProfit.InexactFloat64()},
		{"Ventas válidas", s.SaleCount},
	}
	if err := writeRows(f, SheetSummary, summary); err != nil {
		return err
	}

	series := [][]any{{"Tramo", "Desde", "Hasta", "Ingresos", "Costo", "Utilidad", "Ventas"}}
	for _, p := range rep.Series {
		series = append(series, []any{
			p.Label, p.StartDate, p.EndDate,
			p.Revenue.InexactFloat64(), p.Cost.InexactFloat64(), p.Profit.InexactFloat64(),
			p.SaleCount,
		})
	}
	if err := writeRows(f, SheetSeries, series); err != nil {
		return err
	}

	top := [][]any{{"#", "Medicamento", "Lote", "Unidades", "Ingresos", "Costo", "Utilidad"}}
	for _, m := range rep.Top {
		top = append(top, []any{
			m.Rank, m.MedicineName, m.BatchNumber, m.QuantitySold,
			m.Revenue.InexactFloat64(), m.Cost.InexactFloat64(), m.Profit.InexactFloat64(),
		})
	}
	if err := writeRows(f, SheetTop, top); err != nil {
		return err
	}

	if err := f.SetColWidth(SheetTop, "B", "B", 32); err != nil {
		return fmt.Errorf("ancho de columna: %w", err)
	}
	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("escribir xlsx: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("hoja %s fila %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
