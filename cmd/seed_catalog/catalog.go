package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/domain/report"
)

type catalog struct {
	suppliers []entity.Supplier
	medicines []entity.Medicine
}

var (
	supplierHeader = []string{"id", "name", "phone", "email"}
	medicineHeader = []string{"id", "name", "category", "manufacturer", "batch_number", "expiry_date", "price", "cost_price", "quantity", "reorder_level"}
)

// readRows lee el CSV, valida el encabezado y devuelve las filas de datos.
func readRows(r io.Reader, header []string) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)
	cr.TrimLeadingSpace = true
	first, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("encabezado: %w", err)
	}
	for i, h := range header {
		// el BOM de Excel queda pegado a la primera columna
		if got := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(first[i]), "\ufeff")); got != h {
			return nil, fmt.Errorf("encabezado: columna %d es %q, se esperaba %q", i+1, got, h)
		}
	}
	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		rows = append(rows, rec)
	}
}

func parseSuppliers(r io.Reader) ([]entity.Supplier, error) {
	rows, err := readRows(r, supplierHeader)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Supplier, 0, len(rows))
	for i, rec := range rows {
		if rec[0] == "" || rec[1] == "" {
			return nil, fmt.Errorf("fila %d: id y name son obligatorios", i+2)
		}
		out = append(out, entity.Supplier{ID: rec[0], Name: rec[1], Phone: rec[2], Email: rec[3], Active: true})
	}
	return out, nil
}

func parseMedicines(r io.Reader) ([]entity.Medicine, error) {
	rows, err := readRows(r, medicineHeader)
	if err != nil {
		return nil, err
	}
	batches := make(map[string]int, len(rows))
	out := make([]entity.Medicine, 0, len(rows))
	for i, rec := range rows {
		line := i + 2
		m, err := parseMedicine(rec)
		if err != nil {
			return nil, fmt.Errorf("fila %d: %w", line, err)
		}
		if prev, dup := batches[m.BatchNumber]; dup {
			return nil, fmt.Errorf("fila %d: lote %q repetido (fila %d)", line, m.BatchNumber, prev)
		}
		batches[m.BatchNumber] = line
		out = append(out, m)
	}
	return out, nil
}

func parseMedicine(rec []string) (entity.Medicine, error) {
	m := entity.Medicine{
		ID: rec[0], Name: rec[1], Category: rec[2], Manufacturer: rec[3], BatchNumber: rec[4], Active: true,
	}
	if m.ID == "" || m.Name == "" || m.BatchNumber == "" {
		return m, fmt.Errorf("id, name y batch_number son obligatorios")
	}
	var err error
	if m.ExpiryDate, err = report.ParseDate(rec[5], time.UTC); err != nil {
		return m, err
	}
	if m.Price, err = decimal.NewFromString(rec[6]); err != nil {
		return m, fmt.Errorf("price %q: %w", rec[6], err)
	}
	if m.CostPrice, err = decimal.NewFromString(rec[7]); err != nil {
		return m, fmt.Errorf("cost_price %q: %w", rec[7], err)
	}
	if m.Price.IsNegative() || m.CostPrice.IsNegative() {
		return m, fmt.Errorf("precios negativos")
	}
	if m.CostPrice.GreaterThan(m.Price) {
		return m, fmt.Errorf("cost_price %s mayor que price %s", m.CostPrice, m.Price)
	}
	if m.Quantity, err = strconv.Atoi(rec[8]); err != nil || m.Quantity < 0 {
		return m, fmt.Errorf("quantity %q inválida", rec[8])
	}
	if rec[9] != "" {
		lvl, err := strconv.Atoi(rec[9])
		if err != nil || lvl < 0 {
			return m, fmt.Errorf("reorder_level %q inválido", rec[9])
		}
		m.ReorderLevel = &lvl
	}
	return m, nil
}

// writeSQL escribe proveedores primero (las recepciones los referencian) y luego medicamentos.
func writeSQL(w io.Writer, cat catalog) error {
	var b strings.Builder
	b.WriteString("-- Catálogo inicial de la farmacia\n")
	b.WriteString("-- Generado por cmd/seed_catalog\n\n")

	if len(cat.suppliers) > 0 {
		b.WriteString("-- 1. Proveedores\n")
		b.WriteString("INSERT INTO suppliers (id, name, phone, email) VALUES\n")
		for i, s := range cat.suppliers {
			fmt.Fprintf(&b, "  (%s, %s, %s, %s)%s\n", quote(s.ID), quote(s.Name), quote(s.Phone), quote(s.Email), sep(i, len(cat.suppliers)))
		}
		b.WriteString("ON CONFLICT (id) DO NOTHING;\n\n")
	}

	if len(cat.medicines) > 0 {
		b.WriteString("-- 2. Medicamentos\n")
		b.WriteString("INSERT INTO medicines (id, name, category, manufacturer, batch_number, expiry_date, price, cost_price, quantity, reorder_level) VALUES\n")
		for i, m := range cat.medicines {
			reorder := "NULL"
			if m.ReorderLevel != nil {
				reorder = strconv.Itoa(*m.ReorderLevel)
			}
			fmt.Fprintf(&b, "  (%s, %s, %s, %s, %s, '%s', %s, %s, %d, %s)%s\n",
				quote(m.ID), quote(m.Name), quote(m.Category), quote(m.Manufacturer), quote(m.BatchNumber),
				report.FormatDate(m.ExpiryDate), m.Price.StringFixed(2), m.CostPrice.StringFixed(2), m.Quantity, reorder,
				sep(i, len(cat.medicines)))
		}
		b.WriteString("ON CONFLICT DO NOTHING;\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func sep(i, n int) string {
	if i < n-1 {
		return ","
	}
	return ""
}
