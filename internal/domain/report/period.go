// Package report contiene la lógica pura de ventanas de tiempo para los reportes
// financieros: días, meses y la partición de un rango en segmentos.
package report

import (
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/jhoicas/farmacia-api/internal/domain"
	"github.com/jhoicas/farmacia-api/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// Period granularidad de una serie de utilidad.
type Period string

const (
	PeriodDaily   Period = "DAILY"
	PeriodWeekly  Period = "WEEKLY"
	PeriodMonthly Period = "MONTHLY"
)

// ParsePeriod interpreta el parámetro de período; vacío equivale a DAILY.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToUpper(strings.TrimSpace(s))); p {
	case "":
		return PeriodDaily, nil
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
		return p, nil
	}
	return "", fmt.Errorf("%w: period debe ser DAILY, WEEKLY o MONTHLY", domain.ErrInvalidArgument)
}

// Segment tramo [Start, End] de días completos dentro de una serie.
type Segment struct {
	Label string
	Start time.Time // medianoche del primer día
	End   time.Time // medianoche del último día (inclusive)
}

// Segments parte [start, end] en tramos consecutivos y sin solapamiento según el período.
//   - DAILY: un tramo por día.
//   - WEEKLY: tramos de 7 días contados desde start; el último se recorta a end.
//   - MONTHLY: tramos alineados al mes calendario; el primero y el último se recortan.
//
// La secuencia es perezosa y puede recorrerse varias veces.
func Segments(start, end time.Time, period Period) iter.Seq[Segment] {
	first, last := entity.DateOf(start), entity.DateOf(end)
	return func(yield func(Segment) bool) {
		cursor := first
		for !cursor.After(last) {
			var seg Segment
			switch period {
			case PeriodWeekly:
				segEnd := minDate(cursor.AddDate(0, 0, 6), last)
				seg = Segment{Label: FormatDate(cursor) + " - " + FormatDate(segEnd), Start: cursor, End: segEnd}
				cursor = cursor.AddDate(0, 0, 7)
			case PeriodMonthly:
				monthEnd := time.Date(cursor.Year(), cursor.Month()+1, 0, 0, 0, 0, 0, cursor.Location())
				seg = Segment{Label: cursor.Format("2006-01"), Start: cursor, End: minDate(monthEnd, last)}
				cursor = monthEnd.AddDate(0, 0, 1)
			default:
				seg = Segment{Label: FormatDate(cursor), Start: cursor, End: cursor}
				cursor = cursor.AddDate(0, 0, 1)
			}
			if !yield(seg) {
				return
			}
		}
	}
}

// EndOfDay último instante del día de t.
func EndOfDay(t time.Time) time.Time {
	return entity.DateOf(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// DayWindow ventana [00:00, fin del día] del día de t.
func DayWindow(t time.Time) (time.Time, time.Time) {
	return entity.DateOf(t), EndOfDay(t)
}

// RangeWindow ventana desde el inicio de start hasta el fin de end.
func RangeWindow(start, end time.Time) (time.Time, time.Time) {
	return entity.DateOf(start), EndOfDay(end)
}

// MonthWindow ventana del mes calendario completo.
func MonthWindow(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return first, first.AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// FormatDate fecha ISO (YYYY-MM-DD).
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// ParseDate interpreta una fecha ISO en la zona dada.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha inválida %q (formato YYYY-MM-DD)", domain.ErrInvalidInput, s)
	}
	return t, nil
}

// ResolveRange aplica los valores por defecto (últimos defaultDays días hasta hoy)
// y valida que start no sea posterior a end.
func ResolveRange(startStr, endStr string, today time.Time, defaultDays int) (time.Time, time.Time, error) {
	loc := today.Location()
	end := entity.DateOf(today)
	if strings.TrimSpace(endStr) != "" {
		var err error
		if end, err = ParseDate(endStr, loc); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	start := end.AddDate(0, 0, -(defaultDays - 1))
	if strings.TrimSpace(startStr) != "" {
		var err error
		if start, err = ParseDate(startStr, loc); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if err := ValidateRange(start, end); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// ValidateRange falla con ErrInvalidRange si start es posterior a end.
func ValidateRange(start, end time.Time) error {
	if entity.DateOf(start).After(entity.DateOf(end)) {
		return fmt.Errorf("%w: start debe ser anterior o igual a end", domain.ErrInvalidRange)
	}
	return nil
}

func minDate(a, b time.Time) time.Time {
	if a.After(b) {
		return b
	}
	return a
}
