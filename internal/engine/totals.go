package engine

import (
	"github.com/ginjaninja78/csvtable/internal/format"
	"github.com/ginjaninja78/csvtable/internal/types"
)

// NullPlaceholder is the footer text of non-numeric columns when the record
// set is empty.
const NullPlaceholder = "null"

// Totals holds the column and row totals of one render pass.
type Totals struct {
	// Columns maps numeric column keys to their total. Keys are present only
	// when at least one record exists.
	Columns map[string]float64

	// RowTotals has one entry per record: the sum of its numeric
	// showRowTotal columns.
	RowTotals []float64

	// GrandRowTotal is the sum of RowTotals.
	GrandRowTotal float64
}

// computeTotals walks records once, accumulating numeric column totals and
// per-row totals. Unparseable values contribute 0.
func computeTotals(columns []types.ColumnSpec, records []Record) Totals {
	totals := Totals{
		Columns:   map[string]float64{},
		RowTotals: make([]float64, 0, len(records)),
	}

	for _, rec := range records {
		rowTotal := 0.0
		for _, col := range columns {
			if !col.IsNumeric() {
				continue
			}
			safe := format.NumberOrZero(rec.Value(col.Key))
			totals.Columns[col.Key] += safe
			if col.ShowRowTotal {
				rowTotal += safe
			}
		}
		totals.RowTotals = append(totals.RowTotals, rowTotal)
		totals.GrandRowTotal += rowTotal
	}

	return totals
}

// footerText renders the footer cell of col. Numeric columns show their
// formatted total (0 for an empty record set). Other columns are blank, or
// NullPlaceholder when the record set is empty.
func footerText(f *format.Formatter, t *Table, col types.ColumnSpec, totals Totals, empty bool) string {
	if col.IsNumeric() {
		return f.Format(col, t.Locale, totals.Columns[col.Key])
	}
	if empty {
		return NullPlaceholder
	}
	return ""
}
