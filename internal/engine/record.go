package engine

import (
	"github.com/ginjaninja78/csvtable/internal/store"
	"github.com/ginjaninja78/csvtable/internal/types"
)

// =============================================================================
// MAPPED RECORDS
// =============================================================================

// Record is one row as seen by the pipeline. Records are rebuilt from the
// Data Store on every render pass.
type Record struct {
	// Source is a header->raw value snapshot of every source field. Group
	// records have an empty Source.
	Source map[string]string

	// IsGroup marks aggregated group records.
	IsGroup bool

	// Values holds the per-column value keyed by column key. Mapped values
	// are strings; aggregated values may be float64.
	Values map[string]any
}

// Value returns the value of column key, or nil when absent.
func (r Record) Value(key string) any {
	return r.Values[key]
}

// SourceValue returns the raw source field under header, or "".
func (r Record) SourceValue(header string) string {
	return r.Source[header]
}

// =============================================================================
// ROW MAPPER
// =============================================================================

// mapRows projects every source row into a Record keyed by the table's
// column keys. Columns whose source header is missing map to "".
func mapRows(st *store.Store, columns []types.ColumnSpec) []Record {
	rows := st.Rows()
	out := make([]Record, 0, len(rows))

	for _, row := range rows {
		rec := Record{
			Source: make(map[string]string, len(st.Headers())+len(columns)),
			Values: make(map[string]any, len(columns)),
		}

		for _, col := range columns {
			val := st.Value(row, col.SourceHeader)
			rec.Values[col.Key] = val
			rec.Source[col.SourceHeader] = val
		}

		for _, h := range st.Headers() {
			rec.Source[h] = st.Value(row, h)
		}

		out = append(out, rec)
	}

	return out
}
