package engine

import (
	"strings"

	"github.com/ginjaninja78/csvtable/internal/types"
)

// AllSentinel is the selection value that leaves a binding unconstrained,
// alongside the empty string.
const AllSentinel = "All"

// Selections reports the current value of selection controls. It is read on
// demand during each render pass.
type Selections interface {
	// Selected returns the value of control id. ok is false when the control
	// does not exist.
	Selected(id string) (value string, ok bool)
}

// SelectionMap is a Selections backed by a map of control id to value.
type SelectionMap map[string]string

// Selected implements Selections.
func (m SelectionMap) Selected(id string) (string, bool) {
	v, ok := m[id]
	return v, ok
}

// =============================================================================
// STATIC FILTERS
// =============================================================================

// passesStatic reports whether rec satisfies every static filter. Filters
// compare against raw source fields; unknown columns read as "".
func passesStatic(filters []types.FilterSpec, rec Record) bool {
	for _, f := range filters {
		value := rec.SourceValue(f.Column)

		switch f.Operator {
		case types.OpEq:
			if value != f.Value {
				return false
			}
		case types.OpNeq:
			if value == f.Value {
				return false
			}
		case types.OpContains:
			if !strings.Contains(strings.ToLower(value), strings.ToLower(f.Value)) {
				return false
			}
		}
	}
	return true
}

// filterStatic keeps the records that pass every static filter.
func filterStatic(filters []types.FilterSpec, records []Record) []Record {
	if len(filters) == 0 {
		return records
	}

	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if passesStatic(filters, rec) {
			out = append(out, rec)
		}
	}
	return out
}

// =============================================================================
// DYNAMIC FILTERS
// =============================================================================

// filterDynamic applies the non-static bindings of a table. A binding whose
// control is missing, empty or set to AllSentinel does not constrain rows.
// Matching is exact and case-sensitive.
func filterDynamic(bindings []types.Binding, sel Selections, records []Record) []Record {
	active := activeConstraints(bindings, sel)
	if len(active) == 0 {
		return records
	}

	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if matchesAll(active, rec) {
			out = append(out, rec)
		}
	}
	return out
}

type constraint struct {
	column string
	value  string
}

func activeConstraints(bindings []types.Binding, sel Selections) []constraint {
	if sel == nil {
		return nil
	}

	var out []constraint
	for _, b := range bindings {
		if b.Static {
			continue
		}
		value, ok := sel.Selected(b.Select)
		if !ok || value == "" || value == AllSentinel {
			continue
		}
		out = append(out, constraint{column: b.Column, value: value})
	}
	return out
}

func matchesAll(active []constraint, rec Record) bool {
	for _, c := range active {
		if rec.SourceValue(c.column) != c.value {
			return false
		}
	}
	return true
}
