package engine

import (
	"cmp"
	"slices"

	"github.com/ginjaninja78/csvtable/internal/format"
	"github.com/ginjaninja78/csvtable/internal/types"
)

// nextSort advances the sort cycle for a click on column idx:
// unsorted -> asc -> desc -> unsorted. A click on a different column starts
// over at asc on that column.
func nextSort(cur types.SortState, idx int) types.SortState {
	if !cur.Active() || cur.ColumnIndex != idx {
		return types.SortState{ColumnIndex: idx, Direction: types.SortAsc}
	}
	if cur.Direction == types.SortAsc {
		return types.SortState{ColumnIndex: idx, Direction: types.SortDesc}
	}
	return types.SortState{}
}

// applySort returns a stably sorted copy of records ordered by the selected
// column. Numeric sort types compare parsed floats (failures as 0); text
// compares with the table locale's collation.
func applySort(t *Table, records []Record) []Record {
	if !t.Sort.Active() || len(records) == 0 {
		return records
	}
	idx := t.Sort.ColumnIndex
	if idx < 0 || idx >= len(t.Columns) {
		return records
	}

	key := t.Columns[idx].Key
	dir := 1
	if t.Sort.Direction == types.SortDesc {
		dir = -1
	}

	var compare func(a, b string) int
	if t.SortType(idx) == types.TypeNumber {
		compare = func(a, b string) int {
			return cmp.Compare(format.NumberOrZero(a), format.NumberOrZero(b))
		}
	} else {
		compare = format.TextComparer(t.Locale)
	}

	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b Record) int {
		return compare(format.Stringify(a.Value(key)), format.Stringify(b.Value(key))) * dir
	})

	return sorted
}
