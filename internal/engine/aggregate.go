// =============================================================================
// CSV Table Dashboards - Aggregation Engine
// =============================================================================
//
// Groups filtered records by the mapped value of the group-by column and
// reduces every other column of each group to a single value.
//
// AGGREGATION FUNCTIONS:
//   - sum      numeric sum; unparseable values count as 0
//   - count    number of non-nil, non-empty values
//   - mean/avg average of the parseable values, 0 if none
//   - min/max  over the parseable values, 0 if none
//   - nunique  number of distinct values, compared without coercion
//   - first    the first value, "" if absent
//
// Unknown function names resolve to first. Columns without an entry in the
// aggregation map default to sum when numeric and first otherwise.
//
// =============================================================================

package engine

import (
	"math"

	"github.com/ginjaninja78/csvtable/internal/format"
	"github.com/ginjaninja78/csvtable/internal/types"
)

// =============================================================================
// GROUPING
// =============================================================================

// groupColumn finds the column named by groupBy, matching keys before source
// headers.
func groupColumn(columns []types.ColumnSpec, groupBy string) (types.ColumnSpec, bool) {
	for _, c := range columns {
		if c.Key == groupBy {
			return c, true
		}
	}
	for _, c := range columns {
		if c.SourceHeader == groupBy {
			return c, true
		}
	}
	return types.ColumnSpec{}, false
}

// groupAndAggregate partitions records by the group column and aggregates
// each group. Groups are emitted in order of first discovery.
//
// Without a group-by, records pass through tagged as non-group records. A
// group-by that matches no column leaves the records untouched.
func groupAndAggregate(t *Table, records []Record) []Record {
	if t.GroupBy == "" {
		for i := range records {
			records[i].IsGroup = false
		}
		return records
	}

	groupCol, ok := groupColumn(t.Columns, t.GroupBy)
	if !ok {
		return records
	}

	groups := make(map[string][]Record)
	order := []string{}

	for _, rec := range records {
		key := format.Stringify(rec.Value(groupCol.Key))
		if _, exists := groups[key]; !exists {
			order = append(order, key)
		}
		groups[key] = append(groups[key], rec)
	}

	out := make([]Record, 0, len(order))
	for _, key := range order {
		members := groups[key]
		agg := Record{
			Source:  map[string]string{},
			IsGroup: true,
			Values:  make(map[string]any, len(t.Columns)),
		}

		for _, col := range t.Columns {
			if col.Key == groupCol.Key {
				agg.Values[col.Key] = key
				continue
			}

			values := make([]any, len(members))
			for i, m := range members {
				values[i] = m.Value(col.Key)
			}
			agg.Values[col.Key] = Aggregate(resolveAggFunc(t.AggMap, col), values)
		}

		out = append(out, agg)
	}

	return out
}

// resolveAggFunc looks the column up by source header, then by key, and
// falls back to the type default.
func resolveAggFunc(m types.AggMap, col types.ColumnSpec) types.AggFunc {
	if fn := m[col.SourceHeader]; fn != "" {
		return fn
	}
	if fn := m[col.Key]; fn != "" {
		return fn
	}
	if col.IsNumeric() {
		return types.AggSum
	}
	return types.AggFirst
}

// =============================================================================
// AGGREGATION FUNCTIONS
// =============================================================================

// Aggregate reduces values with fn. It never fails: unparseable values are
// skipped or counted as 0 according to the function.
//
// EXAMPLE:
//   values [10, 20, "x", ""]
//   sum   -> 30
//   mean  -> 15
//   count -> 3
func Aggregate(fn types.AggFunc, values []any) any {
	switch fn {
	case types.AggSum:
		total := 0.0
		for _, v := range values {
			total += format.NumberOrZero(v)
		}
		return total

	case types.AggCount:
		n := 0
		for _, v := range values {
			if v != nil && v != "" {
				n++
			}
		}
		return float64(n)

	case types.AggMean, types.AggAvg:
		nums := parseable(values)
		if len(nums) == 0 {
			return 0.0
		}
		total := 0.0
		for _, n := range nums {
			total += n
		}
		return total / float64(len(nums))

	case types.AggMin:
		nums := parseable(values)
		if len(nums) == 0 {
			return 0.0
		}
		out := math.Inf(1)
		for _, n := range nums {
			out = math.Min(out, n)
		}
		return out

	case types.AggMax:
		nums := parseable(values)
		if len(nums) == 0 {
			return 0.0
		}
		out := math.Inf(-1)
		for _, n := range nums {
			out = math.Max(out, n)
		}
		return out

	case types.AggNUnique:
		seen := make(map[any]struct{}, len(values))
		for _, v := range values {
			seen[v] = struct{}{}
		}
		return float64(len(seen))

	default:
		// first, and any unknown name.
		if len(values) == 0 || values[0] == nil {
			return ""
		}
		return values[0]
	}
}

// parseable returns the values that parse as numbers.
func parseable(values []any) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if n, ok := format.ParseNumber(v); ok {
			out = append(out, n)
		}
	}
	return out
}
