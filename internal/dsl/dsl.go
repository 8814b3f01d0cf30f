// =============================================================================
// CSV Table Dashboards - DSL Parser
// =============================================================================
//
// This package parses the three table mini-languages into structured specs:
//
//   COLUMNS:         "col1: Region [type:text]; col2: m2r [type:number; decimals:0]"
//   STATIC FILTERS:  "Status<>Closed; Name~north; Year=2024"
//   AGGREGATION:     "m2r: sum; AOID: nunique"
//
// All three grammars share the bracket-aware segment splitter: a string is
// split on ';' only at bracket depth 0, and empty segments are discarded.
//
// Malformed segments are skipped rather than reported. The parsers are pure
// functions of their input.
//
// =============================================================================

package dsl

import (
	"strconv"
	"strings"

	"github.com/ginjaninja78/csvtable/internal/types"
)

// =============================================================================
// SEGMENT SPLITTER
// =============================================================================

// SplitSegments splits value on ';' at bracket depth 0, trimming each segment
// and discarding empty ones. A stray ']' never drives the depth below zero.
//
// EXAMPLE:
//   "a: x [p:1; q:2]; b: y" -> ["a: x [p:1; q:2]", "b: y"]
func SplitSegments(value string) []string {
	var segments []string
	var current strings.Builder
	depth := 0

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			segments = append(segments, s)
		}
		current.Reset()
	}

	for _, ch := range value {
		switch ch {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		}

		if ch == ';' && depth == 0 {
			flush()
			continue
		}
		current.WriteRune(ch)
	}
	flush()

	return segments
}

// =============================================================================
// COLUMNS GRAMMAR
// =============================================================================

// ParseColumns parses a columns string.
//
// SEGMENT FORMAT:
//   key: sourceHeader [option; option; ...]
//
// RECOGNIZED OPTIONS:
//   - type:number          numeric column (any other value is text)
//   - decimals:N           fraction digits, 0 when N is not an integer
//   - locale:xx-YY         column locale override
//   - format:name          named formatter, "currency" or "percent"
//   - showColTotal:true    footer display flag
//   - showRowTotal:true    row-total participation flag
//
// Segments without ':' are skipped. Unrecognized option keys are ignored.
// The option body runs from the first '[' to the last ']' of the segment.
func ParseColumns(value string) []types.ColumnSpec {
	var out []types.ColumnSpec

	for _, segment := range SplitSegments(value) {
		key, right, ok := strings.Cut(segment, ":")
		if !ok {
			continue
		}
		right = strings.TrimSpace(right)

		col := types.ColumnSpec{
			Key:          strings.TrimSpace(key),
			SourceHeader: right,
			Type:         types.TypeText,
		}

		start := strings.Index(right, "[")
		end := strings.LastIndex(right, "]")
		if start != -1 && end > start {
			col.SourceHeader = strings.TrimSpace(right[:start])
			applyColumnOptions(&col, right[start+1:end])
		}

		out = append(out, col)
	}

	return out
}

// applyColumnOptions applies a ';'-joined option body to col. The body is
// split naively; nested brackets are not meaningful here.
func applyColumnOptions(col *types.ColumnSpec, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}

	for _, pair := range strings.Split(body, ";") {
		k, v, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)

		switch k {
		case "type":
			if v == string(types.TypeNumber) {
				col.Type = types.TypeNumber
			} else {
				col.Type = types.TypeText
			}
		case "decimals":
			col.Decimals = parseDecimals(v)
		case "locale":
			col.Locale = v
		case "format":
			col.Format = v
		case "showColTotal":
			col.ShowColTotal = v == "true"
		case "showRowTotal":
			col.ShowRowTotal = v == "true"
		}
	}
}

// parseDecimals reads a leading integer the way a lenient integer parse does
// ("2px" -> 2). Failures and negative counts become 0.
func parseDecimals(v string) int {
	end := 0
	if end < len(v) && (v[end] == '+' || v[end] == '-') {
		end++
	}
	digits := end
	for end < len(v) && v[end] >= '0' && v[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}

	n, err := strconv.Atoi(v[:end])
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// =============================================================================
// STATIC FILTER GRAMMAR
// =============================================================================

// filterOperators is checked in order; the first token found wins.
var filterOperators = []struct {
	token string
	op    types.Operator
}{
	{"<>", types.OpNeq},
	{"~", types.OpContains},
	{"=", types.OpEq},
}

// ParseStaticFilters parses a static-filter string. Segments that contain no
// operator token are skipped.
//
// EXAMPLE:
//   "Status<>Closed; Name~north" -> [{Status neq Closed} {Name contains north}]
func ParseStaticFilters(value string) []types.FilterSpec {
	var out []types.FilterSpec

	for _, segment := range SplitSegments(value) {
		for _, candidate := range filterOperators {
			idx := strings.Index(segment, candidate.token)
			if idx == -1 {
				continue
			}
			out = append(out, types.FilterSpec{
				Column:   strings.TrimSpace(segment[:idx]),
				Operator: candidate.op,
				Value:    strings.TrimSpace(segment[idx+len(candidate.token):]),
			})
			break
		}
	}

	return out
}

// =============================================================================
// AGGREGATION GRAMMAR
// =============================================================================

// ParseAgg parses an aggregation string into specs in declaration order.
// Function names are lower-cased and kept even when unknown.
func ParseAgg(value string) []types.AggSpec {
	var out []types.AggSpec

	for _, segment := range SplitSegments(value) {
		column, fn, ok := strings.Cut(segment, ":")
		if !ok {
			continue
		}
		out = append(out, types.AggSpec{
			Column: strings.TrimSpace(column),
			Func:   types.AggFunc(strings.ToLower(strings.TrimSpace(fn))),
		})
	}

	return out
}
