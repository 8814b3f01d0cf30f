// =============================================================================
// CSV Table Dashboards - Shared Types
// =============================================================================
//
// This package contains the structured definitions produced by the DSL parser
// and consumed by the engine, formatter and validation packages. Keeping them
// here avoids import cycles between those packages.
//
// =============================================================================

package types

// =============================================================================
// COLUMN DEFINITIONS
// =============================================================================

// ColumnType is the declared value type of a column.
type ColumnType string

const (
	// TypeText renders the raw value as-is.
	TypeText ColumnType = "text"

	// TypeNumber parses, aggregates and formats the value as a number.
	TypeNumber ColumnType = "number"
)

// ColumnSpec is one parsed entry of a table's columns string.
//
// Example source: "col2: m2r [type:number; decimals:0; showColTotal:true]"
type ColumnSpec struct {
	// Key identifies the column inside the table. Unique per table.
	Key string

	// SourceHeader is the CSV header the column reads from.
	SourceHeader string

	// Type is TypeNumber only for the literal option "type:number".
	Type ColumnType

	// Decimals is the fixed number of fraction digits for numeric output.
	Decimals int

	// Locale overrides the table locale for this column. Empty means unset.
	Locale string

	// Format names a custom formatter, or one of the built-ins
	// "currency" and "percent". Empty means plain numeric formatting.
	Format string

	// ShowColTotal marks the column for footer display.
	ShowColTotal bool

	// ShowRowTotal includes the column in the per-row total.
	ShowRowTotal bool
}

// IsNumeric reports whether the column is typed as a number.
func (c ColumnSpec) IsNumeric() bool {
	return c.Type == TypeNumber
}

// =============================================================================
// STATIC FILTERS
// =============================================================================

// Operator is a static filter comparison.
type Operator string

const (
	OpEq       Operator = "eq"
	OpNeq      Operator = "neq"
	OpContains Operator = "contains"
)

// FilterSpec is one parsed static filter, e.g. "Status<>Closed".
type FilterSpec struct {
	Column   string
	Operator Operator
	Value    string
}

// =============================================================================
// AGGREGATION
// =============================================================================

// AggFunc names an aggregation function. Unknown names are kept verbatim and
// resolved to AggFirst when used.
type AggFunc string

const (
	AggSum     AggFunc = "sum"
	AggCount   AggFunc = "count"
	AggMean    AggFunc = "mean"
	AggAvg     AggFunc = "avg"
	AggMin     AggFunc = "min"
	AggMax     AggFunc = "max"
	AggNUnique AggFunc = "nunique"
	AggFirst   AggFunc = "first"
)

// Known reports whether f is one of the built-in aggregation functions.
func (f AggFunc) Known() bool {
	switch f {
	case AggSum, AggCount, AggMean, AggAvg, AggMin, AggMax, AggNUnique, AggFirst:
		return true
	}
	return false
}

// AggSpec is one parsed entry of a table's agg string, e.g. "m2r: sum".
type AggSpec struct {
	// Column is a source header or a column key.
	Column string

	// Func is the lower-cased function name.
	Func AggFunc
}

// AggMap maps a source header or column key to its aggregation function.
type AggMap map[string]AggFunc

// NewAggMap builds an AggMap from parsed specs. Later entries win.
func NewAggMap(specs []AggSpec) AggMap {
	m := make(AggMap, len(specs))
	for _, s := range specs {
		m[s.Column] = s.Func
	}
	return m
}

// =============================================================================
// FILTER BINDINGS
// =============================================================================

// Binding links a selection control to a column of a table.
type Binding struct {
	// Table is the name of the bound table.
	Table string `yaml:"table"`

	// Select is the identifier of the selection control.
	Select string `yaml:"select"`

	// Column is the source header compared against the selected value.
	Column string `yaml:"column"`

	// Static bindings only supply option lists and never gate rows.
	Static bool `yaml:"static"`
}

// =============================================================================
// SORT STATE
// =============================================================================

// SortDirection is the direction of the active sort.
type SortDirection string

const (
	SortNone SortDirection = ""
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortState is the sort selection of a table. ColumnIndex is meaningful only
// while Direction is not SortNone.
type SortState struct {
	ColumnIndex int
	Direction   SortDirection
}

// Active reports whether a column is selected for sorting.
func (s SortState) Active() bool {
	return s.Direction != SortNone
}

// =============================================================================
// TABLE DEFINITIONS
// =============================================================================

// TableDef is the DSL bundle that configures one table. It is parsed once
// when the table is registered.
type TableDef struct {
	// Columns is the columns DSL string.
	Columns string `yaml:"columns"`

	// StaticFilters is the static-filter DSL string.
	StaticFilters string `yaml:"static_filters"`

	// GroupBy names the grouping column by key or source header.
	GroupBy string `yaml:"group_by"`

	// Agg is the aggregation DSL string.
	Agg string `yaml:"agg"`

	// TFoot enables the totals footer row.
	TFoot bool `yaml:"tfoot"`

	// Locale is the table-level locale.
	Locale string `yaml:"locale"`

	// SortTypes declares the sort comparison per rendered column position
	// ("number" or "text"). Missing positions sort as text.
	SortTypes []string `yaml:"sort_types"`
}
