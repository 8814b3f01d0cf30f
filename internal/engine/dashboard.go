// =============================================================================
// CSV Table Dashboards - Dashboard Engine
// =============================================================================
//
// This module owns all pipeline state of one dashboard and runs the render
// pipeline for its tables. Several dashboards are simply several Dashboard
// values; nothing is shared between them.
//
// RENDER PIPELINE (per table, per trigger):
//   1. Map every source row into a keyed record
//   2. Apply the static filters
//   3. Apply the dynamic filter bindings
//   4. Group and aggregate
//   5. Sort
//   6. Compute column and row totals
//   7. Format display rows, footer and summary
//
// TRIGGERS:
//   Render, ToggleSort and SelectChanged re-run the whole pipeline from table
//   state. Nothing is cached between runs, so repeated triggers are harmless.
//
// =============================================================================

package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/ginjaninja78/csvtable/internal/dsl"
	"github.com/ginjaninja78/csvtable/internal/format"
	"github.com/ginjaninja78/csvtable/internal/store"
	"github.com/ginjaninja78/csvtable/internal/types"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrUnknownTable is returned for operations on unregistered tables.
	ErrUnknownTable = errors.New("unknown table")

	// ErrNotLoaded is returned when rendering before a successful load.
	ErrNotLoaded = errors.New("source not loaded")

	// ErrRenderFailed wraps a failure recovered during a render pass.
	ErrRenderFailed = errors.New("render failed")
)

// =============================================================================
// TABLE STATE
// =============================================================================

// Table is the registered state of one table.
type Table struct {
	// Name is the table name used in bindings and template tags.
	Name string

	// Columns are the parsed column definitions in render order.
	Columns []types.ColumnSpec

	// StaticFilters are the parsed static filters.
	StaticFilters []types.FilterSpec

	// AggMap maps source headers or keys to aggregation functions.
	AggMap types.AggMap

	// GroupBy names the grouping column. Empty disables grouping.
	GroupBy string

	// TFoot enables the footer row.
	TFoot bool

	// Locale is the table-level locale.
	Locale string

	// SortTypes is the declared sort type per column position.
	SortTypes []types.ColumnType

	// Sort is the current sort selection. Changed only by ToggleSort.
	Sort types.SortState

	// Bindings are the filter bindings registered for this table.
	Bindings []types.Binding
}

// SortType returns the declared sort type of column position idx, text when
// undeclared.
func (t *Table) SortType(idx int) types.ColumnType {
	if idx >= 0 && idx < len(t.SortTypes) {
		return t.SortTypes[idx]
	}
	return types.TypeText
}

// Column returns the column with key.
func (t *Table) Column(key string) (types.ColumnSpec, bool) {
	for _, c := range t.Columns {
		if c.Key == key {
			return c, true
		}
	}
	return types.ColumnSpec{}, false
}

// =============================================================================
// RENDER OUTPUT
// =============================================================================

// Cell is one displayed value.
type Cell struct {
	Key  string
	Text string
}

// DisplayRow is one displayed row.
type DisplayRow struct {
	// Index is the 0-based row position.
	Index int

	// IsGroup marks aggregated group rows.
	IsGroup bool

	// Cells are in column order.
	Cells []Cell
}

// Summary is the per-table summary used to resolve template tags.
type Summary struct {
	RowCount      int
	FirstRow      Record
	Totals        map[string]float64
	RowTotals     []float64
	GrandRowTotal float64
	Columns       []types.ColumnSpec
}

// Result is the output of one render pass.
type Result struct {
	// Table is the table name.
	Table string

	// RunID identifies the render pass in logs.
	RunID string

	// Columns are the rendered column definitions.
	Columns []types.ColumnSpec

	// Rows are the display rows. Empty when the record set is empty.
	Rows []DisplayRow

	// Empty is true when no records survived the pipeline.
	Empty bool

	// Footer is the totals row, nil unless the table enables it.
	Footer *DisplayRow

	// Summary is the summary stored for the table.
	Summary *Summary

	// Records are the final records behind Rows.
	Records []Record
}

// =============================================================================
// HOOKS
// =============================================================================

// FilterEvent is passed to Hooks.OnFilter after dynamic filtering.
type FilterEvent struct {
	Table      string
	Bindings   []types.Binding
	MatchCount int
}

// RenderEvent is passed to Hooks.OnRender after a successful pass.
type RenderEvent struct {
	Table    string
	RowCount int
	Records  []Record
}

// Hooks are optional callbacks into the host application.
type Hooks struct {
	OnFilter func(FilterEvent)
	OnRender func(RenderEvent)
}

// =============================================================================
// DASHBOARD
// =============================================================================

// Dashboard is the pipeline context of one dashboard. It is not safe for
// concurrent use; triggers are expected from a single event loop.
type Dashboard struct {
	store      *store.Store
	formatter  *format.Formatter
	selections Selections
	hooks      Hooks
	logger     *slog.Logger

	loaded    bool
	tables    map[string]*Table
	order     []string
	selectMap map[string][]string
	summaries map[string]*Summary
}

// Option configures a Dashboard.
type Option func(*Dashboard)

// WithFormatter sets the formatter. The default uses DefaultLocale and no
// custom formatters.
func WithFormatter(f *format.Formatter) Option {
	return func(d *Dashboard) { d.formatter = f }
}

// WithSelections sets the source of selection control values.
func WithSelections(s Selections) Option {
	return func(d *Dashboard) { d.selections = s }
}

// WithHooks sets the host callbacks.
func WithHooks(h Hooks) Option {
	return func(d *Dashboard) { d.hooks = h }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(d *Dashboard) { d.logger = l }
}

// New creates a Dashboard reading from st.
func New(st *store.Store, opts ...Option) *Dashboard {
	d := &Dashboard{
		store:      st,
		selections: SelectionMap{},
		tables:     make(map[string]*Table),
		selectMap:  make(map[string][]string),
		summaries:  make(map[string]*Summary),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.formatter == nil {
		d.formatter = format.New("", nil)
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	return d
}

// Formatter returns the dashboard's formatter.
func (d *Dashboard) Formatter() *format.Formatter {
	return d.formatter
}

// Store returns the dashboard's data store.
func (d *Dashboard) Store() *store.Store {
	return d.store
}

// SetSelections replaces the source of selection control values.
func (d *Dashboard) SetSelections(s Selections) {
	d.selections = s
}

// =============================================================================
// LOADING AND REGISTRATION
// =============================================================================

// Load reads the source into the store. On failure the error is logged and
// returned, and previously rendered state is left untouched.
func (d *Dashboard) Load(ctx context.Context, loc store.Locator) error {
	if err := d.store.Load(ctx, loc); err != nil {
		d.logger.Error("source load failed", "source", loc.String(), "error", err)
		return err
	}

	d.loaded = true
	d.logger.Debug("source loaded",
		"source", loc.String(),
		"headers", len(d.store.Headers()),
		"rows", len(d.store.Rows()),
	)
	return nil
}

// Register parses def and installs it as table name, replacing any previous
// table of that name. Columns whose source header is missing from the loaded
// data are reported once here and render as empty.
func (d *Dashboard) Register(name string, def types.TableDef) *Table {
	t := &Table{
		Name:          name,
		Columns:       dsl.ParseColumns(def.Columns),
		StaticFilters: dsl.ParseStaticFilters(def.StaticFilters),
		AggMap:        types.NewAggMap(dsl.ParseAgg(def.Agg)),
		GroupBy:       def.GroupBy,
		TFoot:         def.TFoot,
		Locale:        def.Locale,
		SortTypes:     make([]types.ColumnType, len(def.SortTypes)),
	}
	if t.Locale == "" {
		t.Locale = d.formatter.DefaultLocale()
	}
	for i, st := range def.SortTypes {
		if st == string(types.TypeNumber) {
			t.SortTypes[i] = types.TypeNumber
		} else {
			t.SortTypes[i] = types.TypeText
		}
	}

	if d.loaded {
		for _, col := range t.Columns {
			if !d.store.HasHeader(col.SourceHeader) {
				d.logger.Warn("column header not found in source",
					"table", name, "column", col.Key, "header", col.SourceHeader)
			}
		}
	}

	if _, exists := d.tables[name]; !exists {
		d.order = append(d.order, name)
	}
	d.tables[name] = t
	return t
}

// Bind attaches a filter binding to its table and records which tables a
// control drives.
func (d *Dashboard) Bind(b types.Binding) error {
	t, ok := d.tables[b.Table]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTable, b.Table)
	}

	t.Bindings = append(t.Bindings, b)
	if !slices.Contains(d.selectMap[b.Select], b.Table) {
		d.selectMap[b.Select] = append(d.selectMap[b.Select], b.Table)
	}
	return nil
}

// Table returns the registered table with the given name.
func (d *Dashboard) Table(name string) (*Table, bool) {
	t, ok := d.tables[name]
	return t, ok
}

// TableNames returns the registered tables in registration order.
func (d *Dashboard) TableNames() []string {
	return slices.Clone(d.order)
}

// Summary returns the most recent summary of table name.
func (d *Dashboard) Summary(name string) (*Summary, bool) {
	s, ok := d.summaries[name]
	return s, ok
}

// =============================================================================
// INTERACTION
// =============================================================================

// ToggleSort applies a header click on column position idx of table name and
// re-renders the table.
func (d *Dashboard) ToggleSort(name string, idx int) (*Result, error) {
	t, ok := d.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}

	t.Sort = nextSort(t.Sort, idx)
	d.logger.Debug("sort toggled", "table", name, "column", idx, "direction", string(t.Sort.Direction))

	return d.Render(name)
}

// SelectChanged re-renders every table bound to control id.
func (d *Dashboard) SelectChanged(id string) ([]*Result, error) {
	var results []*Result
	var errs []error

	for _, name := range d.selectMap[id] {
		res, err := d.Render(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		results = append(results, res)
	}

	return results, errors.Join(errs...)
}

// RenderAll renders every table in registration order. A failing table does
// not stop the others.
func (d *Dashboard) RenderAll() ([]*Result, error) {
	var results []*Result
	var errs []error

	for _, name := range d.order {
		res, err := d.Render(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		results = append(results, res)
	}

	return results, errors.Join(errs...)
}

// =============================================================================
// RENDER
// =============================================================================

// Render runs the full pipeline for table name.
//
// RETURNS:
//   - The render result, also stored as the table's latest summary.
//   - ErrUnknownTable, ErrNotLoaded, or an error wrapping ErrRenderFailed
//     when the pass panicked. A failed pass keeps the previous summary.
func (d *Dashboard) Render(name string) (res *Result, err error) {
	t, ok := d.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}
	if !d.loaded {
		return nil, ErrNotLoaded
	}

	runID := uuid.NewString()
	log := d.logger.With("table", name, "run_id", runID)

	defer func() {
		if r := recover(); r != nil {
			log.Error("render failed", "panic", r)
			res = nil
			err = fmt.Errorf("%w: %s: %v", ErrRenderFailed, name, r)
		}
	}()

	// =========================================================================
	// STEP 1-3: MAP AND FILTER
	// =========================================================================

	mapped := mapRows(d.store, t.Columns)
	staticFiltered := filterStatic(t.StaticFilters, mapped)
	filtered := filterDynamic(t.Bindings, d.selections, staticFiltered)

	if d.hooks.OnFilter != nil {
		d.hooks.OnFilter(FilterEvent{
			Table:      name,
			Bindings:   slices.Clone(t.Bindings),
			MatchCount: len(filtered),
		})
	}

	// =========================================================================
	// STEP 4-6: AGGREGATE, SORT, TOTAL
	// =========================================================================

	grouped := groupAndAggregate(t, filtered)
	sorted := applySort(t, grouped)
	totals := computeTotals(t.Columns, sorted)

	// =========================================================================
	// STEP 7: FORMAT
	// =========================================================================

	res = &Result{
		Table:   name,
		RunID:   runID,
		Columns: t.Columns,
		Rows:    make([]DisplayRow, 0, len(sorted)),
		Empty:   len(sorted) == 0,
		Records: sorted,
	}

	for i, rec := range sorted {
		row := DisplayRow{Index: i, IsGroup: rec.IsGroup, Cells: make([]Cell, len(t.Columns))}
		for j, col := range t.Columns {
			row.Cells[j] = Cell{Key: col.Key, Text: d.formatter.Format(col, t.Locale, rec.Value(col.Key))}
		}
		res.Rows = append(res.Rows, row)
	}

	if t.TFoot {
		footer := &DisplayRow{Index: 0, Cells: make([]Cell, len(t.Columns))}
		for j, col := range t.Columns {
			footer.Cells[j] = Cell{Key: col.Key, Text: footerText(d.formatter, t, col, totals, res.Empty)}
		}
		res.Footer = footer
	}

	summary := &Summary{
		RowCount:      len(sorted),
		Totals:        totals.Columns,
		RowTotals:     totals.RowTotals,
		GrandRowTotal: totals.GrandRowTotal,
		Columns:       t.Columns,
	}
	if len(sorted) > 0 {
		summary.FirstRow = sorted[0]
	}
	res.Summary = summary
	d.summaries[name] = summary

	if d.hooks.OnRender != nil {
		d.hooks.OnRender(RenderEvent{Table: name, RowCount: len(sorted), Records: sorted})
	}

	log.Debug("table rendered", "rows", len(sorted), "source_rows", len(mapped))
	return res, nil
}

// =============================================================================
// FILTER OPTIONS
// =============================================================================

// Choice is one entry of a selection control's option list.
type Choice struct {
	Value string
	Label string
}

// FilterOptions returns the option list for binding b: the "All" sentinel
// followed by the distinct raw values of the bound column across source rows
// that pass the table's static filters, in locale order.
func (d *Dashboard) FilterOptions(b types.Binding) ([]Choice, error) {
	t, ok := d.tables[b.Table]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, b.Table)
	}

	out := []Choice{{Value: "", Label: AllSentinel}}
	if !d.store.HasHeader(b.Column) {
		return out, nil
	}

	seen := map[string]struct{}{}
	var values []string
	for _, row := range d.store.Rows() {
		rec := Record{Source: d.store.Snapshot(row)}
		if !passesStatic(t.StaticFilters, rec) {
			continue
		}
		v := d.store.Value(row, b.Column)
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}

	slices.SortStableFunc(values, format.TextComparer(t.Locale))
	for _, v := range values {
		out = append(out, Choice{Value: v, Label: v})
	}
	return out, nil
}
