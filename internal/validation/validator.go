// =============================================================================
// CSV Table Dashboards - Validation Engine
// =============================================================================
//
// This module checks a dashboard configuration against the loaded source
// headers and reports problems before anything renders.
//
// CHECKS:
//   1. Table-level: empty column lists, duplicate keys, group_by targets,
//      aggregation entries, sort types, locales
//   2. Column-level: missing source headers, unknown format names
//   3. Filter-level: static filter columns, bindings to unknown tables or
//      missing columns
//
// ERROR HANDLING:
//   - Diagnostics are collected, never returned early
//   - Most problems are warnings: the pipeline degrades gracefully (missing
//     headers render empty, unknown aggregations fall back to first)
//   - Errors mark configurations where a table or binding cannot work at all
//
// =============================================================================

package validation

import (
	"bufio"
	"fmt"
	"os"
	"slices"
	"strings"

	"golang.org/x/text/language"

	"github.com/ginjaninja78/csvtable/internal/config"
	"github.com/ginjaninja78/csvtable/internal/dsl"
	"github.com/ginjaninja78/csvtable/internal/format"
	"github.com/ginjaninja78/csvtable/internal/types"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Rule names.
const (
	RuleNoColumns      = "no-columns"
	RuleDuplicateKey   = "duplicate-key"
	RuleSchemaMismatch = "schema-mismatch"
	RuleGroupBy        = "group-by"
	RuleUnknownAgg     = "unknown-aggregation"
	RuleAggColumn      = "aggregation-column"
	RuleUnknownFormat  = "unknown-format"
	RuleLocale         = "locale"
	RuleSortTypes      = "sort-types"
	RuleFilterColumn   = "filter-column"
	RuleBindingTable   = "binding-table"
	RuleBindingColumn  = "binding-column"
)

// ValidationError represents a single diagnostic.
type ValidationError struct {
	// Severity is SeverityError or SeverityWarning.
	Severity string

	// Table is the table the diagnostic belongs to.
	Table string

	// Field is the column key, header or binding the diagnostic concerns.
	Field string

	// Value is the offending value.
	Value string

	// Rule is the check that failed.
	Rule string

	// Message is a human-readable message.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] Table '%s', Field '%s': %s (value: '%s')",
		strings.ToUpper(e.Severity),
		e.Table,
		e.Field,
		e.Message,
		e.Value,
	)
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult contains the results of validation.
type ValidationResult struct {
	// IsValid is true if there are no errors.
	IsValid bool

	// Errors contains all diagnostics, warnings included.
	Errors []*ValidationError

	// ErrorCount is the number of errors.
	ErrorCount int

	// WarningCount is the number of warnings.
	WarningCount int

	// TablesValidated is the number of tables checked.
	TablesValidated int
}

func (r *ValidationResult) add(e *ValidationError) {
	r.Errors = append(r.Errors, e)
	if e.Severity == SeverityError {
		r.ErrorCount++
		r.IsValid = false
	} else {
		r.WarningCount++
	}
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Validator checks configurations against a set of source headers.
type Validator struct {
	headers   map[string]bool
	formatter *format.Formatter
}

// NewValidator creates a Validator for a source with headers. formatter
// supplies the registered custom formatter names and may be nil.
func NewValidator(headers []string, formatter *format.Formatter) *Validator {
	set := make(map[string]bool, len(headers))
	for _, h := range headers {
		set[h] = true
	}
	if formatter == nil {
		formatter = format.New("", nil)
	}
	return &Validator{headers: set, formatter: formatter}
}

// =============================================================================
// MAIN VALIDATION FUNCTION
// =============================================================================

// Validate checks cfg against headers. This is the main entry point for
// validation.
//
// PARAMETERS:
//   - headers: The loaded source headers.
//   - cfg: The dashboard configuration.
//   - formatter: Supplies custom formatter names. May be nil.
//
// RETURNS:
//   - The collected diagnostics.
func Validate(headers []string, cfg *config.Config, formatter *format.Formatter) *ValidationResult {
	return NewValidator(headers, formatter).ValidateConfig(cfg)
}

// ValidateConfig checks every table and binding of cfg.
func (v *Validator) ValidateConfig(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{IsValid: true}

	for _, tbl := range cfg.Tables {
		for _, e := range v.ValidateTable(tbl.Name, tbl.TableDef) {
			result.add(e)
		}
		result.TablesValidated++
	}

	for _, e := range v.ValidateBindings(cfg.Tables, cfg.Filters) {
		result.add(e)
	}

	return result
}

// ValidateTable checks one table definition.
func (v *Validator) ValidateTable(name string, def types.TableDef) []*ValidationError {
	var errs []*ValidationError
	report := func(severity, rule, field, value, msg string) {
		errs = append(errs, &ValidationError{
			Severity: severity,
			Table:    name,
			Field:    field,
			Value:    value,
			Rule:     rule,
			Message:  msg,
		})
	}

	columns := dsl.ParseColumns(def.Columns)
	if len(columns) == 0 {
		report(SeverityError, RuleNoColumns, "columns", def.Columns, "no column definitions could be parsed")
		return errs
	}

	// =========================================================================
	// COLUMNS
	// =========================================================================

	keys := make(map[string]bool, len(columns))
	for _, col := range columns {
		if keys[col.Key] {
			report(SeverityWarning, RuleDuplicateKey, col.Key, col.Key, "column key is defined more than once; later values overwrite earlier ones")
		}
		keys[col.Key] = true

		if !v.headers[col.SourceHeader] {
			report(SeverityWarning, RuleSchemaMismatch, col.Key, col.SourceHeader, "source header not found; column renders empty")
		}

		if col.Format != "" && col.Format != format.FormatCurrency && col.Format != format.FormatPercent && !v.formatter.HasCustom(col.Format) {
			report(SeverityWarning, RuleUnknownFormat, col.Key, col.Format, "unknown format; plain number formatting is used")
		}
		if col.Format != "" && !col.IsNumeric() {
			report(SeverityWarning, RuleUnknownFormat, col.Key, col.Format, "format is ignored on text columns")
		}

		if col.Locale != "" && !validLocale(col.Locale) {
			report(SeverityWarning, RuleLocale, col.Key, col.Locale, "locale is not a valid BCP 47 tag")
		}
	}

	if def.Locale != "" && !validLocale(def.Locale) {
		report(SeverityWarning, RuleLocale, "locale", def.Locale, "locale is not a valid BCP 47 tag")
	}

	// =========================================================================
	// GROUPING AND AGGREGATION
	// =========================================================================

	if def.GroupBy != "" && !matchesColumn(columns, def.GroupBy) {
		report(SeverityWarning, RuleGroupBy, "group_by", def.GroupBy, "group_by matches no column key or source header; rows are not grouped")
	}

	for _, spec := range dsl.ParseAgg(def.Agg) {
		if !spec.Func.Known() {
			report(SeverityWarning, RuleUnknownAgg, spec.Column, string(spec.Func), "unknown aggregation function; first is used")
		}
		if !matchesColumn(columns, spec.Column) {
			report(SeverityWarning, RuleAggColumn, spec.Column, spec.Column, "aggregation entry matches no column key or source header")
		}
	}

	// =========================================================================
	// FILTERS AND SORTING
	// =========================================================================

	for _, f := range dsl.ParseStaticFilters(def.StaticFilters) {
		if !v.headers[f.Column] {
			report(SeverityWarning, RuleFilterColumn, f.Column, f.Value, "static filter column not found; it compares against an empty value")
		}
	}

	if len(def.SortTypes) > len(columns) {
		report(SeverityWarning, RuleSortTypes, "sort_types", fmt.Sprint(len(def.SortTypes)), "more sort types than columns; extra entries are ignored")
	}
	for i, st := range def.SortTypes {
		if st != string(types.TypeText) && st != string(types.TypeNumber) {
			report(SeverityWarning, RuleSortTypes, fmt.Sprintf("sort_types[%d]", i), st, "unknown sort type; text is used")
		}
	}

	return errs
}

// ValidateBindings checks filter bindings against the tables and headers.
func (v *Validator) ValidateBindings(tables config.Tables, bindings []types.Binding) []*ValidationError {
	var errs []*ValidationError
	names := tables.Names()

	for _, b := range bindings {
		if !slices.Contains(names, b.Table) {
			errs = append(errs, &ValidationError{
				Severity: SeverityError,
				Table:    b.Table,
				Field:    b.Select,
				Value:    b.Table,
				Rule:     RuleBindingTable,
				Message:  "filter is bound to an unknown table",
			})
			continue
		}
		if !v.headers[b.Column] {
			errs = append(errs, &ValidationError{
				Severity: SeverityWarning,
				Table:    b.Table,
				Field:    b.Select,
				Value:    b.Column,
				Rule:     RuleBindingColumn,
				Message:  "filter column not found; the option list holds only the All entry",
			})
		}
	}

	return errs
}

func matchesColumn(columns []types.ColumnSpec, name string) bool {
	for _, c := range columns {
		if c.Key == name || c.SourceHeader == name {
			return true
		}
	}
	return false
}

func validLocale(locale string) bool {
	_, err := language.Parse(locale)
	return err == nil
}

// =============================================================================
// ERROR REPORTING
// =============================================================================

// FormatErrors formats diagnostics for display.
func FormatErrors(errors []*ValidationError) string {
	if len(errors) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Validation completed with %d issue(s):\n\n", len(errors)))

	for i, err := range errors {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
	}

	return builder.String()
}

// WriteErrorLog writes formatted diagnostics to filePath.
func WriteErrorLog(errors []*ValidationError, filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create error log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if _, err := writer.WriteString(FormatErrors(errors)); err != nil {
		return fmt.Errorf("failed to write error log: %w", err)
	}
	return writer.Flush()
}
