// =============================================================================
// CSV Table Dashboards - Formatter
// =============================================================================
//
// This package renders typed cell values to display strings.
//
// FORMATTING RULES:
//   - Text columns render the raw value as-is
//   - Numeric columns resolve a locale (column, then table, then default),
//     parse the raw value, and then apply in order:
//       1. a named custom formatter, when one is registered under col.Format
//       2. the built-in "currency" format ($ prefix, 2 decimals)
//       3. the built-in "percent" format (x100, column decimals, % suffix)
//       4. plain fixed-decimal locale formatting
//   - Unparseable numeric values render as the empty string
//
// Locale-aware digits and grouping come from golang.org/x/text.
//
// =============================================================================

package format

import (
	"log/slog"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/ginjaninja78/csvtable/internal/types"
)

// DefaultLocale is used when neither the column nor the table sets a locale.
const DefaultLocale = "en-CA"

// Built-in format names.
const (
	FormatCurrency = "currency"
	FormatPercent  = "percent"
)

// CustomFunc is a host-supplied named formatter. It receives the parsed
// numeric value; its result is stringified for display.
type CustomFunc func(value float64) (any, error)

// =============================================================================
// FORMATTER
// =============================================================================

// Formatter formats cell values. It is safe for concurrent use.
type Formatter struct {
	defaultLocale string
	custom        map[string]CustomFunc

	// printers caches one message.Printer per locale string.
	printers sync.Map
}

// New creates a Formatter.
//
// PARAMETERS:
//   - defaultLocale: The global fallback locale. Empty means DefaultLocale.
//   - custom: Named formatters. May be nil.
func New(defaultLocale string, custom map[string]CustomFunc) *Formatter {
	if defaultLocale == "" {
		defaultLocale = DefaultLocale
	}
	if custom == nil {
		custom = map[string]CustomFunc{}
	}
	return &Formatter{
		defaultLocale: defaultLocale,
		custom:        custom,
	}
}

// DefaultLocale returns the global fallback locale.
func (f *Formatter) DefaultLocale() string {
	return f.defaultLocale
}

// HasCustom reports whether a named formatter is registered under name.
func (f *Formatter) HasCustom(name string) bool {
	_, ok := f.custom[name]
	return ok
}

// Format renders raw for display in col.
//
// PARAMETERS:
//   - col: The column definition.
//   - tableLocale: The table-level locale. May be empty.
//   - raw: The cell value (string, float64, int or nil).
//
// RETURNS:
//   - The display string. Never fails; formatting failures yield "".
func (f *Formatter) Format(col types.ColumnSpec, tableLocale string, raw any) string {
	if !col.IsNumeric() {
		return Stringify(raw)
	}

	locale := f.ResolveLocale(col, tableLocale)

	base, ok := ParseNumber(raw)
	if !ok {
		return ""
	}

	if col.Format != "" {
		if fn, exists := f.custom[col.Format]; exists {
			out, err := fn(base)
			if err != nil {
				slog.Debug("custom formatter failed", "format", col.Format, "error", err)
				return ""
			}
			return Stringify(out)
		}
	}

	switch col.Format {
	case FormatCurrency:
		return "$" + f.FormatNumber(base, locale, 2)
	case FormatPercent:
		return f.FormatNumber(base*100, locale, col.Decimals) + "%"
	default:
		return f.FormatNumber(base, locale, col.Decimals)
	}
}

// ResolveLocale returns the effective locale of a column.
func (f *Formatter) ResolveLocale(col types.ColumnSpec, tableLocale string) string {
	switch {
	case col.Locale != "":
		return col.Locale
	case tableLocale != "":
		return tableLocale
	default:
		return f.defaultLocale
	}
}

// FormatNumber formats value with exactly decimals fraction digits using the
// grouping and separators of locale. Unknown locales fall back to the root
// locale's conventions. Ties round away from zero.
func (f *Formatter) FormatNumber(value float64, locale string, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	value = RoundHalfAway(value, decimals)
	return f.printer(locale).Sprint(number.Decimal(value, number.Scale(decimals)))
}

func (f *Formatter) printer(locale string) *message.Printer {
	if cached, ok := f.printers.Load(locale); ok {
		return cached.(*message.Printer)
	}
	p := message.NewPrinter(parseLocale(locale))
	f.printers.Store(locale, p)
	return p
}

// parseLocale converts a BCP 47 string to a language tag. Malformed tags map
// to the undetermined language rather than failing.
func parseLocale(locale string) language.Tag {
	tag, err := language.Parse(locale)
	if err != nil {
		return language.Und
	}
	return tag
}
