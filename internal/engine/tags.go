package engine

import (
	"regexp"
	"strings"

	"github.com/ginjaninja78/csvtable/internal/format"
)

// tagPattern matches template tags of the form {Table:Key}.
var tagPattern = regexp.MustCompile(`\{(\w+):(\w+)\}`)

// NoRow is passed to ResolveTags when the text is not inside a rendered row.
const NoRow = -1

// ResolveTags replaces every {Table:Key} tag in text from the latest summary
// of Table:
//
//   - {T:RowTotal}     the row total of row rowIndex, "" when rowIndex is NoRow
//   - {T:<key>Total}   the formatted column total of column key
//   - {T:<key>}        the formatted value of column key in the first row
//
// Tags naming an unrendered table or an unknown column resolve to "".
func (d *Dashboard) ResolveTags(text string, rowIndex int) string {
	return tagPattern.ReplaceAllStringFunc(text, func(tag string) string {
		m := tagPattern.FindStringSubmatch(tag)
		return d.resolveTag(m[1], m[2], rowIndex)
	})
}

func (d *Dashboard) resolveTag(table, key string, rowIndex int) string {
	summary, ok := d.summaries[table]
	if !ok {
		return ""
	}
	t := d.tables[table]

	if key == "RowTotal" {
		if rowIndex < 0 {
			return ""
		}
		if rowIndex >= len(summary.RowTotals) {
			return "0"
		}
		return format.Stringify(summary.RowTotals[rowIndex])
	}

	if colKey, found := strings.CutSuffix(key, "Total"); found {
		col, ok := t.Column(colKey)
		if !ok {
			return ""
		}
		return d.formatter.Format(col, t.Locale, summary.Totals[colKey])
	}

	col, ok := t.Column(key)
	if !ok {
		return ""
	}
	value := summary.FirstRow.Value(key)
	if value == nil {
		value = ""
	}
	return d.formatter.Format(col, t.Locale, value)
}
