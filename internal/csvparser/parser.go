// =============================================================================
// CSV Table Dashboards - CSV Parser Module
// =============================================================================
//
// This module turns raw CSV text into a rectangular table: one header row and
// any number of data rows, each padded or truncated to the header length.
//
// TOKENIZER RULES:
//   - A leading byte order mark is dropped
//   - Line endings are normalized before splitting into lines
//   - A quote (" or ') opens quoting only at the start of a field
//   - Inside quoting, a doubled quote is a literal quote character
//   - Commas separate fields only outside quoting
//   - Every field is trimmed of surrounding whitespace and byte order marks
//
// Quoted fields cannot span lines; lines are split before tokenizing.
//
// =============================================================================

package csvparser

import (
	"strings"
	"unicode"
)

// byteOrderMark is the UTF-8 BOM some spreadsheet exports prepend.
const byteOrderMark = "\uFEFF"

// =============================================================================
// TABLE STRUCTURE
// =============================================================================

// Table represents parsed CSV data.
type Table struct {
	// Headers contains the column headers from the first line.
	Headers []string

	// Rows contains the data rows. Every row has len(Headers) fields.
	Rows [][]string
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int {
	return len(t.Headers)
}

// empty returns a table with no headers and no rows.
func empty() *Table {
	return &Table{Headers: []string{}, Rows: [][]string{}}
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse tokenizes CSV text into a Table.
//
// PARAMETERS:
//   - text: The raw CSV text. May be empty.
//
// RETURNS:
//   - A Table. Empty or whitespace-only input yields a table with no headers
//     and no rows. Parse never fails; malformed quoting is absorbed by the
//     tokenizer.
func Parse(text string) *Table {
	text = strings.TrimPrefix(text, byteOrderMark)
	lines := strings.Split(strings.ReplaceAll(text, "\r", ""), "\n")

	// Drop a single trailing empty line.
	if len(lines) > 0 && trimField(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	if len(lines) == 0 || trimField(lines[0]) == "" {
		return empty()
	}

	headers := ParseLine(lines[0])
	rows := make([][]string, 0, len(lines)-1)

	for _, line := range lines[1:] {
		if isLineEmpty(line) {
			continue
		}
		rows = append(rows, normalizeRow(ParseLine(line), len(headers)))
	}

	return &Table{Headers: headers, Rows: rows}
}

// ParseLine splits a single CSV line into trimmed fields.
//
// EXAMPLES:
//   a,"b,c",d   -> ["a", "b,c", "d"]
//   "a""b"      -> ["a\"b"]
//   'x', y      -> ["x", "y"]
func ParseLine(line string) []string {
	var out []string
	var current strings.Builder
	var quote rune

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]

		switch {
		case quote != 0:
			if ch != quote {
				current.WriteRune(ch)
				continue
			}
			// Doubled quote inside quoting is an escaped literal.
			if i+1 < len(runes) && runes[i+1] == quote {
				current.WriteRune(quote)
				i++
				continue
			}
			quote = 0

		case (ch == '"' || ch == '\'') && current.Len() == 0:
			quote = ch

		case ch == ',':
			out = append(out, trimField(current.String()))
			current.Reset()

		default:
			current.WriteRune(ch)
		}
	}

	return append(out, trimField(current.String()))
}

// FromRecords builds a Table from already-split records, such as the rows of
// a spreadsheet. The first record is the header row. Cells are trimmed, blank
// records are skipped and every row is normalized to the header length.
func FromRecords(records [][]string) *Table {
	if len(records) == 0 || isRecordEmpty(records[0]) {
		return empty()
	}

	headers := trimAll(records[0])
	rows := make([][]string, 0, len(records)-1)

	for _, record := range records[1:] {
		if isRecordEmpty(record) {
			continue
		}
		rows = append(rows, normalizeRow(trimAll(record), len(headers)))
	}

	return &Table{Headers: headers, Rows: rows}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// normalizeRow right-pads row with empty strings, or truncates it, so that it
// has exactly width fields.
func normalizeRow(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}

// isLineEmpty checks if a line contains only whitespace.
func isLineEmpty(line string) bool {
	return trimField(line) == ""
}

// isRecordEmpty checks if a record contains only empty values.
func isRecordEmpty(record []string) bool {
	for _, cell := range record {
		if trimField(cell) != "" {
			return false
		}
	}
	return true
}

// trimField trims whitespace and stray byte order marks from both ends.
func trimField(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})
}

func trimAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = trimField(v)
	}
	return out
}
