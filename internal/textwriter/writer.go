// Package textwriter renders results as bordered terminal tables.
package textwriter

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ginjaninja78/csvtable/internal/engine"
)

// NoDataText is shown in place of rows when a table has no records.
const NoDataText = "No data"

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
)

// Render renders one result: a title line followed by the table.
func Render(res *engine.Result) string {
	headers := make([]string, len(res.Columns))
	for i, col := range res.Columns {
		headers[i] = col.Key
	}

	rows := make([][]string, 0, len(res.Rows)+2)
	if res.Empty {
		rows = append(rows, pad([]string{NoDataText}, len(headers)))
	}
	for _, r := range res.Rows {
		rows = append(rows, texts(r))
	}
	footerRow := -1
	if res.Footer != nil {
		footerRow = len(rows)
		rows = append(rows, texts(*res.Footer))
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch row {
			case table.HeaderRow:
				return headerStyle
			case footerRow:
				return footerStyle
			default:
				return cellStyle
			}
		})

	return titleStyle.Render(res.Table) + "\n" + t.Render()
}

// Write renders every result to w, separated by blank lines.
func Write(w io.Writer, results []*engine.Result) error {
	parts := make([]string, len(results))
	for i, res := range results {
		parts[i] = Render(res)
	}
	_, err := fmt.Fprintln(w, strings.Join(parts, "\n\n"))
	return err
}

func texts(r engine.DisplayRow) []string {
	out := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		out[i] = c.Text
	}
	return out
}

func pad(row []string, n int) []string {
	for len(row) < n {
		row = append(row, "")
	}
	return row
}
