// Package xlsxwriter exports rendered tables to an XLSX workbook, one sheet
// per table: a bold header row of column keys, the display rows, and the
// footer row in bold when the table has one.
package xlsxwriter

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/csvtable/internal/engine"
)

// NoDataText fills the first cell of an empty table's sheet.
const NoDataText = "No data"

const maxSheetName = 31

// Write encodes results as a workbook to w.
func Write(results []*engine.Result, w io.Writer) error {
	f, err := build(results)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WriteFile saves results as a workbook at path.
func WriteFile(results []*engine.Result, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create workbook %s: %w", path, err)
	}

	if err := Write(results, out); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

func build(results []*engine.Result) (*excelize.File, error) {
	f := excelize.NewFile()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	used := map[string]bool{}
	for i, res := range results {
		sheet := SheetName(res.Table, used)
		if i == 0 {
			err = f.SetSheetName(f.GetSheetName(0), sheet)
		} else {
			_, err = f.NewSheet(sheet)
		}
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}

		if err := writeTable(f, sheet, res, bold); err != nil {
			f.Close()
			return nil, fmt.Errorf("table %s: %w", res.Table, err)
		}
	}

	return f, nil
}

func writeTable(f *excelize.File, sheet string, res *engine.Result, bold int) error {
	row := 1

	header := make([]any, len(res.Columns))
	for i, col := range res.Columns {
		header[i] = col.Key
	}
	if err := setRow(f, sheet, row, header, bold); err != nil {
		return err
	}
	row++

	if res.Empty {
		if err := setRow(f, sheet, row, []any{NoDataText}, 0); err != nil {
			return err
		}
		row++
	}

	for _, r := range res.Rows {
		if err := setRow(f, sheet, row, cellValues(r), 0); err != nil {
			return err
		}
		row++
	}

	if res.Footer != nil {
		if err := setRow(f, sheet, row, cellValues(*res.Footer), bold); err != nil {
			return err
		}
	}

	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any, style int) error {
	if len(values) == 0 {
		return nil
	}

	start, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, start, &values); err != nil {
		return err
	}
	if style == 0 {
		return nil
	}

	end, err := excelize.CoordinatesToCellName(len(values), row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, start, end, style)
}

func cellValues(r engine.DisplayRow) []any {
	out := make([]any, len(r.Cells))
	for i, c := range r.Cells {
		out[i] = c.Text
	}
	return out
}

// SheetName turns a table name into a valid, unused worksheet name and marks
// it used.
func SheetName(table string, used map[string]bool) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '_'
		}
		return r
	}, table)
	if strings.TrimSpace(name) == "" {
		name = "Table"
	}
	name = truncate(name, maxSheetName)

	candidate := name
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf("_%d", n)
		candidate = truncate(name, maxSheetName-len(suffix)) + suffix
	}
	used[strings.ToLower(candidate)] = true

	return candidate
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
