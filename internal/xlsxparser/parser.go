// =============================================================================
// CSV Table Dashboards - XLSX Source Parser
// =============================================================================
//
// This module reads a spreadsheet worksheet as dashboard source data. The
// first non-empty row of the sheet is the header row; every following row is
// a data row. Rows are normalized exactly like parsed CSV rows, so a
// spreadsheet source and a CSV source with the same cells are
// indistinguishable to the engine.
//
// SHEET SELECTION:
//   - An explicit sheet name, when given
//   - Otherwise the first sheet of the workbook
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/csvtable/internal/csvparser"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a worksheet from an XLSX file.
//
// PARAMETERS:
//   - path: The path to the XLSX file.
//   - sheet: The worksheet name. Empty selects the first sheet.
//
// RETURNS:
//   - The sheet contents as a rectangular table.
//   - An error if the file cannot be opened or the sheet does not exist.
func Parse(path, sheet string) (*csvparser.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return readSheet(f, sheet)
}

// ParseReader reads a worksheet from XLSX content, such as a fetched body.
func ParseReader(r io.Reader, sheet string) (*csvparser.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return readSheet(f, sheet)
}

// readSheet extracts the rows of a single sheet from an open workbook.
func readSheet(f *excelize.File, sheet string) (*csvparser.Table, error) {
	if sheet == "" {
		sheet = f.GetSheetName(0)
		if sheet == "" {
			return nil, fmt.Errorf("workbook has no sheets")
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of sheet %q: %w", sheet, err)
	}

	return csvparser.FromRecords(skipLeadingEmpty(rows)), nil
}

// skipLeadingEmpty drops empty rows above the header row. Spreadsheets often
// carry a title or blank lines above the data.
func skipLeadingEmpty(rows [][]string) [][]string {
	for i, row := range rows {
		if !isRowEmpty(row) {
			return rows[i:]
		}
	}
	return nil
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
