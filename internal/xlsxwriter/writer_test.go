package xlsxwriter

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/csvtable/internal/engine"
	"github.com/ginjaninja78/csvtable/internal/types"
)

func results() []*engine.Result {
	cols := []types.ColumnSpec{{Key: "region"}, {Key: "m2r", Type: types.TypeNumber}}
	return []*engine.Result{
		{
			Table:   "Sales",
			Columns: cols,
			Rows: []engine.DisplayRow{
				{Index: 0, Cells: []engine.Cell{{Key: "region", Text: "East"}, {Key: "m2r", Text: "15"}}},
				{Index: 1, Cells: []engine.Cell{{Key: "region", Text: "West"}, {Key: "m2r", Text: "7"}}},
			},
			Footer: &engine.DisplayRow{Cells: []engine.Cell{{Key: "region", Text: ""}, {Key: "m2r", Text: "22"}}},
		},
		{Table: "By/Status", Columns: cols, Empty: true},
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, WriteFile(results(), path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Sales", "By_Status"}, f.GetSheetList())

	rows, err := f.GetRows("Sales")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"region", "m2r"}, {"East", "15"}, {"West", "7"}, {"", "22"}}, rows)

	rows, err = f.GetRows("By_Status")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"region", "m2r"}, {NoDataText}}, rows)

	styleID, err := f.GetCellStyle("Sales", "B4")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(results(), &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Len(t, f.GetSheetList(), 2)
}

func TestSheetName(t *testing.T) {
	used := map[string]bool{}

	assert.Equal(t, "Sales", SheetName("Sales", used))
	assert.Equal(t, "sales_2", SheetName("sales", used))
	assert.Equal(t, "a_b_c", SheetName("a:b?c", used))
	assert.Equal(t, "Table", SheetName("  ", used))

	long := strings.Repeat("x", 40)
	assert.Equal(t, strings.Repeat("x", 31), SheetName(long, used))
	assert.Equal(t, strings.Repeat("x", 29)+"_2", SheetName(long, used))
}
