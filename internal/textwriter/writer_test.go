package textwriter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/csvtable/internal/engine"
	"github.com/ginjaninja78/csvtable/internal/types"
)

var columns = []types.ColumnSpec{{Key: "region"}, {Key: "m2r", Type: types.TypeNumber}}

func TestRender(t *testing.T) {
	res := &engine.Result{
		Table:   "Sales",
		Columns: columns,
		Rows: []engine.DisplayRow{
			{Index: 0, Cells: []engine.Cell{{Key: "region", Text: "East"}, {Key: "m2r", Text: "15"}}},
			{Index: 1, Cells: []engine.Cell{{Key: "region", Text: "West"}, {Key: "m2r", Text: "7"}}},
		},
		Footer: &engine.DisplayRow{Cells: []engine.Cell{{Key: "region", Text: ""}, {Key: "m2r", Text: "22"}}},
	}

	out := Render(res)
	lines := strings.Split(out, "\n")

	assert.Contains(t, lines[0], "Sales")
	assert.Contains(t, out, "region")
	assert.Contains(t, out, "East")
	assert.Contains(t, out, "22")
	assert.Less(t, strings.Index(out, "East"), strings.Index(out, "West"))
	assert.Less(t, strings.Index(out, "West"), strings.Index(out, "22"))
	assert.NotContains(t, out, NoDataText)
}

func TestRender_Empty(t *testing.T) {
	out := Render(&engine.Result{Table: "Empty", Columns: columns, Empty: true})
	assert.Contains(t, out, NoDataText)
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []*engine.Result{
		{Table: "A", Columns: columns, Empty: true},
		{Table: "B", Columns: columns, Empty: true},
	}))

	out := buf.String()
	assert.Contains(t, out, "A\n")
	assert.Contains(t, out, "\n\nB\n")
	assert.True(t, strings.HasSuffix(out, "\n"))
}
