package utils

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixed = time.Date(2024, 1, 31, 15, 45, 0, 0, time.UTC)

func TestGenerateName(t *testing.T) {
	tests := []struct {
		name   string
		format string
		ext    string
		want   string
	}{
		{"table and timestamp", "{table}_{timestamp}", "xml", "Sales_20240131_154500.xml"},
		{"date and time", "{date}-{time}", "xlsx", "20240131-154500.xlsx"},
		{"extension kept", "{table}.XML", "xml", "Sales.XML"},
		{"no extension", "{table}", "", "Sales"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := generateName(tt.format, tt.ext, map[string]string{"table": "Sales"}, fixed)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateName_UUIDs(t *testing.T) {
	got := generateName("{uuid}_{uuid}", "txt", nil, fixed)

	uuidRe := `[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`
	m := regexp.MustCompile(`^(` + uuidRe + `)_(` + uuidRe + `)\.txt$`).FindStringSubmatch(got)
	require.NotNil(t, m, got)
	assert.NotEqual(t, m[1], m[2])
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "a_b_c_d", SanitizeFileName("a/b\\c:d"))
	assert.Equal(t, "Sales 2024", SanitizeFileName("Sales 2024"))
}

func TestFileManager_WriteOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	fm := NewFileManager(dir, "{table}_{timestamp}")
	fm.now = func() time.Time { return fixed }

	require.NoError(t, fm.EnsureDirectories())

	path, err := fm.WriteOutput("By/Region", "xml", []byte("<dashboard/>"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "By_Region_20240131_154500.xml"), path)
	assert.True(t, FileExists(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<dashboard/>", string(data))
}

func TestFileManager_WriteSummaryLog(t *testing.T) {
	fm := NewFileManager(t.TempDir(), "{table}")
	fm.now = func() time.Time { return fixed }

	path, err := fm.WriteSummaryLog(RunSummary{
		StartTime: fixed,
		EndTime:   fixed.Add(2 * time.Second),
		Source:    "data.csv",
		Format:    "xml",
		Exported:  []ExportedTable{{Table: "Sales", OutputFile: "Sales.xml", Rows: 2}},
		Failed:    []FailedTable{{Table: "Broken", ErrorMessage: "render failed"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "export_summary_20240131_154500.txt", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "Duration:       2s")
	assert.Contains(t, out, "Exported:       1")
	assert.Contains(t, out, "Table:  Sales")
	assert.Contains(t, out, "Error: render failed")
}
