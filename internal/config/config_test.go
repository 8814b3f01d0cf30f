package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/csvtable/internal/types"
)

const sampleConfig = `
source: data.csv
locale: fr-CA
tables:
  Zeta:
    columns: "region: Region"
  Alpha:
    columns: "col1: Region [type:text]; col2: m2r [type:number; decimals:0]"
    static_filters: "Status<>Closed"
    group_by: Region
    agg: "m2r: sum"
    tfoot: true
    locale: en-US
    sort_types: [text, number]
filters:
  - {table: Alpha, select: region_select, column: Region}
  - {table: Alpha, select: year_select, column: Year, static: true}
formatters:
  status: 'value > 12 ? "Critical" : "OK"'
`

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dashboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "data.csv"), cfg.Source.Path)
	assert.Equal(t, "fr-CA", cfg.Locale)
	assert.Equal(t, []string{"Zeta", "Alpha"}, cfg.Tables.Names())

	alpha, ok := cfg.Tables.Lookup("Alpha")
	require.True(t, ok)
	assert.Equal(t, "Region", alpha.GroupBy)
	assert.True(t, alpha.TFoot)
	assert.Equal(t, "en-US", alpha.Locale)
	assert.Equal(t, []string{"text", "number"}, alpha.SortTypes)
	assert.Equal(t, "Status<>Closed", alpha.StaticFilters)

	assert.Equal(t, []types.Binding{
		{Table: "Alpha", Select: "region_select", Column: "Region"},
		{Table: "Alpha", Select: "year_select", Column: "Year", Static: true},
	}, cfg.Filters)
	assert.Contains(t, cfg.Formatters, "status")

	// Defaults.
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultLogFormat, cfg.LogFormat)
	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
	assert.Equal(t, DefaultOutputNameFormat, cfg.OutputNameFormat)
}

func TestParse_SourceForms(t *testing.T) {
	tests := []struct {
		name       string
		yaml       string
		wantPath   string
		wantInline string
		wantSheet  string
	}{
		{"url stays remote", "source: https://example.com/d.csv", "https://example.com/d.csv", "", ""},
		{"absolute path", "source: /data/d.csv", "/data/d.csv", "", ""},
		{"relative path", "source: d.csv", filepath.Join("base", "d.csv"), "", ""},
		{"inline mapping", "source:\n  inline: \"a,b\\n1,2\"", "", "a,b\n1,2", ""},
		{"xlsx mapping", "source:\n  path: /d.xlsx\n  sheet: Data", "/d.xlsx", "", "Data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.yaml+"\ntables:\n  T:\n    columns: \"a: A\"\n"), "base")
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, cfg.Source.Path)
			assert.Equal(t, tt.wantInline, cfg.Source.Inline)
			assert.Equal(t, tt.wantSheet, cfg.Source.Sheet)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"no tables", "source: d.csv", "no tables defined"},
		{"empty columns", "tables:\n  T:\n    group_by: x", `table "T": columns are required`},
		{"duplicate table", "tables:\n  T:\n    columns: \"a: A\"\n  T:\n    columns: \"b: B\"", `"T"`},
		{"tables not a mapping", "tables: [a, b]", "tables must be a mapping"},
		{"source list", "source: [a]\ntables:\n  T:\n    columns: \"a: A\"", "source must be"},
		{"bad log format", "log_format: xml\ntables:\n  T:\n    columns: \"a: A\"", "unknown log_format"},
		{"bad log level", "log_level: loud\ntables:\n  T:\n    columns: \"a: A\"", "unknown log_level"},
		{"incomplete filter", "tables:\n  T:\n    columns: \"a: A\"\nfilters:\n  - {table: T}", "filter 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml), "")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}
