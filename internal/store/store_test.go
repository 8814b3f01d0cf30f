package store

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/csvtable/internal/csvparser"
)

const sample = "Region,m2r\nEast,10\nWest,7\n"

func TestLoad_Inline(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.Load(context.Background(), Locator{Inline: sample}))

	assert.Equal(t, []string{"Region", "m2r"}, s.Headers())
	assert.Len(t, s.Rows(), 2)

	i, ok := s.Index("m2r")
	assert.True(t, ok)
	assert.Equal(t, 1, i)
	assert.False(t, s.HasHeader("Year"))
}

func TestLoad_InlineWithBOM(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.Load(context.Background(), Locator{Inline: "\uFEFF" + sample}))

	assert.Equal(t, []string{"Region", "m2r"}, s.Headers())
	assert.True(t, s.HasHeader("Region"))
	assert.Equal(t, "East", s.Value(s.Rows()[0], "Region"))
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	s := New(nil)
	require.NoError(t, s.Load(context.Background(), Locator{Path: path}))
	assert.Equal(t, [][]string{{"East", "10"}, {"West", "7"}}, s.Rows())
}

func TestLoad_XLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Region", "m2r"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"East", 10}))
	path := filepath.Join(t.TempDir(), "data.xlsx")
	require.NoError(t, f.SaveAs(path))

	s := New(nil)
	require.NoError(t, s.Load(context.Background(), Locator{Path: path}))
	assert.Equal(t, [][]string{{"East", "10"}}, s.Rows())
}

func TestLoad_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.csv" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(sample))
	}))
	defer srv.Close()

	s := New(srv.Client())
	require.NoError(t, s.Load(context.Background(), Locator{Path: srv.URL + "/data.csv"}))
	assert.Len(t, s.Rows(), 2)

	err := s.Load(context.Background(), Locator{Path: srv.URL + "/missing.csv"})
	require.ErrorIs(t, err, ErrSourceUnavailable)

	// The previous table survives a failed load.
	assert.Len(t, s.Rows(), 2)
}

func TestLoad_Errors(t *testing.T) {
	s := New(nil)

	assert.ErrorIs(t, s.Load(context.Background(), Locator{}), ErrSourceMissing)
	assert.ErrorIs(t, s.Load(context.Background(), Locator{Path: filepath.Join(t.TempDir(), "none.csv")}), ErrSourceUnavailable)
	assert.Empty(t, s.Headers())
}

func TestLocator(t *testing.T) {
	assert.True(t, Locator{Path: "https://example.com/a.xlsx?x=1"}.IsXLSX())
	assert.True(t, Locator{Path: "HTTP://example.com/a.csv"}.IsRemote())
	assert.False(t, Locator{Path: "./a.csv"}.IsRemote())
	assert.Equal(t, "inline", Locator{Inline: "a"}.String())
}

func TestValueAndSnapshot(t *testing.T) {
	s := New(nil)
	s.Replace(csvparser.Parse(sample))

	row := s.Rows()[0]
	assert.Equal(t, "East", s.Value(row, "Region"))
	assert.Equal(t, "", s.Value(row, "Missing"))
	assert.Equal(t, map[string]string{"Region": "East", "m2r": "10"}, s.Snapshot(row))
}
