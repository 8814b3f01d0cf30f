// =============================================================================
// CSV Table Dashboards - Data Store
// =============================================================================
//
// The Data Store holds the loaded source table and its header index. It is
// the single source of truth for every table of a dashboard.
//
// SOURCE LOCATORS:
//   - Inline CSV text
//   - A local CSV file path
//   - An http(s) URL, fetched with the caller's context
//   - A .xlsx path or URL, read through the XLSX parser
//
// A failed load leaves the previously loaded table in place.
//
// =============================================================================

package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/ginjaninja78/csvtable/internal/csvparser"
	"github.com/ginjaninja78/csvtable/internal/xlsxparser"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrSourceMissing is returned when no source is configured.
	ErrSourceMissing = errors.New("source not configured")

	// ErrSourceUnavailable is returned when a source cannot be read or fetched.
	ErrSourceUnavailable = errors.New("source unavailable")
)

// =============================================================================
// LOCATOR
// =============================================================================

// Locator identifies where the source data comes from. Inline wins over Path.
type Locator struct {
	// Inline is CSV text embedded in the configuration.
	Inline string `yaml:"inline"`

	// Path is a local file path or an http(s) URL.
	Path string `yaml:"path"`

	// Sheet selects the worksheet of an XLSX source. Empty means the first.
	Sheet string `yaml:"sheet"`
}

// IsZero reports whether the locator names no source at all.
func (l Locator) IsZero() bool {
	return strings.TrimSpace(l.Inline) == "" && strings.TrimSpace(l.Path) == ""
}

// IsRemote reports whether Path is an http(s) URL.
func (l Locator) IsRemote() bool {
	p := strings.ToLower(strings.TrimSpace(l.Path))
	return strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://")
}

// IsXLSX reports whether Path points at a spreadsheet.
func (l Locator) IsXLSX() bool {
	p := strings.TrimSpace(l.Path)
	if i := strings.IndexAny(p, "?#"); i != -1 && l.IsRemote() {
		p = p[:i]
	}
	return strings.EqualFold(path.Ext(p), ".xlsx")
}

// String describes the locator for log output.
func (l Locator) String() string {
	if strings.TrimSpace(l.Inline) != "" {
		return "inline"
	}
	return l.Path
}

// =============================================================================
// STORE
// =============================================================================

// Store holds the source table and its header index.
type Store struct {
	table  *csvparser.Table
	index  map[string]int
	client *http.Client
}

// New creates an empty Store. A nil client uses http.DefaultClient.
func New(client *http.Client) *Store {
	if client == nil {
		client = http.DefaultClient
	}
	s := &Store{client: client}
	s.Replace(&csvparser.Table{Headers: []string{}, Rows: [][]string{}})
	return s
}

// Load reads the source named by loc and replaces the stored table.
//
// PARAMETERS:
//   - ctx: Governs remote fetches.
//   - loc: The source locator.
//
// RETURNS:
//   - ErrSourceMissing if loc is empty.
//   - An error wrapping ErrSourceUnavailable if the source cannot be read.
func (s *Store) Load(ctx context.Context, loc Locator) error {
	if loc.IsZero() {
		return ErrSourceMissing
	}

	table, err := s.read(ctx, loc)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, loc, err)
	}

	s.Replace(table)
	return nil
}

// read dispatches on the locator kind.
func (s *Store) read(ctx context.Context, loc Locator) (*csvparser.Table, error) {
	if strings.TrimSpace(loc.Inline) != "" {
		return csvparser.Parse(loc.Inline), nil
	}

	p := strings.TrimSpace(loc.Path)

	if !loc.IsRemote() {
		if loc.IsXLSX() {
			return xlsxparser.Parse(p, loc.Sheet)
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		return csvparser.Parse(string(data)), nil
	}

	data, err := s.fetch(ctx, p)
	if err != nil {
		return nil, err
	}
	if loc.IsXLSX() {
		return xlsxparser.ParseReader(bytes.NewReader(data), loc.Sheet)
	}
	return csvparser.Parse(string(data)), nil
}

// fetch performs a GET request and returns the body of a 2xx response.
func (s *Store) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	return io.ReadAll(resp.Body)
}

// Replace installs table as the source and rebuilds the header index.
// Duplicate headers resolve to their last position.
func (s *Store) Replace(table *csvparser.Table) {
	index := make(map[string]int, len(table.Headers))
	for i, h := range table.Headers {
		index[h] = i
	}
	s.table = table
	s.index = index
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Headers returns the source headers in column order.
func (s *Store) Headers() []string {
	return s.table.Headers
}

// Rows returns the source rows.
func (s *Store) Rows() [][]string {
	return s.table.Rows
}

// Index returns the column position of header.
func (s *Store) Index(header string) (int, bool) {
	i, ok := s.index[header]
	return i, ok
}

// HasHeader reports whether header exists in the source.
func (s *Store) HasHeader(header string) bool {
	_, ok := s.index[header]
	return ok
}

// Value returns the field of row under header, or "" if the header is
// unknown.
func (s *Store) Value(row []string, header string) string {
	i, ok := s.index[header]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// Snapshot returns a header->value map of every source field of row.
func (s *Store) Snapshot(row []string) map[string]string {
	out := make(map[string]string, len(s.index))
	for h := range s.index {
		out[h] = s.Value(row, h)
	}
	return out
}
