// =============================================================================
// CSV Table Dashboards - Configuration Module
// =============================================================================
//
// This module loads the dashboard configuration file. One file describes one
// dashboard: its data source, its tables, the selection controls bound to
// them, and any named expression formatters.
//
// EXAMPLE:
//   source: ./data.csv
//   locale: en-CA
//   tables:
//     SummaryByRegion:
//       columns: "col1: Region; col2: m2r [type:number; decimals:0]"
//       group_by: Region
//       tfoot: true
//   filters:
//     - {table: SummaryByRegion, select: region_select, column: Region}
//   formatters:
//     status: 'value > 12 ? "Critical" : "OK"'
//
// Tables keep the order in which they are declared in the file.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/csvtable/internal/logging"
	"github.com/ginjaninja78/csvtable/internal/store"
	"github.com/ginjaninja78/csvtable/internal/types"
)

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	DefaultLocale           = "en-CA"
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
	DefaultOutputDir        = "./output"
	DefaultOutputNameFormat = "{table}_{uuid}"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config is one dashboard configuration.
type Config struct {
	// =========================================================================
	// DATA SOURCE
	// =========================================================================

	// Source locates the CSV or XLSX data. In YAML it is either a scalar path
	// or URL, or a mapping with inline, path and sheet keys.
	Source Source `yaml:"source"`

	// =========================================================================
	// FORMATTING
	// =========================================================================

	// Locale is the dashboard-wide default locale.
	// Default: "en-CA"
	Locale string `yaml:"locale"`

	// Formatters maps formatter names to expressions over `value`.
	Formatters map[string]string `yaml:"formatters"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat selects the log handler: "text" or "json".
	// Default: "text"
	LogFormat string `yaml:"log_format"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputDir is where exported files are written.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// OutputNameFormat defines export file names without extension.
	// Placeholders:
	//   {table}     - Table name
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	// Default: "{table}_{uuid}"
	OutputNameFormat string `yaml:"output_name_format"`

	// =========================================================================
	// TABLES AND FILTERS
	// =========================================================================

	// Tables are the table definitions in declaration order.
	Tables Tables `yaml:"tables"`

	// Filters bind selection controls to table columns.
	Filters []types.Binding `yaml:"filters"`
}

// Source is the YAML form of a store.Locator.
type Source struct {
	store.Locator
}

// UnmarshalYAML accepts a scalar path or URL, or a locator mapping.
func (s *Source) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		s.Locator = store.Locator{Path: strings.TrimSpace(node.Value)}
		return nil
	case yaml.MappingNode:
		return node.Decode(&s.Locator)
	default:
		return fmt.Errorf("line %d: source must be a path, URL or mapping", node.Line)
	}
}

// Table is one named table definition.
type Table struct {
	Name string
	types.TableDef
}

// Tables is an ordered list of table definitions decoded from a YAML
// mapping of name to definition.
type Tables []Table

// UnmarshalYAML decodes the tables mapping, preserving key order.
func (t *Tables) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: tables must be a mapping of name to definition", node.Line)
	}

	seen := make(map[string]bool, len(node.Content)/2)
	out := make(Tables, 0, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		name := keyNode.Value
		if seen[name] {
			return fmt.Errorf("line %d: duplicate table %q", keyNode.Line, name)
		}
		seen[name] = true

		var def types.TableDef
		if err := valueNode.Decode(&def); err != nil {
			return fmt.Errorf("table %q: %w", name, err)
		}
		out = append(out, Table{Name: name, TableDef: def})
	}

	*t = out
	return nil
}

// Names returns the table names in declaration order.
func (t Tables) Names() []string {
	names := make([]string, len(t))
	for i, tbl := range t {
		names[i] = tbl.Name
	}
	return names
}

// Lookup returns the table with name.
func (t Tables) Lookup(name string) (Table, bool) {
	for _, tbl := range t {
		if tbl.Name == name {
			return tbl, true
		}
	}
	return Table{}, false
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Load loads a dashboard configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file.
//
// RETURNS:
//   - A pointer to the Config struct. Relative local source paths are
//     resolved against the directory of configPath.
//   - An error if the file cannot be read, parsed or validated.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data, filepath.Dir(configPath))
}

// Parse parses configuration data. baseDir anchors relative source paths;
// empty leaves them as they are.
func Parse(data []byte, baseDir string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)
	resolveSource(&cfg, baseDir)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.Locale == "" {
		cfg.Locale = DefaultLocale
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}
	if cfg.OutputNameFormat == "" {
		cfg.OutputNameFormat = DefaultOutputNameFormat
	}
}

func resolveSource(cfg *Config, baseDir string) {
	loc := &cfg.Source.Locator
	if baseDir == "" || loc.Path == "" || loc.IsRemote() || filepath.IsAbs(loc.Path) {
		return
	}
	loc.Path = filepath.Join(baseDir, loc.Path)
}

// validate rejects configurations that cannot produce a dashboard. Softer
// problems, such as bindings to unknown columns, are reported by the
// validation package after the source is loaded.
func validate(cfg *Config) error {
	var errs []error

	if len(cfg.Tables) == 0 {
		errs = append(errs, errors.New("no tables defined"))
	}
	for _, tbl := range cfg.Tables {
		if strings.TrimSpace(tbl.Name) == "" {
			errs = append(errs, errors.New("table with empty name"))
		}
		if strings.TrimSpace(tbl.Columns) == "" {
			errs = append(errs, fmt.Errorf("table %q: columns are required", tbl.Name))
		}
	}
	for i, b := range cfg.Filters {
		if b.Table == "" || b.Select == "" || b.Column == "" {
			errs = append(errs, fmt.Errorf("filter %d: table, select and column are required", i))
		}
	}
	if !logging.ValidLevel(cfg.LogLevel) {
		errs = append(errs, fmt.Errorf("unknown log_level %q", cfg.LogLevel))
	}
	switch strings.ToLower(cfg.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log_format %q", cfg.LogFormat))
	}

	return errors.Join(errs...)
}
