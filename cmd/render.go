// =============================================================================
// CSV Table Dashboards - Render Command
// =============================================================================
//
// This file defines the 'render' command, which runs the dashboard pipeline
// and prints or exports the result.
//
// COMMAND USAGE:
//   csvtable render [flags]
//
// FLAGS:
//   --table     : Render only the named table (repeatable)
//   --select    : Set a selection control, id=value (repeatable)
//   --click     : Replay a header click, Table=columnIndex (repeatable, in order)
//   --format    : text (stdout), xml or xlsx (written to output_dir)
//   --template  : Resolve {Table:Key} tags in a text file and print it
//
// RENDER SEQUENCE:
//   1. Load the dashboard file and the source
//   2. Apply selections
//   3. Replay header clicks in order
//   4. Render the requested tables
//   5. Print or export, then resolve the template if one is given
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/csvtable/internal/engine"
	"github.com/ginjaninja78/csvtable/internal/textwriter"
	"github.com/ginjaninja78/csvtable/internal/xlsxwriter"
	"github.com/ginjaninja78/csvtable/internal/xmlwriter"
	"github.com/ginjaninja78/csvtable/pkg/utils"
)

// Output formats.
const (
	formatText = "text"
	formatXML  = "xml"
	formatXLSX = "xlsx"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// renderOptions holds the render flags.
type renderOptions struct {
	tables   []string
	selects  []string
	clicks   []string
	format   string
	template string
}

var renderOpts renderOptions

// =============================================================================
// RENDER COMMAND DEFINITION
// =============================================================================

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render dashboard tables",
	Long: `The render command loads the dashboard source, applies selections and
replayed sort clicks, and renders every table (or those named with --table).

Text output goes to stdout. XML and XLSX exports are written to output_dir
using output_name_format, together with an export summary.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context(), cfgFile, verbose)
		if err != nil {
			return err
		}
		return runRender(s, renderOpts, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringArrayVar(&renderOpts.tables, "table", nil, "Render only this table (repeatable)")
	renderCmd.Flags().StringArrayVar(&renderOpts.selects, "select", nil, "Selection control value as id=value (repeatable)")
	renderCmd.Flags().StringArrayVar(&renderOpts.clicks, "click", nil, "Header click as Table=columnIndex, replayed in order (repeatable)")
	renderCmd.Flags().StringVar(&renderOpts.format, "format", formatText, "Output format: text, xml or xlsx")
	renderCmd.Flags().StringVar(&renderOpts.template, "template", "", "Text file whose {Table:Key} tags are resolved after rendering")
}

// =============================================================================
// MAIN RENDER FUNCTION
// =============================================================================

// click is one parsed --click flag.
type click struct {
	table  string
	column int
}

func runRender(s *session, opts renderOptions, out io.Writer) error {
	start := time.Now()

	switch opts.format {
	case formatText, formatXML, formatXLSX:
	default:
		return fmt.Errorf("unknown format %q", opts.format)
	}

	selections, err := parseSelections(opts.selects)
	if err != nil {
		return err
	}
	clicks, err := parseClicks(opts.clicks)
	if err != nil {
		return err
	}

	for id, value := range selections {
		s.selections[id] = value
	}

	// =========================================================================
	// STEP 3: REPLAY CLICKS
	// =========================================================================

	for _, c := range clicks {
		if _, err := s.dash.ToggleSort(c.table, c.column); err != nil {
			return fmt.Errorf("click %s=%d: %w", c.table, c.column, err)
		}
	}

	// =========================================================================
	// STEP 4: RENDER
	// =========================================================================

	names := opts.tables
	if len(names) == 0 {
		names = s.dash.TableNames()
	}

	var results []*engine.Result
	var failed []utils.FailedTable
	var errs []error
	for _, name := range names {
		res, err := s.dash.Render(name)
		if err != nil {
			failed = append(failed, utils.FailedTable{Table: name, ErrorMessage: err.Error()})
			errs = append(errs, err)
			continue
		}
		results = append(results, res)
	}

	// =========================================================================
	// STEP 5: OUTPUT
	// =========================================================================

	switch opts.format {
	case formatText:
		if err := textwriter.Write(out, results); err != nil {
			return err
		}
	default:
		if err := export(s, opts.format, results, failed, start, out); err != nil {
			return err
		}
	}

	if opts.template != "" {
		text, err := os.ReadFile(opts.template)
		if err != nil {
			return fmt.Errorf("failed to read template: %w", err)
		}
		fmt.Fprint(out, s.dash.ResolveTags(string(text), engine.NoRow))
	}

	return errors.Join(errs...)
}

// export writes results as one XML or XLSX file plus a run summary.
func export(s *session, format string, results []*engine.Result, failed []utils.FailedTable, start time.Time, out io.Writer) error {
	fm := utils.NewFileManager(s.cfg.OutputDir, s.cfg.OutputNameFormat)
	if err := fm.EnsureDirectories(); err != nil {
		return err
	}

	name := "dashboard"
	if len(results) == 1 {
		name = results[0].Table
	}

	var path string
	switch format {
	case formatXML:
		written, err := fm.WriteOutput(name, format, xmlwriter.Generate(results))
		if err != nil {
			return err
		}
		path = written
	case formatXLSX:
		path = fm.OutputPath(name, format)
		if err := xlsxwriter.WriteFile(results, path); err != nil {
			return err
		}
	}

	summary := utils.RunSummary{
		StartTime: start,
		EndTime:   time.Now(),
		Source:    s.cfg.Source.String(),
		Format:    format,
		Failed:    failed,
	}
	for _, res := range results {
		summary.Exported = append(summary.Exported, utils.ExportedTable{
			Table:      res.Table,
			OutputFile: path,
			Rows:       len(res.Rows),
		})
	}
	if _, err := fm.WriteSummaryLog(summary); err != nil {
		s.logger.Warn("summary log not written", "error", err)
	}

	s.logger.Info("dashboard exported", "path", path, "tables", len(results), "failed", len(failed))
	fmt.Fprintln(out, path)
	return nil
}

// =============================================================================
// FLAG PARSING
// =============================================================================

// parseSelections parses id=value pairs. The value may be empty.
func parseSelections(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		id, value, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("invalid --select %q: want id=value", p)
		}
		out[strings.TrimSpace(id)] = value
	}
	return out, nil
}

// parseClicks parses Table=columnIndex pairs, keeping their order.
func parseClicks(pairs []string) ([]click, error) {
	out := make([]click, 0, len(pairs))
	for _, p := range pairs {
		table, idx, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(table) == "" {
			return nil, fmt.Errorf("invalid --click %q: want Table=columnIndex", p)
		}
		n, err := strconv.Atoi(strings.TrimSpace(idx))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid --click %q: column index must be a non-negative integer", p)
		}
		out = append(out, click{table: strings.TrimSpace(table), column: n})
	}
	return out, nil
}
