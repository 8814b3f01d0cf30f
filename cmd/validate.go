// =============================================================================
// CSV Table Dashboards - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which loads the dashboard file
// and the source and reports every configuration problem without rendering.
//
// COMMAND USAGE:
//   csvtable validate [--log file]
//
// EXIT STATUS:
//   Non-zero when any diagnostic has error severity. Warnings alone pass.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/csvtable/internal/validation"
)

// validateLog is an optional file receiving the formatted diagnostics.
var validateLog string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the dashboard configuration against the source",
	Long: `The validate command loads the dashboard file and its source, then checks
every table and filter binding: missing source headers, group_by and
aggregation targets, unknown aggregation and format names, locales, sort
types, and bindings to unknown tables or columns.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context(), cfgFile, verbose)
		if err != nil {
			return err
		}
		return runValidate(s, validateLog, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateLog, "log", "", "Also write diagnostics to this file")
}

func runValidate(s *session, logPath string, out io.Writer) error {
	result := validation.Validate(s.dash.Store().Headers(), s.cfg, s.dash.Formatter())

	for _, e := range result.Errors {
		s.logger.Debug("validation diagnostic", "table", e.Table, "rule", e.Rule, "severity", e.Severity)
	}

	fmt.Fprint(out, validation.FormatErrors(result.Errors))
	fmt.Fprintf(out, "\nTables: %d  Errors: %d  Warnings: %d\n",
		result.TablesValidated, result.ErrorCount, result.WarningCount)

	if logPath != "" {
		if err := validation.WriteErrorLog(result.Errors, logPath); err != nil {
			return err
		}
	}

	if !result.IsValid {
		return fmt.Errorf("configuration has %d error(s)", result.ErrorCount)
	}
	return nil
}
