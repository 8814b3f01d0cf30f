// =============================================================================
// CSV Table Dashboards - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (csvtable)
//   ├── renderCmd (csvtable render)
//   ├── validateCmd (csvtable validate)
//   ├── optionsCmd (csvtable options)
//   └── versionCmd (csvtable version)
//
// The root command owns the global flags (--config, --verbose). Logging is
// configured from the dashboard file once it is loaded.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the dashboard configuration file.
var cfgFile string

// verbose forces debug logging when set.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "csvtable",
	Short: "CSV Table Dashboards - Render declarative tables from CSV data",
	Long: `csvtable renders tabular dashboards from a CSV (or XLSX) source using a
compact mini-language for column mapping, grouping, aggregation, filtering,
sorting and locale-aware number formatting.

Key Features:
  - Declarative tables in a single YAML dashboard file
  - Grouping with sum, count, mean, min, max, nunique and first
  - Selection-control filters and header-click sort replay
  - Export to terminal tables, XML or XLSX

Example Usage:
  csvtable render                               # Render every table
  csvtable render --table Sales --select region=East
  csvtable render --click Sales=1 --format xlsx
  csvtable validate --config ./dashboard.yaml   # Check tables against the source`,

	SilenceUsage: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"dashboard.yaml",
		"Path to the dashboard configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}
