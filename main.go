// =============================================================================
// CSV Table Dashboards - Main Entry Point
// =============================================================================
//
// This is the main entry point for the csvtable CLI application. It delegates
// command execution to the cmd package.
//
// USAGE:
//   csvtable render      - Render dashboard tables to text, XML or XLSX
//   csvtable validate    - Check the dashboard file against its source
//   csvtable options     - List selection control options
//   csvtable version     - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Pipeline, parsers, formatting and exporters
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/csvtable/cmd"
)

func main() {
	cmd.Execute()
}
