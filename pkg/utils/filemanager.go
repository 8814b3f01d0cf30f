// =============================================================================
// CSV Table Dashboards - File Manager Utility
// =============================================================================
//
// This module provides file management for exported dashboards:
//   - Output directory creation
//   - Output file naming from a placeholder format
//   - Writing exports and a run summary next to them
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager writes export files into one output directory.
type FileManager struct {
	// OutputDir is where exports and summaries are written.
	OutputDir string

	// NameFormat is the file name format without extension. See
	// generateName for placeholders.
	NameFormat string

	// now is replaceable in tests.
	now func() time.Time
}

// NewFileManager creates a new FileManager.
func NewFileManager(outputDir, nameFormat string) *FileManager {
	return &FileManager{
		OutputDir:  outputDir,
		NameFormat: nameFormat,
		now:        time.Now,
	}
}

// EnsureDirectories creates the output directory if it doesn't exist.
func (fm *FileManager) EnsureDirectories() error {
	if err := os.MkdirAll(fm.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fm.OutputDir, err)
	}
	return nil
}

// WriteOutput writes data to a new file named for table with extension ext
// and returns its path.
func (fm *FileManager) WriteOutput(table, ext string, data []byte) (string, error) {
	path := fm.OutputPath(table, ext)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// OutputPath returns a fresh output path for table with extension ext.
func (fm *FileManager) OutputPath(table, ext string) string {
	name := generateName(fm.NameFormat, ext, map[string]string{"table": SanitizeFileName(table)}, fm.now())
	return filepath.Join(fm.OutputDir, name)
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// generateName expands the placeholders of an output name format.
//
// PARAMETERS:
//   - format: The name format. Placeholders:
//       {uuid}      - A random UUID, fresh for every occurrence
//       {timestamp} - Timestamp of now (YYYYMMDD_HHMMSS)
//       {date}      - Date of now (YYYYMMDD)
//       {time}      - Time of now (HHMMSS)
//       {<key>}     - Any key of params
//   - ext: The extension to ensure, without the dot.
//   - params: Extra placeholder values.
//   - now: The time used for the date placeholders.
//
// EXAMPLE:
//   generateName("{table}_{timestamp}", "xml", map[string]string{"table": "Sales"}, now)
//   -> "Sales_20240131_154500.xml"
func generateName(format, ext string, params map[string]string, now time.Time) string {
	replacements := map[string]string{
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}
	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}
	for strings.Contains(result, "{uuid}") {
		result = strings.Replace(result, "{uuid}", uuid.NewString(), 1)
	}

	if ext != "" && !strings.HasSuffix(strings.ToLower(result), "."+strings.ToLower(ext)) {
		result += "." + ext
	}

	return result
}

// SanitizeFileName replaces path separators and characters that are invalid
// in file names on common platforms.
func SanitizeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(`/\:*?"<>|`, r) || r < 0x20 {
			return '_'
		}
		return r
	}, name)
}

// =============================================================================
// RUN SUMMARY
// =============================================================================

// RunSummary contains summary information about an export run.
type RunSummary struct {
	StartTime time.Time
	EndTime   time.Time
	Source    string
	Format    string
	Exported  []ExportedTable
	Failed    []FailedTable
}

// ExportedTable describes one successfully exported table.
type ExportedTable struct {
	Table      string
	OutputFile string
	Rows       int
}

// FailedTable describes a table that could not be rendered or written.
type FailedTable struct {
	Table        string
	ErrorMessage string
}

// WriteSummaryLog writes a run summary into the output directory.
//
// RETURNS:
//   - The path to the summary file.
//   - An error if writing fails.
func (fm *FileManager) WriteSummaryLog(summary RunSummary) (string, error) {
	name := fmt.Sprintf("export_summary_%s.txt", fm.now().Format("20060102_150405"))
	path := filepath.Join(fm.OutputDir, name)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	fmt.Fprintf(writer, "CSV Table Dashboards - Export Summary\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n"+
		"  Source:         %s\n"+
		"  Format:         %s\n\n"+
		"Statistics:\n"+
		"  Exported:       %d\n"+
		"  Failed:         %d\n\n",
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Sub(summary.StartTime).String(),
		summary.Source,
		summary.Format,
		len(summary.Exported),
		len(summary.Failed))

	if len(summary.Exported) > 0 {
		writer.WriteString("Exported Tables:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, et := range summary.Exported {
			fmt.Fprintf(writer, "  Table:  %s\n", et.Table)
			fmt.Fprintf(writer, "  Output: %s\n", et.OutputFile)
			fmt.Fprintf(writer, "  Rows:   %d\n\n", et.Rows)
		}
	}

	if len(summary.Failed) > 0 {
		writer.WriteString("Failed Tables:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, ft := range summary.Failed {
			fmt.Fprintf(writer, "  Table: %s\n", ft.Table)
			fmt.Fprintf(writer, "  Error: %s\n\n", ft.ErrorMessage)
		}
	}

	writer.WriteString("================================================================================\n" +
		"End of Summary\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}

	return path, nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
