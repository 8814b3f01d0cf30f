package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List the option values of every selection control",
	Long: `The options command prints, for each filter binding, the values a
selection control would offer: the All entry followed by the distinct
values of the bound column among rows passing the table's static filters.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context(), cfgFile, verbose)
		if err != nil {
			return err
		}
		return runOptions(s, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(optionsCmd)
}

func runOptions(s *session, out io.Writer) error {
	for _, b := range s.cfg.Filters {
		choices, err := s.dash.FilterOptions(b)
		if err != nil {
			s.logger.Warn("options skipped", "select", b.Select, "error", err)
			continue
		}

		kind := ""
		if b.Static {
			kind = " static"
		}
		fmt.Fprintf(out, "%s (%s.%s%s):\n", b.Select, b.Table, b.Column, kind)
		for _, c := range choices {
			fmt.Fprintf(out, "  %s\n", c.Label)
		}
	}
	return nil
}
