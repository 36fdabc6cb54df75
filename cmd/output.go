package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/tbrite/internal/report"
)

func addFormatFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", "table", "Output format: table, csv or json")
}

// printReport writes t in the requested format. JSON output encodes data,
// the values t was built from.
func printReport(cmd *cobra.Command, t report.Table, data any) error {
	format, _ := cmd.Flags().GetString("format")
	out := cmd.OutOrStdout()
	switch format {
	case "", "table":
		_, err := fmt.Fprintln(out, report.RenderTable(t, 0))
		return err
	case "csv":
		s, err := report.TableCSV(t)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(out, s)
		return err
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	default:
		return fmt.Errorf("unknown format %q (want table, csv or json)", format)
	}
}
