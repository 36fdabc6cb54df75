package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/tbrite/internal/report"
)

var progressCmd = &cobra.Command{
	Use:   "progress <student-id>",
	Short: "Show one student's progress dashboard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, cfg, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()
		svc, err := loadService(cmd, st, cfg)
		if err != nil {
			return err
		}

		p, err := svc.StudentProgress(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(p)
		}
		fmt.Fprintln(out, report.RenderTable(report.PhaseProgressTable("Progress for "+p.StudentID, p), 0))
		fmt.Fprintln(out, report.RenderTable(report.SkillProgressTable("Skills", p), 0))
		fmt.Fprintln(out, report.RenderTable(report.ProgressTable("History", p), 0))
		return nil
	},
}

func init() {
	progressCmd.Flags().Bool("json", false, "Print JSON instead of tables")
}
