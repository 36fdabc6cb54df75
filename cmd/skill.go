package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/tbrite/internal/report"
)

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Manage reading skills",
}

var skillListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all skills",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		skills, err := st.SkillRepo().List(cmd.Context())
		if err != nil {
			return err
		}
		if search, _ := cmd.Flags().GetString("search"); search != "" {
			search = strings.ToLower(search)
			n := 0
			for _, s := range skills {
				if strings.Contains(strings.ToLower(s.Title), search) || strings.Contains(strings.ToLower(s.ID), search) {
					skills[n] = s
					n++
				}
			}
			skills = skills[:n]
		}

		t := report.Table{Title: fmt.Sprintf("Skills (%d)", len(skills)), Headers: []string{"ID", "Title"}}
		for _, s := range skills {
			t.Rows = append(t.Rows, []string{s.ID, s.Title})
		}
		return printReport(cmd, t, skills)
	},
}

var skillDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a skill; its materials report under the unknown skill",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.SkillRepo().Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted skill %s\n", args[0])
		return nil
	},
}

func init() {
	skillListCmd.Flags().String("search", "", "Only list skills whose ID or title contains this text")
	addFormatFlag(skillListCmd)

	skillCmd.AddCommand(skillListCmd)
	skillCmd.AddCommand(skillDeleteCmd)
}
