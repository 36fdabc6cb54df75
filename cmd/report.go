package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/tbrite/internal/analytics"
	"github.com/abhisek/tbrite/internal/dashboard"
	"github.com/abhisek/tbrite/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print analytics reports",
}

// reportRunner opens the store, loads the dataset and hands the service to
// fn along with the parsed filter.
func reportRunner(fn func(cmd *cobra.Command, svc *dashboard.Service, f analytics.Filter) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		f, err := filterFromFlags(cmd)
		if err != nil {
			return err
		}
		st, cfg, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()
		svc, err := loadService(cmd, st, cfg)
		if err != nil {
			return err
		}
		return fn(cmd, svc, f)
	}
}

var reportSkillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Rank skills by share of the highest possible score",
	RunE: reportRunner(func(cmd *cobra.Command, svc *dashboard.Service, f analytics.Filter) error {
		rows := svc.SkillRanking(f)
		return printReport(cmd, report.SkillTable(report.PhaseTitle("Skill ranking", f.TestType), rows), rows)
	}),
}

var reportStudentsCmd = &cobra.Command{
	Use:   "students",
	Short: "Rank students by pre-test to post-test improvement",
	RunE: reportRunner(func(cmd *cobra.Command, svc *dashboard.Service, f analytics.Filter) error {
		rows := svc.StudentImprovement(f)
		return printReport(cmd, report.StudentTable(report.PhaseTitle("Student improvement", f.TestType), rows), rows)
	}),
}

var reportTimeCmd = &cobra.Command{
	Use:   "time",
	Short: "Average reading time per skill",
	RunE: reportRunner(func(cmd *cobra.Command, svc *dashboard.Service, f analytics.Filter) error {
		rows := svc.Timing(f)
		return printReport(cmd, report.TimeTable(report.PhaseTitle("Time per skill", f.TestType), rows), rows)
	}),
}

var reportSubmissionsCmd = &cobra.Command{
	Use:   "submissions",
	Short: "List scored submissions in export order",
	RunE: reportRunner(func(cmd *cobra.Command, svc *dashboard.Service, f analytics.Filter) error {
		rows := svc.SubmissionRows(f)
		return printReport(cmd, report.SubmissionTable("Submissions", rows), rows)
	}),
}

var reportOverviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Program-wide summary per phase",
	RunE: reportRunner(func(cmd *cobra.Command, svc *dashboard.Service, f analytics.Filter) error {
		ov := svc.Overview(f)
		return printReport(cmd, report.OverviewTable("Overview", ov), ov)
	}),
}

var reportItemsCmd = &cobra.Command{
	Use:   "items <material-id>",
	Short: "Correct rate per question of one material",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return reportRunner(func(cmd *cobra.Command, svc *dashboard.Service, f analytics.Filter) error {
			items, err := svc.Items(args[0], f)
			if err != nil {
				return err
			}
			return printReport(cmd, report.ItemTable("Items for "+args[0], items), items)
		})(cmd, args)
	},
}

var reportLessonsCmd = &cobra.Command{
	Use:   "lessons",
	Short: "Lesson completion per student",
	RunE: reportRunner(func(cmd *cobra.Command, svc *dashboard.Service, _ analytics.Filter) error {
		rows := svc.Lessons()
		return printReport(cmd, report.LessonTable("Lessons", rows), rows)
	}),
}

func init() {
	for _, c := range []*cobra.Command{
		reportSkillsCmd, reportStudentsCmd, reportTimeCmd, reportSubmissionsCmd,
		reportOverviewCmd, reportItemsCmd, reportLessonsCmd,
	} {
		addFilterFlags(c)
		addFormatFlag(c)
		reportCmd.AddCommand(c)
	}
}
