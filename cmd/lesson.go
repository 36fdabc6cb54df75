package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/tbrite/internal/analytics"
	"github.com/abhisek/tbrite/internal/assessment"
	"github.com/abhisek/tbrite/internal/report"
	"github.com/abhisek/tbrite/internal/store"
)

var lessonCmd = &cobra.Command{
	Use:   "lesson",
	Short: "Track lesson progress",
}

var lessonCompleteCmd = &cobra.Command{
	Use:   "complete <student-id> <lesson-id> <content-id>",
	Short: "Mark a lesson content section as completed",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		total, _ := cmd.Flags().GetInt("total")

		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		p, err := st.LessonRepo().MarkCompleted(cmd.Context(), args[0], args[1], args[2], total, time.Now())
		if err != nil {
			return err
		}
		printLesson(cmd, p)
		return nil
	},
}

var lessonStatusCmd = &cobra.Command{
	Use:   "status [student-id] [lesson-id]",
	Short: "Show lesson progress for all students, one student, or one lesson",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()
		repo := st.LessonRepo()
		ctx := cmd.Context()

		switch len(args) {
		case 2:
			p, err := repo.Get(ctx, args[0], args[1])
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("no progress for student %s on lesson %s", args[0], args[1])
			}
			if err != nil {
				return err
			}
			printLesson(cmd, p)
			return nil
		case 1:
			list, err := repo.ListByStudent(ctx, args[0])
			if err != nil {
				return err
			}
			for i := range list {
				printLesson(cmd, &list[i])
			}
			if len(list) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "no lessons started by %s\n", args[0])
			}
			return nil
		default:
			list, err := repo.List(ctx)
			if err != nil {
				return err
			}
			rows := analytics.LessonCompletion(list)
			return printReport(cmd, report.LessonTable("Lessons", rows), rows)
		}
	},
}

func printLesson(cmd *cobra.Command, p *assessment.LessonProgress) {
	status := "in progress"
	if p.IsCompleted() {
		status = "completed"
		if p.CompletedAt != nil {
			status += " " + report.FormatDate(*p.CompletedAt, "")
		}
	}
	total := "?"
	if p.TotalContents > 0 {
		total = fmt.Sprint(p.TotalContents)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %d/%s  %s\n", p.StudentID, p.LessonID, p.CompletedCount(), total, status)
}

func init() {
	lessonCompleteCmd.Flags().Int("total", 0, "Number of content sections in the lesson")
	addFormatFlag(lessonStatusCmd)

	lessonCmd.AddCommand(lessonCompleteCmd)
	lessonCmd.AddCommand(lessonStatusCmd)
}
