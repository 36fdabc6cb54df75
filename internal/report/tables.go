package report

import (
	"strconv"

	"github.com/abhisek/tbrite/internal/analytics"
	"github.com/abhisek/tbrite/internal/assessment"
	"github.com/abhisek/tbrite/internal/scoring"
)

// Table is a titled grid of pre-formatted cells.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// SkillTable lays out a skill ranking.
func SkillTable(title string, rankings []analytics.SkillRanking) Table {
	t := Table{
		Title:   title,
		Headers: []string{"Rank", "Skill", "Score", "HPS", "Percentage", "Students"},
	}
	for _, r := range rankings {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(r.Rank),
			r.Title,
			strconv.Itoa(r.TotalScore),
			strconv.Itoa(r.HPS),
			formatFloat(r.Percentage) + "%",
			strconv.Itoa(r.Students),
		})
	}
	return t
}

// StudentTable lays out student improvement. Students missing a phase show
// Placeholder for it.
func StudentTable(title string, rows []analytics.StudentImprovement) Table {
	t := Table{
		Title:   title,
		Headers: []string{"Rank", "Student", "Pre-test Avg", "Post-test Avg", "Improvement"},
	}
	for _, r := range rows {
		pre, post, imp := Placeholder, Placeholder, Placeholder
		if r.PreCount > 0 {
			pre = formatFloat(r.PreAverage)
		}
		if r.PostCount > 0 {
			post = formatFloat(r.PostAverage)
		}
		if r.Complete {
			imp = formatSigned(r.Improvement)
		}
		t.Rows = append(t.Rows, []string{strconv.Itoa(r.Rank), r.StudentID, pre, post, imp})
	}
	return t
}

// TimeTable lays out average reading time per skill.
func TimeTable(title string, rows []analytics.SkillTiming) Table {
	t := Table{
		Title:   title,
		Headers: []string{"Skill", "Submissions", "Avg Time (min)", "Pace"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.Title,
			strconv.Itoa(r.Submissions),
			formatFloat(r.AvgTimeMinutes),
			string(r.Pace),
		})
	}
	return t
}

// OverviewTable lays out the per-phase summary.
func OverviewTable(title string, ov analytics.Overview) Table {
	t := Table{
		Title:   title,
		Headers: []string{"Phase", "Submissions", "Students", "Avg Correct", "Avg Score %", "Avg Accuracy %", "Avg WPM", "With Issues"},
	}
	for _, p := range ov.Phases {
		t.Rows = append(t.Rows, []string{
			p.TestType.DisplayName(),
			strconv.Itoa(p.Submissions),
			strconv.Itoa(p.Students),
			formatFloat(p.AverageScore),
			formatFloat(p.AverageOverall),
			formatFloat(p.AverageAccuracy),
			formatFloat(p.AverageWPM),
			strconv.Itoa(p.WithIssues),
		})
	}
	return t
}

// ItemTable lays out per-question statistics.
func ItemTable(title string, items []analytics.ItemStat) Table {
	t := Table{
		Title:   title,
		Headers: []string{"#", "Question", "Type", "Responses", "Correct", "Correct %"},
	}
	for _, it := range items {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(it.Index),
			orPlaceholder(it.Title),
			orPlaceholder(string(it.Type)),
			strconv.Itoa(it.Responses),
			strconv.Itoa(it.Correct),
			formatFloat(it.CorrectRate),
		})
	}
	return t
}

// ProgressTable lays out a student's attempt history.
func ProgressTable(title string, p analytics.Progress) Table {
	t := Table{
		Title:   title,
		Headers: []string{"Date", "Phase", "Material", "Correct", "Score %", "Accuracy %", "WPM", "Level"},
	}
	for _, a := range p.History {
		t.Rows = append(t.Rows, []string{
			FormatDate(a.SubmittedAt, ""),
			orPlaceholder(a.TestType.DisplayName()),
			orPlaceholder(a.MaterialTitle),
			strconv.Itoa(a.Result.Correct()),
			strconv.Itoa(a.Result.OverallScore),
			strconv.Itoa(a.Result.Accuracy),
			strconv.Itoa(a.Result.WPM),
			levelFor(a.Result.Accuracy, a.Result.Issues),
		})
	}
	return t
}

// SubmissionTable lays out joined submission rows in export order.
func SubmissionTable(title string, rows []SubmissionRow) Table {
	t := Table{Title: title, Headers: SubmissionHeader}
	for _, r := range SortRows(rows) {
		t.Rows = append(t.Rows, r.Record())
	}
	return t
}

// PhaseTitle is a table title suffixed with the phase, or "all phases".
func PhaseTitle(base string, t assessment.TestType) string {
	if t == "" {
		return base + " (all phases)"
	}
	return base + " (" + t.DisplayName() + ")"
}

func levelFor(accuracy int, issues []scoring.Issue) string {
	for _, i := range issues {
		if i == scoring.IssueNoWords {
			return Placeholder
		}
	}
	return scoring.LevelForAccuracy(accuracy).DisplayName()
}

// PhaseProgressTable lays out a student's per-phase averages.
func PhaseProgressTable(title string, p analytics.Progress) Table {
	t := Table{
		Title:   title,
		Headers: []string{"Phase", "Attempts", "Accuracy %", "WPM", "Comprehension", "Vocabulary", "Score %", "Level", "Latest"},
	}
	for _, ph := range p.Phases {
		level, latest := Placeholder, Placeholder
		if ph.Attempts > 0 {
			level = ph.Level.DisplayName()
		}
		if ph.Latest != nil {
			latest = orPlaceholder(ph.Latest.MaterialTitle) + " @ " + FormatDate(ph.Latest.SubmittedAt, "")
		}
		t.Rows = append(t.Rows, []string{
			ph.TestType.DisplayName(),
			strconv.Itoa(ph.Attempts),
			formatFloat(ph.AverageAccuracy),
			formatFloat(ph.AverageWPM),
			formatFloat(ph.AverageComprehension),
			formatFloat(ph.AverageVocabulary),
			formatFloat(ph.AverageOverall),
			level,
			latest,
		})
	}
	return t
}

// SkillProgressTable lays out a student's pre and post averages per skill.
func SkillProgressTable(title string, p analytics.Progress) Table {
	t := Table{
		Title:   title,
		Headers: []string{"Skill", "Pre-test Avg", "Post-test Avg", "Improvement"},
	}
	for _, s := range p.Skills {
		t.Rows = append(t.Rows, []string{
			orPlaceholder(s.Title),
			formatFloat(s.PreAverage),
			formatFloat(s.PostAverage),
			formatSigned(s.Improvement),
		})
	}
	return t
}

// LessonTable lays out lesson completion per student.
func LessonTable(title string, rows []analytics.LessonSummary) Table {
	t := Table{
		Title:   title,
		Headers: []string{"Student", "Lessons", "Completed", "Completed %"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.StudentID,
			strconv.Itoa(r.Lessons),
			strconv.Itoa(r.Completed),
			formatFloat(r.Percent),
		})
	}
	return t
}
