package dashboard

import (
	"fmt"
	"io"

	"github.com/samber/lo"

	"github.com/abhisek/tbrite/internal/analytics"
	"github.com/abhisek/tbrite/internal/assessment"
	"github.com/abhisek/tbrite/internal/report"
	"github.com/abhisek/tbrite/internal/store"
)

// scope drops the phase from f; the analytics take the phase separately.
func scope(ds *Dataset, f analytics.Filter) []assessment.Submission {
	f.TestType = ""
	return f.Apply(ds.Submissions, ds.Materials, ds.Skills)
}

// SkillRanking ranks skills for the filter's phase.
func (s *Service) SkillRanking(f analytics.Filter) []analytics.SkillRanking {
	ds := s.current()
	return analytics.BySkill(scope(ds, f), f.Materials(ds.Materials), ds.Skills, f.TestType)
}

// StudentImprovement ranks students by post-minus-pre improvement.
func (s *Service) StudentImprovement(f analytics.Filter) []analytics.StudentImprovement {
	return analytics.ByStudent(scope(s.current(), f), f.TestType)
}

// Timing reports average reading time per skill for the filter's phase.
func (s *Service) Timing(f analytics.Filter) []analytics.SkillTiming {
	ds := s.current()
	return analytics.TimeBySkill(scope(ds, f), f.Materials(ds.Materials), ds.Skills, f.TestType)
}

// Overview summarizes the filtered submissions.
func (s *Service) Overview(f analytics.Filter) analytics.Overview {
	ds := s.current()
	return analytics.BuildOverview(f.Apply(ds.Submissions, ds.Materials, ds.Skills), ds.Students)
}

// StudentProgress returns one student's dashboard. It returns
// store.ErrNotFound when the student is neither registered nor has any
// submission.
func (s *Service) StudentProgress(studentID string) (analytics.Progress, error) {
	ds := s.current()
	known := lo.ContainsBy(ds.Students, func(st assessment.Student) bool { return st.ID == studentID }) ||
		lo.ContainsBy(ds.Submissions, func(sub assessment.Submission) bool { return sub.StudentID == studentID })
	if !known {
		return analytics.Progress{}, fmt.Errorf("student %s: %w", studentID, store.ErrNotFound)
	}
	return analytics.StudentProgress(ds.Submissions, ds.Materials, ds.Skills, studentID), nil
}

// Items returns per-question results for one material.
func (s *Service) Items(materialID string, f analytics.Filter) ([]analytics.ItemStat, error) {
	ds := s.current()
	m, ok := lo.Find(ds.Materials, func(m assessment.Material) bool { return m.ID == materialID })
	if !ok {
		return nil, fmt.Errorf("material %s: %w", materialID, store.ErrNotFound)
	}
	return analytics.ItemAnalysis(f.Apply(ds.Submissions, ds.Materials, ds.Skills), m), nil
}

// Lessons summarizes lesson completion per student.
func (s *Service) Lessons() []analytics.LessonSummary {
	return analytics.LessonCompletion(s.current().Lessons)
}

// Chapter returns the chapter configuration captured at the last refresh.
func (s *Service) Chapter() assessment.ChapterConfig {
	return s.current().Chapter
}

// SubmissionRows returns export rows in export order.
func (s *Service) SubmissionRows(f analytics.Filter) []report.SubmissionRow {
	ds := s.current()
	rows := report.SubmissionRows(f.Apply(ds.Submissions, ds.Materials, ds.Skills), ds.Materials, ds.Skills, ds.Students)
	return report.SortRows(rows)
}

// CSV renders the submission export.
func (s *Service) CSV(f analytics.Filter) (string, error) {
	return report.ToCSV(s.SubmissionRows(f))
}

// Workbook assembles every report into one workbook: the overview, skill
// ranking and timing per phase, student improvement, and the submissions.
func (s *Service) Workbook(f analytics.Filter) report.Workbook {
	var wb report.Workbook
	wb.Sheets = append(wb.Sheets, report.OverviewTable("Overview", s.Overview(f)))

	phases := assessment.AllTestTypes()
	if f.TestType != "" {
		phases = []assessment.TestType{f.TestType}
	}
	for _, t := range phases {
		pf := f
		pf.TestType = t
		wb.Sheets = append(wb.Sheets, report.SkillTable(report.PhaseTitle("Skills", t), s.SkillRanking(pf)))
	}
	wb.Sheets = append(wb.Sheets, report.StudentTable("Students", s.StudentImprovement(f)))
	for _, t := range phases {
		pf := f
		pf.TestType = t
		wb.Sheets = append(wb.Sheets, report.TimeTable(report.PhaseTitle("Time", t), s.Timing(pf)))
	}
	wb.Sheets = append(wb.Sheets, report.SubmissionTable("Submissions", s.SubmissionRows(f)))
	return wb
}

// XLSX writes the workbook for f to w.
func (s *Service) XLSX(w io.Writer, f analytics.Filter) error {
	return report.WriteXLSX(w, s.Workbook(f))
}
