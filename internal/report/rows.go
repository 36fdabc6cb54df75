package report

import (
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/abhisek/tbrite/internal/assessment"
	"github.com/abhisek/tbrite/internal/scoring"
)

// SubmissionRow is one submission joined with its student, material and
// skill, with every field ready for display.
type SubmissionRow struct {
	SubmissionID  string              `json:"submissionId"`
	StudentID     string              `json:"studentId"`
	StudentName   string              `json:"studentName"`
	StudentEmail  string              `json:"studentEmail"`
	TestType      assessment.TestType `json:"testType"`
	Quarter       string              `json:"quarter"`
	MaterialTitle string              `json:"materialTitle"`
	SkillTitle    string              `json:"skillTitle"`
	Comprehension int                 `json:"comprehension"`
	Vocabulary    int                 `json:"vocabulary"`
	Answered      int                 `json:"answered"`
	OverallScore  int                 `json:"overallScore"`
	Words         int                 `json:"words"`
	Accuracy      int                 `json:"accuracy"`
	WPM           int                 `json:"wpm"`
	Duration      string              `json:"duration"`
	SubmittedAt   string              `json:"submittedAt"`
	Miscues       string              `json:"miscues"`
}

// SubmissionHeader is the CSV header matching SubmissionRow.Record.
var SubmissionHeader = []string{
	"Submission ID", "Student ID", "Student Name", "Student Email",
	"Test Type", "Quarter", "Material", "Skill",
	"Comprehension", "Vocabulary", "Answered", "Score %",
	"Words", "Accuracy %", "WPM", "Duration", "Submitted At", "Miscues",
}

// Record returns the row as CSV fields.
func (r SubmissionRow) Record() []string {
	return []string{
		r.SubmissionID,
		r.StudentID,
		r.StudentName,
		r.StudentEmail,
		orPlaceholder(r.TestType.DisplayName()),
		orPlaceholder(r.Quarter),
		r.MaterialTitle,
		r.SkillTitle,
		strconv.Itoa(r.Comprehension),
		strconv.Itoa(r.Vocabulary),
		strconv.Itoa(r.Answered),
		strconv.Itoa(r.OverallScore),
		strconv.Itoa(r.Words),
		strconv.Itoa(r.Accuracy),
		strconv.Itoa(r.WPM),
		r.Duration,
		r.SubmittedAt,
		r.Miscues,
	}
}

// SubmissionRows joins each submission with its lookups. Missing students,
// materials and skills render as Placeholder. Scores are recomputed from the
// answers. Rows keep the order of subs.
func SubmissionRows(subs []assessment.Submission, materials []assessment.Material, skills []assessment.Skill, students []assessment.Student) []SubmissionRow {
	materialByID := lo.KeyBy(materials, func(m assessment.Material) string { return m.ID })
	skillByID := lo.KeyBy(skills, func(s assessment.Skill) string { return s.ID })
	studentByID := lo.KeyBy(students, func(s assessment.Student) string { return s.ID })

	rows := make([]SubmissionRow, 0, len(subs))
	for _, s := range subs {
		res := scoring.Score(s)
		st := studentByID[s.StudentID]
		m, hasMaterial := materialByID[s.MaterialID]

		skillTitle := Placeholder
		if hasMaterial {
			if sk, ok := skillByID[m.Skill]; ok {
				skillTitle = orPlaceholder(sk.Title)
			}
		}

		rows = append(rows, SubmissionRow{
			SubmissionID:  s.ID,
			StudentID:     s.StudentID,
			StudentName:   orPlaceholder(st.Name),
			StudentEmail:  orPlaceholder(st.Email),
			TestType:      s.TestType,
			Quarter:       s.Quarter,
			MaterialTitle: orPlaceholder(m.Title),
			SkillTitle:    skillTitle,
			Comprehension: res.ComprehensionCorrect,
			Vocabulary:    res.VocabularyCorrect,
			Answered:      res.TotalAnswered,
			OverallScore:  res.OverallScore,
			Words:         s.NumberOfWords,
			Accuracy:      res.Accuracy,
			WPM:           res.WPM,
			Duration:      FormatDuration(s.Duration),
			SubmittedAt:   FormatDate(s.SubmittedAt, ""),
			Miscues:       strings.Join(assessment.UniqueMiscues(s.Miscues), MiscueSeparator),
		})
	}
	return rows
}

// SortRows orders rows by student ID, then pre-test before post-test before
// any other phase. Equal keys keep their relative order.
func SortRows(rows []SubmissionRow) []SubmissionRow {
	out := make([]SubmissionRow, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].StudentID != out[j].StudentID {
			return out[i].StudentID < out[j].StudentID
		}
		return out[i].TestType.Order() < out[j].TestType.Order()
	})
	return out
}

// ToCSV renders rows as RFC 4180 CSV with a header line, in SortRows order.
func ToCSV(rows []SubmissionRow) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.Write(SubmissionHeader); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range SortRows(rows) {
		if err := w.Write(r.Record()); err != nil {
			return "", fmt.Errorf("write csv row %s: %w", r.SubmissionID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return b.String(), nil
}

// TableCSV renders a table as CSV.
func TableCSV(t Table) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.Write(t.Headers); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return "", fmt.Errorf("write csv rows: %w", err)
	}
	return b.String(), nil
}
