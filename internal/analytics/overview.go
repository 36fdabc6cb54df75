package analytics

import (
	"github.com/samber/lo"

	"github.com/abhisek/tbrite/internal/assessment"
	"github.com/abhisek/tbrite/internal/scoring"
)

// PhaseSummary aggregates one assessment phase.
type PhaseSummary struct {
	TestType        assessment.TestType `json:"testType"`
	Submissions     int                 `json:"submissions"`
	Students        int                 `json:"students"`
	AverageScore    float64             `json:"averageScore"`
	AverageOverall  float64             `json:"averageOverall"`
	AverageAccuracy float64             `json:"averageAccuracy"`
	AverageWPM      float64             `json:"averageWpm"`
	// WithIssues counts submissions where at least one metric fell back to 0.
	WithIssues int `json:"withIssues"`
}

// Overview is the program-wide summary shown on the landing page.
type Overview struct {
	RegisteredStudents int            `json:"registeredStudents"`
	ActiveStudents     int            `json:"activeStudents"`
	CompletedBoth      int            `json:"completedBoth"`
	Submissions        int            `json:"submissions"`
	Drifts             int            `json:"drifts"`
	Phases             []PhaseSummary `json:"phases"`
}

// BuildOverview summarizes all submissions. Pre-test and post-test are always
// present in Phases; any other phase found in the data follows them.
func BuildOverview(subs []assessment.Submission, students []assessment.Student) Overview {
	drifts := lo.SumBy(subs, func(s assessment.Submission) int { return len(scoring.Consistency(s)) })
	reconciled := scoring.ReconcileAll(subs)
	active := uniqueStudents(reconciled)

	ov := Overview{
		RegisteredStudents: len(lo.UniqBy(students, func(s assessment.Student) string { return s.ID })),
		ActiveStudents:     len(active),
		Submissions:        len(reconciled),
		Drifts:             drifts,
	}
	if ov.RegisteredStudents < ov.ActiveStudents {
		ov.RegisteredStudents = ov.ActiveStudents
	}

	byStudent := lo.GroupBy(reconciled, func(s assessment.Submission) string { return s.StudentID })
	ov.CompletedBoth = lo.CountBy(active, func(id string) bool {
		g := byStudent[id]
		return len(byPhase(g, assessment.PreTest)) > 0 && len(byPhase(g, assessment.PostTest)) > 0
	})

	phases := assessment.AllTestTypes()
	for _, s := range reconciled {
		if s.TestType.Order() == 2 && !lo.Contains(phases, s.TestType) {
			phases = append(phases, s.TestType)
		}
	}
	for _, t := range phases {
		ov.Phases = append(ov.Phases, summarizePhase(t, byPhase(reconciled, t)))
	}
	return ov
}

func summarizePhase(t assessment.TestType, subs []assessment.Submission) PhaseSummary {
	ps := PhaseSummary{
		TestType:    t,
		Submissions: len(subs),
		Students:    len(uniqueStudents(subs)),
	}
	if len(subs) == 0 {
		return ps
	}

	results := lo.Map(subs, func(s assessment.Submission, _ int) scoring.Result { return scoring.Score(s) })
	ps.AverageScore = scoring.Round2(meanTotal(subs))
	ps.AverageOverall = meanInt(results, func(r scoring.Result) (int, bool) {
		return r.OverallScore, !r.HasIssue(scoring.IssueNoAnswers)
	})
	ps.AverageAccuracy = meanInt(results, func(r scoring.Result) (int, bool) {
		return r.Accuracy, !r.HasIssue(scoring.IssueNoWords)
	})
	ps.AverageWPM = meanInt(results, func(r scoring.Result) (int, bool) {
		return r.WPM, !r.HasIssue(scoring.IssueNoWords) && !r.HasIssue(scoring.IssueNoDuration)
	})
	ps.WithIssues = lo.CountBy(results, func(r scoring.Result) bool { return len(r.Issues) > 0 })
	return ps
}

// meanInt averages the values pick accepts, rounded to two decimals.
func meanInt(results []scoring.Result, pick func(scoring.Result) (int, bool)) float64 {
	var sum, n int
	for _, r := range results {
		if v, ok := pick(r); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return scoring.Round2(float64(sum) / float64(n))
}
