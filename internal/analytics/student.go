package analytics

import (
	"sort"

	"github.com/samber/lo"

	"github.com/abhisek/tbrite/internal/assessment"
	"github.com/abhisek/tbrite/internal/scoring"
)

// StudentImprovement compares one student's pre-test and post-test averages.
type StudentImprovement struct {
	Rank        int     `json:"rank"`
	StudentID   string  `json:"studentId"`
	PreAverage  float64 `json:"preAverage"`
	PostAverage float64 `json:"postAverage"`
	PreCount    int     `json:"preCount"`
	PostCount   int     `json:"postCount"`
	Improvement float64 `json:"improvement"`
	// Complete is true when the student has submissions in both phases.
	Complete bool `json:"complete"`
}

// ByStudent computes each student's mean correct answers per phase and the
// post-minus-pre improvement, sorted by improvement descending. Ties keep the
// order in which students first appear in subs.
//
// A non-empty testType limits the result to students with at least one
// submission in that phase. Improvement is 0 unless both phases exist, and
// students missing a phase rank after every student who has both.
func ByStudent(subs []assessment.Submission, testType assessment.TestType) []StudentImprovement {
	reconciled := scoring.ReconcileAll(subs)
	groups := lo.GroupBy(reconciled, func(s assessment.Submission) string { return s.StudentID })

	out := make([]StudentImprovement, 0, len(groups))
	for _, id := range uniqueStudents(reconciled) {
		group := groups[id]
		if testType != "" && len(byPhase(group, testType)) == 0 {
			continue
		}
		pre := byPhase(group, assessment.PreTest)
		post := byPhase(group, assessment.PostTest)
		preAvg, postAvg := meanTotal(pre), meanTotal(post)

		row := StudentImprovement{
			StudentID:   id,
			PreAverage:  scoring.Round2(preAvg),
			PostAverage: scoring.Round2(postAvg),
			PreCount:    len(pre),
			PostCount:   len(post),
			Complete:    len(pre) > 0 && len(post) > 0,
		}
		if row.Complete {
			row.Improvement = scoring.Round2(postAvg - preAvg)
		}
		out = append(out, row)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Complete != out[j].Complete {
			return out[i].Complete
		}
		return out[i].Improvement > out[j].Improvement
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

func meanTotal(subs []assessment.Submission) float64 {
	if len(subs) == 0 {
		return 0
	}
	return float64(lo.SumBy(subs, func(s assessment.Submission) int { return s.CachedTotal() })) / float64(len(subs))
}
