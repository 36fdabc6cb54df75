package analytics

import (
	"github.com/abhisek/tbrite/internal/assessment"
)

// LessonSummary is one student's lesson completion.
type LessonSummary struct {
	StudentID string  `json:"studentId"`
	Lessons   int     `json:"lessons"`
	Completed int     `json:"completed"`
	Percent   float64 `json:"percent"`
}

// LessonCompletion counts started and completed lessons per student, in the
// order students first appear.
func LessonCompletion(progress []assessment.LessonProgress) []LessonSummary {
	index := make(map[string]int)
	var out []LessonSummary
	for i := range progress {
		p := &progress[i]
		idx, ok := index[p.StudentID]
		if !ok {
			idx = len(out)
			index[p.StudentID] = idx
			out = append(out, LessonSummary{StudentID: p.StudentID})
		}
		out[idx].Lessons++
		if p.IsCompleted() {
			out[idx].Completed++
		}
	}
	for i := range out {
		out[i].Percent = percentage(out[i].Completed, out[i].Lessons)
	}
	return out
}
