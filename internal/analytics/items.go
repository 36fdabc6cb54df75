package analytics

import (
	"github.com/abhisek/tbrite/internal/assessment"
)

// ItemStat is the response summary for one question of a material.
type ItemStat struct {
	Index       int                     `json:"index"` // 1-based
	Title       string                  `json:"title"`
	Type        assessment.QuestionType `json:"type"`
	Responses   int                     `json:"responses"`
	Correct     int                     `json:"correct"`
	CorrectRate float64                 `json:"correctRate"`
}

// ItemAnalysis reports the correct rate of each question of material.
// Answers are aligned with questions by position. When the material has no
// question bank, items are derived from the longest answer list submitted.
func ItemAnalysis(subs []assessment.Submission, material assessment.Material) []ItemStat {
	var taken []assessment.Submission
	width := material.QuestionCount()
	for _, s := range subs {
		if s.MaterialID != material.ID {
			continue
		}
		taken = append(taken, s)
		if material.QuestionCount() == 0 && len(s.Answers) > width {
			width = len(s.Answers)
		}
	}

	items := make([]ItemStat, width)
	for i := range items {
		items[i].Index = i + 1
		if i < len(material.Questions) {
			items[i].Title = material.Questions[i].Title
			items[i].Type = material.Questions[i].Type
		}
	}
	for _, s := range taken {
		for i, a := range s.Answers {
			if i >= width {
				break
			}
			if items[i].Type == "" {
				items[i].Type = a.Type
			}
			items[i].Responses++
			if a.IsCorrect {
				items[i].Correct++
			}
		}
	}
	for i := range items {
		items[i].CorrectRate = percentage(items[i].Correct, items[i].Responses)
	}
	return items
}
