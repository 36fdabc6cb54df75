package scoring

import (
	"math"

	"github.com/abhisek/tbrite/internal/assessment"
)

// Issue is a reason code explaining why a metric fell back to zero.
type Issue string

const (
	IssueNoWords    Issue = "no_words"    // numberOfWords is missing or zero
	IssueNoDuration Issue = "no_duration" // reading duration is missing or zero
	IssueNoAnswers  Issue = "no_answers"  // no answers were recorded
)

// Result holds the metrics derived from a single submission.
type Result struct {
	SubmissionID string `json:"submissionId"`

	ComprehensionCorrect int `json:"comprehensionCorrect"`
	VocabularyCorrect    int `json:"vocabularyCorrect"`
	TotalAnswered        int `json:"totalAnswered"`

	// Accuracy is the percentage of passage words read correctly (0-100).
	Accuracy int `json:"accuracy"`
	// WPM is words read correctly per minute.
	WPM int `json:"wpm"`
	// OverallScore is the percentage of answered questions that were correct.
	OverallScore int `json:"overallScore"`

	Miscues int     `json:"miscues"`
	Issues  []Issue `json:"issues,omitempty"`
}

// Correct returns the canonical number of correct answers.
func (r Result) Correct() int {
	return r.ComprehensionCorrect + r.VocabularyCorrect
}

// HasIssue reports whether the given issue was raised.
func (r Result) HasIssue(issue Issue) bool {
	for _, i := range r.Issues {
		if i == issue {
			return true
		}
	}
	return false
}

// Score computes reading and question metrics for a submission. It never
// panics and never returns NaN or Inf: a metric with an empty denominator is
// 0 and the matching Issue is recorded.
func Score(sub assessment.Submission) Result {
	comp, vocab := CorrectCounts(sub.Answers)
	res := Result{
		SubmissionID:         sub.ID,
		ComprehensionCorrect: comp,
		VocabularyCorrect:    vocab,
		TotalAnswered:        len(sub.Answers),
		Miscues:              assessment.MiscueCount(sub.Miscues),
	}

	words := sub.NumberOfWords
	if words <= 0 {
		res.Issues = append(res.Issues, IssueNoWords)
	}
	duration := sanitize(sub.Duration)
	if duration <= 0 {
		res.Issues = append(res.Issues, IssueNoDuration)
	}
	if res.TotalAnswered == 0 {
		res.Issues = append(res.Issues, IssueNoAnswers)
	}

	correctWords := CorrectWords(words, res.Miscues)
	res.Accuracy = Accuracy(words, res.Miscues)
	res.WPM = WordsPerMinute(correctWords, duration)
	res.OverallScore = Percent(comp+vocab, res.TotalAnswered)
	return res
}

// CorrectCounts counts correct answers by question type.
func CorrectCounts(answers []assessment.Answer) (comprehension, vocabulary int) {
	for _, a := range answers {
		if !a.IsCorrect {
			continue
		}
		switch a.Type {
		case assessment.Comprehension:
			comprehension++
		case assessment.Vocabulary:
			vocabulary++
		}
	}
	return comprehension, vocabulary
}

// CorrectWords returns the number of words read without a miscue, never
// below zero.
func CorrectWords(words, miscues int) int {
	if words <= 0 {
		return 0
	}
	if miscues < 0 {
		miscues = 0
	}
	if miscues > words {
		return 0
	}
	return words - miscues
}

// Accuracy returns round((words - miscues) / words * 100), or 0 when the
// passage has no words.
func Accuracy(words, miscues int) int {
	if words <= 0 {
		return 0
	}
	return int(math.Round(float64(CorrectWords(words, miscues)) / float64(words) * 100))
}

// WordsPerMinute returns round(correctWords / (seconds / 60)), or 0 when no
// reading time was recorded.
func WordsPerMinute(correctWords int, seconds float64) int {
	seconds = sanitize(seconds)
	if seconds <= 0 || correctWords <= 0 {
		return 0
	}
	return int(math.Round(float64(correctWords) / (seconds / 60)))
}

// Percent returns round(part / total * 100), or 0 for an empty total.
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// Round2 rounds to two decimal places. NaN and Inf collapse to 0.
func Round2(v float64) float64 {
	v = sanitizeSigned(v)
	return math.Round(v*100) / 100
}

// sanitize maps NaN, Inf and negative values to 0.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func sanitizeSigned(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
