package assessment

import "fmt"

// OptionsPerQuestion is the number of choices every question offers.
const OptionsPerQuestion = 4

// Question is one multiple-choice item in a material's question bank.
type Question struct {
	Title   string       `json:"title"`
	Options []string     `json:"options"`
	Answer  string       `json:"answer"`
	Type    QuestionType `json:"type"`
}

// Material is a reading passage bundled with its questions.
type Material struct {
	ID        string     `json:"id"`
	Text      string     `json:"text"`
	Title     string     `json:"title"`
	Author    string     `json:"author,omitempty"`
	Skill     string     `json:"skill"`
	Quarter   string     `json:"quarter,omitempty"`
	TestType  TestType   `json:"testType"`
	Questions []Question `json:"questions"`
}

// QuestionCount returns the number of questions in the bank.
func (m Material) QuestionCount() int {
	return len(m.Questions)
}

// WordCount returns the number of whitespace-separated words in the passage.
func (m Material) WordCount() int {
	return len(splitWords(m.Text))
}

// ValidationError describes one invariant violation in a material.
type ValidationError struct {
	MaterialID string
	Question   int // -1 when the problem is not question-specific
	Reason     string
}

func (e ValidationError) Error() string {
	if e.Question < 0 {
		return fmt.Sprintf("material %s: %s", e.MaterialID, e.Reason)
	}
	return fmt.Sprintf("material %s question %d: %s", e.MaterialID, e.Question+1, e.Reason)
}

// Validate checks the question bank: four options per question, and the
// answer appears in the options exactly once.
func (m Material) Validate() []ValidationError {
	var errs []ValidationError
	if m.ID == "" {
		errs = append(errs, ValidationError{MaterialID: m.ID, Question: -1, Reason: "missing id"})
	}
	for i, q := range m.Questions {
		if len(q.Options) != OptionsPerQuestion {
			errs = append(errs, ValidationError{
				MaterialID: m.ID,
				Question:   i,
				Reason:     fmt.Sprintf("has %d options, want %d", len(q.Options), OptionsPerQuestion),
			})
		}
		matches := 0
		for _, opt := range q.Options {
			if opt == q.Answer {
				matches++
			}
		}
		switch {
		case matches == 0:
			errs = append(errs, ValidationError{MaterialID: m.ID, Question: i, Reason: fmt.Sprintf("answer %q is not one of the options", q.Answer)})
		case matches > 1:
			errs = append(errs, ValidationError{MaterialID: m.ID, Question: i, Reason: fmt.Sprintf("answer %q appears %d times in options", q.Answer, matches)})
		}
		if q.Type != Comprehension && q.Type != Vocabulary {
			errs = append(errs, ValidationError{MaterialID: m.ID, Question: i, Reason: fmt.Sprintf("unknown question type %q", q.Type)})
		}
	}
	return errs
}
