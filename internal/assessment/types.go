package assessment

import "time"

// TestType identifies the assessment phase a material or submission belongs to.
type TestType string

const (
	PreTest  TestType = "pre_test"
	PostTest TestType = "post_test"
)

// AllTestTypes returns the known phases in reporting order.
func AllTestTypes() []TestType {
	return []TestType{PreTest, PostTest}
}

// DisplayName returns a human-readable label for the phase.
func (t TestType) DisplayName() string {
	switch t {
	case PreTest:
		return "Pre-test"
	case PostTest:
		return "Post-test"
	default:
		return string(t)
	}
}

// Order is the export sort key: pre-test, then post-test, then anything else.
func (t TestType) Order() int {
	switch t {
	case PreTest:
		return 0
	case PostTest:
		return 1
	default:
		return 2
	}
}

// ParseTestType accepts the canonical names plus the camelCase forms used by
// the document store ("preTest", "postTest"). Empty input means "any phase".
func ParseTestType(s string) (TestType, bool) {
	switch s {
	case "":
		return "", true
	case "pre_test", "preTest", "pre":
		return PreTest, true
	case "post_test", "postTest", "post":
		return PostTest, true
	default:
		return TestType(s), false
	}
}

// QuestionType classifies a question and the answers given to it.
type QuestionType string

const (
	Comprehension QuestionType = "COMPREHENSION"
	Vocabulary    QuestionType = "VOCABULARY"
)

// Answer is one response recorded in a submission.
type Answer struct {
	Type      QuestionType `json:"type"`
	Answer    string       `json:"answer"`
	IsCorrect bool         `json:"isCorrect"`
}

// Submission is one completed assessment attempt by one student on one
// material. Submissions are written once and never updated.
type Submission struct {
	ID            string   `json:"id"`
	StudentID     string   `json:"studentId"`
	MaterialID    string   `json:"materialId"`
	MaterialBatch string   `json:"materialBatch,omitempty"`
	TestType      TestType `json:"testType"`
	Quarter       string   `json:"quarter,omitempty"`
	Mode          string   `json:"mode,omitempty"`

	Answers []Answer `json:"answers"`

	// ComprehensionScore and VocabularyScore are a denormalized cache of the
	// correct counts in Answers. Scoring recomputes them from Answers.
	ComprehensionScore int `json:"comprehensionScore"`
	VocabularyScore    int `json:"vocabularyScore"`

	NumberOfWords int      `json:"numberOfWords"`
	Duration      float64  `json:"duration"` // seconds spent reading
	Miscues       []string `json:"miscues"`

	SubmittedAt time.Time `json:"submittedAt"`
}

// CachedTotal returns the stored comprehension + vocabulary score.
func (s Submission) CachedTotal() int {
	return s.ComprehensionScore + s.VocabularyScore
}

// Skill is a reading skill used to group materials.
type Skill struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// UnknownSkillID groups submissions whose material or skill cannot be resolved.
const UnknownSkillID = "unknown"

// UnknownSkill is the placeholder for orphaned materials and submissions.
func UnknownSkill() Skill {
	return Skill{ID: UnknownSkillID, Title: "Unknown"}
}

// Student is the identity used to label exported rows.
type Student struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ChapterConfig is the singleton that controls which chapter is active and
// whether the pre-test and post-test phases are open.
type ChapterConfig struct {
	ActiveChapter   string `json:"activeChapter"`
	PreTestEnabled  bool   `json:"preTestEnabled"`
	PostTestEnabled bool   `json:"postTestEnabled"`
}

// PhaseEnabled reports whether the given phase is open for submissions.
func (c ChapterConfig) PhaseEnabled(t TestType) bool {
	switch t {
	case PreTest:
		return c.PreTestEnabled
	case PostTest:
		return c.PostTestEnabled
	default:
		return false
	}
}
