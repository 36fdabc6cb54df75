package assessment

import (
	"strings"
	"testing"
	"time"
)

func validMaterial() Material {
	return Material{
		ID:       "m1",
		Title:    "The Fox",
		Skill:    "s1",
		TestType: PreTest,
		Text:     "The quick brown fox\njumps  over the lazy dog",
		Questions: []Question{
			{Title: "Who jumps?", Options: []string{"fox", "dog", "cat", "owl"}, Answer: "fox", Type: Comprehension},
			{Title: "Quick means", Options: []string{"fast", "slow", "red", "big"}, Answer: "fast", Type: Vocabulary},
		},
	}
}

func TestMaterialValidate_OK(t *testing.T) {
	if errs := validMaterial().Validate(); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestMaterialValidate_AnswerNotInOptions(t *testing.T) {
	m := validMaterial()
	m.Questions[0].Answer = "wolf"
	errs := m.Validate()
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	if errs[0].Question != 0 {
		t.Errorf("Question = %d, want 0", errs[0].Question)
	}
	if !strings.Contains(errs[0].Error(), "question 1") {
		t.Errorf("Error() = %q, want question number", errs[0].Error())
	}
}

func TestMaterialValidate_DuplicateAnswer(t *testing.T) {
	m := validMaterial()
	m.Questions[1].Options = []string{"fast", "fast", "red", "big"}
	errs := m.Validate()
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
}

func TestMaterialValidate_WrongOptionCount(t *testing.T) {
	m := validMaterial()
	m.Questions[0].Options = []string{"fox", "dog"}
	errs := m.Validate()
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
}

func TestMaterialValidate_MissingIDAndType(t *testing.T) {
	m := validMaterial()
	m.ID = ""
	m.Questions[0].Type = "GRAMMAR"
	errs := m.Validate()
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(errs), errs)
	}
}

func TestMaterialWordCount(t *testing.T) {
	if got := validMaterial().WordCount(); got != 9 {
		t.Errorf("WordCount = %d, want 9", got)
	}
}

func TestUniqueMiscues(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil", nil, nil},
		{"distinct", []string{"the", "cat"}, []string{"the", "cat"}},
		{"repeated", []string{"the", "cat", "the"}, []string{"the", "cat"}},
		{"case and space", []string{"The", " the ", "CAT", "cat"}, []string{"The", "CAT"}},
		{"blank dropped", []string{"", "  ", "dog"}, []string{"dog"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UniqueMiscues(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("UniqueMiscues(%v) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("UniqueMiscues(%v)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseTestType(t *testing.T) {
	tests := []struct {
		in     string
		want   TestType
		wantOK bool
	}{
		{"", "", true},
		{"pre_test", PreTest, true},
		{"preTest", PreTest, true},
		{"post", PostTest, true},
		{"midterm", TestType("midterm"), false},
	}
	for _, tt := range tests {
		got, ok := ParseTestType(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseTestType(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestTestTypeOrder(t *testing.T) {
	if !(PreTest.Order() < PostTest.Order() && PostTest.Order() < TestType("other").Order()) {
		t.Error("expected pre < post < other")
	}
}

func TestChapterConfigPhaseEnabled(t *testing.T) {
	cfg := ChapterConfig{ActiveChapter: "q1", PreTestEnabled: true}
	if !cfg.PhaseEnabled(PreTest) {
		t.Error("expected pre-test enabled")
	}
	if cfg.PhaseEnabled(PostTest) {
		t.Error("expected post-test disabled")
	}
}

func TestLessonProgress_MarkCompleted(t *testing.T) {
	p := &LessonProgress{StudentID: "u1", LessonID: "l1", TotalContents: 2}
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	if !p.MarkCompleted("intro", now) {
		t.Fatal("expected first mark to be new")
	}
	if p.IsCompleted() {
		t.Fatal("lesson should not be complete after 1 of 2")
	}
	if p.MarkCompleted("intro", now) {
		t.Error("expected duplicate mark to be a no-op")
	}
	if p.CompletedAt != nil {
		t.Error("CompletedAt should be nil before completion")
	}

	later := now.Add(time.Hour)
	p.MarkCompleted("quiz", later)
	if !p.IsCompleted() {
		t.Fatal("expected lesson complete")
	}
	if p.CompletedAt == nil || !p.CompletedAt.Equal(later) {
		t.Errorf("CompletedAt = %v, want %v", p.CompletedAt, later)
	}
	if p.Percent() != 100 {
		t.Errorf("Percent = %f, want 100", p.Percent())
	}
}

func TestLessonProgress_ZeroContents(t *testing.T) {
	p := &LessonProgress{}
	if p.IsCompleted() {
		t.Error("lesson with no contents should not be complete")
	}
	if p.Percent() != 0 {
		t.Errorf("Percent = %f, want 0", p.Percent())
	}
}
