package students

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/tbrite/internal/analytics"
	"github.com/abhisek/tbrite/internal/report"
	"github.com/abhisek/tbrite/internal/assessment"
)

type fakeSource struct {
	rows  []analytics.StudentImprovement
	lastF analytics.Filter
}

func (f *fakeSource) Refresh(context.Context) error                        { return nil }
func (f *fakeSource) SkillRanking(analytics.Filter) []analytics.SkillRanking { return nil }
func (f *fakeSource) StudentImprovement(filter analytics.Filter) []analytics.StudentImprovement {
	f.lastF = filter
	return f.rows
}
func (f *fakeSource) Timing(analytics.Filter) []analytics.SkillTiming { return nil }
func (f *fakeSource) SubmissionRows(analytics.Filter) []report.SubmissionRow { return nil }

func TestStudentsScreen_View(t *testing.T) {
	src := &fakeSource{rows: []analytics.StudentImprovement{
		{Rank: 1, StudentID: "alice", PreAverage: 1, PostAverage: 3, PreCount: 1, PostCount: 1, Improvement: 2, Complete: true},
		{Rank: 2, StudentID: "bob", PreAverage: 2, PreCount: 1},
	}}
	s := New(src, assessment.PreTest)
	if src.lastF.TestType != assessment.PreTest {
		t.Errorf("filter phase = %q", src.lastF.TestType)
	}

	view := s.View(100, 20)
	for _, want := range []string{"alice", "+2.00", "bob"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestStudentsScreen_Empty(t *testing.T) {
	s := New(&fakeSource{}, assessment.PostTest)
	if !strings.Contains(s.View(100, 20), "No data.") {
		t.Error("expected empty-state message")
	}
}

func TestStudentsScreen_Home(t *testing.T) {
	src := &fakeSource{rows: make([]analytics.StudentImprovement, 5)}
	s := New(src, assessment.PreTest)
	s.Update(tea.KeyPressMsg{Code: 'j', Text: "j"})
	s.Update(tea.KeyPressMsg{Code: 'j', Text: "j"})
	if s.offset != 2 {
		t.Fatalf("offset = %d, want 2", s.offset)
	}
	s.Update(tea.KeyPressMsg{Code: 'g', Text: "g"})
	if s.offset != 0 {
		t.Errorf("offset after home = %d, want 0", s.offset)
	}
}
