package submissions

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/tbrite/internal/analytics"
	"github.com/abhisek/tbrite/internal/assessment"
	"github.com/abhisek/tbrite/internal/report"
	"github.com/abhisek/tbrite/internal/router"
	"github.com/abhisek/tbrite/internal/screen"
)

type fakeSource struct {
	rows    []report.SubmissionRow
	lastF   analytics.Filter
	queries int
}

func (f *fakeSource) Refresh(context.Context) error                                    { return nil }
func (f *fakeSource) SkillRanking(analytics.Filter) []analytics.SkillRanking             { return nil }
func (f *fakeSource) StudentImprovement(analytics.Filter) []analytics.StudentImprovement { return nil }
func (f *fakeSource) Timing(analytics.Filter) []analytics.SkillTiming                    { return nil }
func (f *fakeSource) SubmissionRows(filter analytics.Filter) []report.SubmissionRow {
	f.lastF = filter
	f.queries++
	return f.rows
}

func testSource() *fakeSource {
	return &fakeSource{rows: []report.SubmissionRow{
		{StudentID: "s1", StudentName: "Ana", StudentEmail: "ana@example.com", TestType: assessment.PreTest,
			MaterialTitle: "Red Barn", Comprehension: 3, Vocabulary: 1, OverallScore: 80, Accuracy: 97, WPM: 88, Duration: "1m 5s"},
		{StudentID: "s2", StudentName: "Ben", TestType: assessment.PreTest, MaterialTitle: "Red Barn", WPM: 42},
	}}
}

func TestSubmissionsScreen_QueriesFilter(t *testing.T) {
	src := testSource()
	f := analytics.Filter{TestType: assessment.PreTest, SkillID: "A"}
	s := New(src, f, "Main idea")
	if src.lastF != f {
		t.Errorf("filter = %+v, want %+v", src.lastF, f)
	}
	if s.Title() != "Submissions: Main idea" {
		t.Errorf("title = %q", s.Title())
	}
}

func TestSubmissionsScreen_ViewShowsCompactColumns(t *testing.T) {
	s := New(testSource(), analytics.Filter{TestType: assessment.PreTest}, "Main idea")
	view := s.View(120, 20)
	for _, want := range []string{"Ana", "Red Barn", "97", "88", "1m 5s", "Pre-test"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "ana@example.com") {
		t.Errorf("email column should be hidden:\n%s", view)
	}
}

func TestCompact_KeepsColumnOrder(t *testing.T) {
	rows := []report.SubmissionRow{{StudentName: "Ana", MaterialTitle: "Barn", WPM: 5}}
	got := compact(report.SubmissionTable("t", rows))
	if strings.Join(got.Headers, "|") != strings.Join(compactColumns, "|") {
		t.Errorf("headers = %v", got.Headers)
	}
	if got.Rows[0][0] != "Ana" || got.Rows[0][1] != "Barn" || got.Rows[0][6] != "5" {
		t.Errorf("row = %v", got.Rows[0])
	}
}

func TestSubmissionsScreen_EscPops(t *testing.T) {
	s := New(testSource(), analytics.Filter{}, "x")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Errorf("expected PopScreenMsg, got %T", cmd())
	}
}

func TestSubmissionsScreen_RefreshAndScroll(t *testing.T) {
	src := testSource()
	s := New(src, analytics.Filter{}, "x")
	s.Update(screen.RefreshedMsg{})
	if src.queries != 2 {
		t.Errorf("queries = %d, want 2", src.queries)
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.offset != 1 {
		t.Errorf("offset = %d, want 1", s.offset)
	}
}
