package app

import (
	"context"
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/tbrite/internal/analytics"
	"github.com/abhisek/tbrite/internal/assessment"
	"github.com/abhisek/tbrite/internal/report"
	"github.com/abhisek/tbrite/internal/router"
	"github.com/abhisek/tbrite/internal/screen"
)

type fakeSource struct {
	rankings   []analytics.SkillRanking
	rowQueries int
	refreshes  int
	refreshErr error
	phases     []assessment.TestType
}

func (f *fakeSource) Refresh(context.Context) error {
	f.refreshes++
	return f.refreshErr
}
func (f *fakeSource) SkillRanking(filter analytics.Filter) []analytics.SkillRanking {
	f.phases = append(f.phases, filter.TestType)
	return f.rankings
}
func (f *fakeSource) StudentImprovement(filter analytics.Filter) []analytics.StudentImprovement {
	f.phases = append(f.phases, filter.TestType)
	return nil
}
func (f *fakeSource) Timing(filter analytics.Filter) []analytics.SkillTiming {
	f.phases = append(f.phases, filter.TestType)
	return nil
}
func (f *fakeSource) SubmissionRows(analytics.Filter) []report.SubmissionRow {
	f.rowQueries++
	return nil
}

func key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// send applies msg and then any command it produced, one level deep.
func send(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Msg) {
	t.Helper()
	updated, cmd := m.Update(msg)
	m = updated.(AppModel)
	if cmd == nil {
		return m, nil
	}
	out := cmd()
	if _, ok := out.(tea.QuitMsg); ok {
		return m, out
	}
	updated, _ = m.Update(out)
	return updated.(AppModel), out
}

func activeTitle(m AppModel) string {
	return m.router.Active().Title()
}

func TestApp_StartsOnSkills(t *testing.T) {
	src := &fakeSource{}
	m := newAppModel(src)
	if got := activeTitle(m); got != "Skill Ranking" {
		t.Errorf("active = %q, want Skill Ranking", got)
	}
	if m.phase != assessment.PreTest {
		t.Errorf("phase = %q, want pre_test", m.phase)
	}
}

func TestApp_TabCyclesScreens(t *testing.T) {
	m := newAppModel(&fakeSource{})
	want := []string{"Student Improvement", "Time per Skill", "Skill Ranking"}
	for _, w := range want {
		var msg tea.Msg
		m, msg = send(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
		if _, ok := msg.(router.ReplaceScreenMsg); !ok {
			t.Fatalf("expected ReplaceScreenMsg, got %T", msg)
		}
		if got := activeTitle(m); got != w {
			t.Errorf("active = %q, want %q", got, w)
		}
		if m.router.Depth() != 1 {
			t.Errorf("depth = %d, want 1", m.router.Depth())
		}
	}
}

func TestApp_PhaseToggle(t *testing.T) {
	src := &fakeSource{}
	m := newAppModel(src)

	m, _ = send(t, m, key('p'))
	if m.phase != assessment.PostTest {
		t.Fatalf("phase = %q, want post_test", m.phase)
	}
	if last := src.phases[len(src.phases)-1]; last != assessment.PostTest {
		t.Errorf("screen queried %q, want post_test", last)
	}

	m, _ = send(t, m, key('p'))
	if m.phase != assessment.PreTest {
		t.Errorf("phase = %q, want pre_test", m.phase)
	}
}

func TestApp_Refresh(t *testing.T) {
	src := &fakeSource{}
	m := newAppModel(src)
	queries := len(src.phases)

	updated, cmd := m.Update(key('r'))
	m = updated.(AppModel)
	if !m.refreshing {
		t.Error("expected refreshing state")
	}
	// A second press while refreshing is ignored.
	if _, again := m.Update(key('r')); again != nil {
		t.Error("expected no command while refreshing")
	}

	msg := cmd()
	if _, ok := msg.(screen.RefreshedMsg); !ok {
		t.Fatalf("expected RefreshedMsg, got %T", msg)
	}
	updated, _ = m.Update(msg)
	m = updated.(AppModel)

	if src.refreshes != 1 {
		t.Errorf("refreshes = %d, want 1", src.refreshes)
	}
	if m.refreshing {
		t.Error("expected refreshing cleared")
	}
	if len(src.phases) != queries+1 {
		t.Errorf("expected active screen to re-query after refresh")
	}
}

func TestApp_RefreshErrorKeepsRunning(t *testing.T) {
	src := &fakeSource{refreshErr: errors.New("boom")}
	m := newAppModel(src)
	m, msg := send(t, m, key('r'))
	if rm, ok := msg.(screen.RefreshedMsg); !ok || rm.Err == nil {
		t.Fatalf("expected RefreshedMsg with error, got %#v", msg)
	}
	if m.refreshing {
		t.Error("expected refreshing cleared after failure")
	}
}

func TestApp_DrillDownAndBack(t *testing.T) {
	src := &fakeSource{rankings: []analytics.SkillRanking{{Rank: 1, SkillID: "A", Title: "Main idea"}}}
	m := newAppModel(src)

	m, msg := send(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if _, ok := msg.(router.PushScreenMsg); !ok {
		t.Fatalf("expected PushScreenMsg, got %T", msg)
	}
	if m.router.Depth() != 2 || activeTitle(m) != "Submissions: Main idea" {
		t.Fatalf("depth %d active %q after enter", m.router.Depth(), activeTitle(m))
	}

	// A refresh reaches the hidden skills screen as well as the drill-down.
	rankings, rows := len(src.phases), src.rowQueries
	updated, _ := m.Update(screen.RefreshedMsg{})
	m = updated.(AppModel)
	if len(src.phases) != rankings+1 || src.rowQueries != rows+1 {
		t.Errorf("refresh reached %d ranking and %d row queries, want 1 each",
			len(src.phases)-rankings, src.rowQueries-rows)
	}

	m, msg = send(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if _, ok := msg.(router.PopScreenMsg); !ok {
		t.Fatalf("expected PopScreenMsg, got %T", msg)
	}
	if m.router.Depth() != 1 || activeTitle(m) != "Skill Ranking" {
		t.Errorf("depth %d active %q after esc", m.router.Depth(), activeTitle(m))
	}

	m, _ = send(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	m, _ = send(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
	if m.router.Depth() != 1 || activeTitle(m) != "Student Improvement" {
		t.Errorf("tab from drill-down: depth %d active %q", m.router.Depth(), activeTitle(m))
	}
}

func TestApp_Quit(t *testing.T) {
	for _, k := range []tea.KeyPressMsg{key('q'), {Code: 'c', Mod: tea.ModCtrl}} {
		m := newAppModel(&fakeSource{})
		_, msg := send(t, m, k)
		if _, ok := msg.(tea.QuitMsg); !ok {
			t.Errorf("%s: expected QuitMsg, got %T", k.String(), msg)
		}
	}
}

func TestNextPhase(t *testing.T) {
	tests := []struct {
		in, want assessment.TestType
	}{
		{assessment.PreTest, assessment.PostTest},
		{assessment.PostTest, assessment.PreTest},
		{"", assessment.PreTest},
	}
	for _, tt := range tests {
		if got := nextPhase(tt.in); got != tt.want {
			t.Errorf("nextPhase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
