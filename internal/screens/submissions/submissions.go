// Package submissions lists the scored submissions behind a dashboard row.
package submissions

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/tbrite/internal/analytics"
	"github.com/abhisek/tbrite/internal/report"
	"github.com/abhisek/tbrite/internal/router"
	"github.com/abhisek/tbrite/internal/screen"
	"github.com/abhisek/tbrite/internal/ui/layout"
)

// SubmissionsScreen is a drill-down showing submissions matching a filter
// in export order. Esc returns to the screen below it.
type SubmissionsScreen struct {
	src    screen.Source
	filter analytics.Filter
	label  string
	rows   []report.SubmissionRow
	offset int
}

var _ screen.Screen = (*SubmissionsScreen)(nil)
var _ screen.KeyHintProvider = (*SubmissionsScreen)(nil)

// New creates a SubmissionsScreen for the submissions matching f. label
// names the selection in the title.
func New(src screen.Source, f analytics.Filter, label string) *SubmissionsScreen {
	s := &SubmissionsScreen{src: src, filter: f, label: label}
	s.reload()
	return s
}

func (s *SubmissionsScreen) reload() {
	s.rows = s.src.SubmissionRows(s.filter)
}

func (s *SubmissionsScreen) Init() tea.Cmd {
	return nil
}

func (s *SubmissionsScreen) Title() string {
	return "Submissions: " + s.label
}

func (s *SubmissionsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SubmissionsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.RefreshedMsg:
		s.reload()
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "backspace":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.offset > 0 {
				s.offset--
			}
		case "down", "j":
			if s.offset < len(s.rows)-1 {
				s.offset++
			}
		}
	}
	return s, nil
}

func (s *SubmissionsScreen) View(width, height int) string {
	t := report.SubmissionTable(report.PhaseTitle(s.Title(), s.filter.TestType), s.rows)
	// The full export row is too wide for a terminal; keep the scoring columns.
	return screen.RenderTableWindow(compact(t), s.offset, width, height)
}

// compactColumns are the SubmissionHeader columns shown on screen.
var compactColumns = []string{"Student Name", "Material", "Comprehension", "Vocabulary", "Score %", "Accuracy %", "WPM", "Duration"}

func compact(t report.Table) report.Table {
	idx := make([]int, 0, len(compactColumns))
	for _, want := range compactColumns {
		for i, h := range t.Headers {
			if h == want {
				idx = append(idx, i)
				break
			}
		}
	}
	out := report.Table{Title: t.Title}
	for _, i := range idx {
		out.Headers = append(out.Headers, t.Headers[i])
	}
	for _, row := range t.Rows {
		r := make([]string, len(idx))
		for j, i := range idx {
			r[j] = row[i]
		}
		out.Rows = append(out.Rows, r)
	}
	return out
}
