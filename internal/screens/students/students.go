// Package students shows pre-test to post-test improvement per student.
package students

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/tbrite/internal/analytics"
	"github.com/abhisek/tbrite/internal/assessment"
	"github.com/abhisek/tbrite/internal/report"
	"github.com/abhisek/tbrite/internal/screen"
	"github.com/abhisek/tbrite/internal/ui/layout"
)

// StudentsScreen lists students by improvement. The phase limits the list
// to students who took that phase.
type StudentsScreen struct {
	src    screen.Source
	phase  assessment.TestType
	rows   []analytics.StudentImprovement
	offset int
	errMsg string
}

var _ screen.Screen = (*StudentsScreen)(nil)
var _ screen.KeyHintProvider = (*StudentsScreen)(nil)

func New(src screen.Source, phase assessment.TestType) *StudentsScreen {
	s := &StudentsScreen{src: src, phase: phase}
	s.reload()
	return s
}

func (s *StudentsScreen) reload() {
	s.rows = s.src.StudentImprovement(analytics.Filter{TestType: s.phase})
}

func (s *StudentsScreen) Init() tea.Cmd {
	return nil
}

func (s *StudentsScreen) Title() string {
	return "Student Improvement"
}

func (s *StudentsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
	}
}

func (s *StudentsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.RefreshedMsg:
		s.errMsg = ""
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		}
		s.reload()
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.offset > 0 {
				s.offset--
			}
		case "down", "j":
			if s.offset < len(s.rows)-1 {
				s.offset++
			}
		case "home", "g":
			s.offset = 0
		}
	}
	return s, nil
}

func (s *StudentsScreen) View(width, height int) string {
	out := ""
	if s.errMsg != "" {
		out = screen.RenderError(s.errMsg, width) + "\n"
		height--
	}
	t := report.StudentTable(report.PhaseTitle("Student improvement", s.phase), s.rows)
	return out + screen.RenderTableWindow(t, s.offset, width, height)
}
