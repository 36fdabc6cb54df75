// Package timing shows average reading time per skill.
package timing

import (
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/tbrite/internal/analytics"
	"github.com/abhisek/tbrite/internal/assessment"
	"github.com/abhisek/tbrite/internal/report"
	"github.com/abhisek/tbrite/internal/screen"
	"github.com/abhisek/tbrite/internal/ui/layout"
	"github.com/abhisek/tbrite/internal/ui/theme"
)

// TimingScreen lists skills with their average reading time and pace.
type TimingScreen struct {
	src    screen.Source
	phase  assessment.TestType
	rows   []analytics.SkillTiming
	offset int
	errMsg string
}

var _ screen.Screen = (*TimingScreen)(nil)
var _ screen.KeyHintProvider = (*TimingScreen)(nil)

func New(src screen.Source, phase assessment.TestType) *TimingScreen {
	s := &TimingScreen{src: src, phase: phase}
	s.reload()
	return s
}

func (s *TimingScreen) reload() {
	s.rows = s.src.Timing(analytics.Filter{TestType: s.phase})
}

func (s *TimingScreen) Init() tea.Cmd {
	return nil
}

func (s *TimingScreen) Title() string {
	return "Time per Skill"
}

func (s *TimingScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
	}
}

func (s *TimingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
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
		}
	}
	return s, nil
}

func (s *TimingScreen) View(width, height int) string {
	out := ""
	if s.errMsg != "" {
		out = screen.RenderError(s.errMsg, width) + "\n"
		height--
	}
	t := report.TimeTable(report.PhaseTitle("Time per skill", s.phase), s.rows)
	return out + screen.RenderTableWindow(t, s.offset, width, height-1) + "\n" + legend()
}

func legend() string {
	return fmt.Sprintf("%s   %s   %s",
		theme.Fast.Render(fmt.Sprintf("Fast < %.0f min", analytics.NormalFromMinutes)),
		theme.Normal.Render(fmt.Sprintf("Normal %.0f-%.0f min", analytics.NormalFromMinutes, analytics.SlowFromMinutes)),
		theme.Slow.Render(fmt.Sprintf("Slow ≥ %.0f min", analytics.SlowFromMinutes)),
	)
}
