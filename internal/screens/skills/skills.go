// Package skills shows the skill ranking for one phase.
package skills

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/tbrite/internal/analytics"
	"github.com/abhisek/tbrite/internal/assessment"
	"github.com/abhisek/tbrite/internal/report"
	"github.com/abhisek/tbrite/internal/router"
	"github.com/abhisek/tbrite/internal/screen"
	"github.com/abhisek/tbrite/internal/screens/submissions"
	"github.com/abhisek/tbrite/internal/ui/components"
	"github.com/abhisek/tbrite/internal/ui/layout"
	"github.com/abhisek/tbrite/internal/ui/theme"
)

// SkillsScreen lists skills by share of the highest possible score.
type SkillsScreen struct {
	src    screen.Source
	phase  assessment.TestType
	rows   []analytics.SkillRanking
	offset int
	chart  bool
	errMsg string
}

var _ screen.Screen = (*SkillsScreen)(nil)
var _ screen.KeyHintProvider = (*SkillsScreen)(nil)

// New creates a SkillsScreen for phase.
func New(src screen.Source, phase assessment.TestType) *SkillsScreen {
	s := &SkillsScreen{src: src, phase: phase}
	s.reload()
	return s
}

func (s *SkillsScreen) reload() {
	s.rows = s.src.SkillRanking(analytics.Filter{TestType: s.phase})
}

func (s *SkillsScreen) Init() tea.Cmd {
	return nil
}

func (s *SkillsScreen) Title() string {
	return "Skill Ranking"
}

func (s *SkillsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "c", Description: "Chart"},
		{Key: "Enter", Description: "Submissions"},
	}
}

func (s *SkillsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
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
		case "c":
			s.chart = !s.chart
		case "enter":
			return s, s.openSelected()
		}
	}
	return s, nil
}

// Selected returns the row at the top of the window, the one enter opens.
func (s *SkillsScreen) Selected() (analytics.SkillRanking, bool) {
	if len(s.rows) == 0 {
		return analytics.SkillRanking{}, false
	}
	return s.rows[min(s.offset, len(s.rows)-1)], true
}

func (s *SkillsScreen) openSelected() tea.Cmd {
	row, ok := s.Selected()
	if !ok {
		return nil
	}
	detail := submissions.New(s.src, analytics.Filter{TestType: s.phase, SkillID: row.SkillID}, row.Title)
	return func() tea.Msg { return router.PushScreenMsg{Screen: detail} }
}

func (s *SkillsScreen) View(width, height int) string {
	out := ""
	if s.errMsg != "" {
		out = screen.RenderError(s.errMsg, width) + "\n"
		height--
	}
	t := report.SkillTable(report.PhaseTitle("Skill ranking", s.phase), s.rows)
	if s.chart {
		return out + s.chartView(t.Title, width, height)
	}
	return out + screen.RenderTableWindow(t, s.offset, width, height)
}

func (s *SkillsScreen) chartView(title string, width, height int) string {
	if len(s.rows) == 0 {
		return screen.RenderTableWindow(report.Table{Title: title}, 0, width, height)
	}
	rows := s.rows[min(s.offset, len(s.rows)-1):]
	if n := height - 2; n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	bars := make([]components.Bar, len(rows))
	for i, r := range rows {
		bars[i] = components.Bar{Label: r.Title, Percent: r.Percentage, Width: width}
	}
	return theme.Title.Render(title) + "\n\n" + components.BarChart(bars)
}
