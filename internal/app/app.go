package app

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/tbrite/internal/assessment"
	"github.com/abhisek/tbrite/internal/router"
	"github.com/abhisek/tbrite/internal/screen"
	"github.com/abhisek/tbrite/internal/screens/skills"
	"github.com/abhisek/tbrite/internal/screens/students"
	"github.com/abhisek/tbrite/internal/screens/timing"
	"github.com/abhisek/tbrite/internal/ui/layout"
)

// refreshTimeout bounds a manual refresh.
const refreshTimeout = 30 * time.Second

type tab struct {
	label string
	build func(src screen.Source, phase assessment.TestType) screen.Screen
}

var tabs = []tab{
	{"Skills", func(src screen.Source, p assessment.TestType) screen.Screen { return skills.New(src, p) }},
	{"Students", func(src screen.Source, p assessment.TestType) screen.Screen { return students.New(src, p) }},
	{"Time", func(src screen.Source, p assessment.TestType) screen.Screen { return timing.New(src, p) }},
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	src        screen.Source
	router     *router.Router
	tab        int
	phase      assessment.TestType
	refreshing bool
	width      int
	height     int
}

// newAppModel opens on the skill ranking for the pre-test.
func newAppModel(src screen.Source) AppModel {
	phase := assessment.PreTest
	return AppModel{
		src:    src,
		phase:  phase,
		router: router.New(tabs[0].build(src, phase)),
	}
}

func (m AppModel) Init() tea.Cmd {
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case screen.RefreshedMsg:
		m.refreshing = false
		return m, m.router.Broadcast(msg)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.tab = (m.tab + 1) % len(tabs)
			return m, m.replace()
		case "shift+tab":
			m.tab = (m.tab + len(tabs) - 1) % len(tabs)
			return m, m.replace()
		case "p":
			m.phase = nextPhase(m.phase)
			return m, m.replace()
		case "r":
			if m.refreshing {
				return m, nil
			}
			m.refreshing = true
			return m, refresh(m.src)
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// replace rebuilds the active screen for the current tab and phase. Any
// drill-down screens are closed first.
func (m AppModel) replace() tea.Cmd {
	m.router.PopToRoot()
	s := tabs[m.tab].build(m.src, m.phase)
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: s} }
}

func refresh(src screen.Source) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		return screen.RefreshedMsg{Err: src.Refresh(ctx)}
	}
}

func nextPhase(p assessment.TestType) assessment.TestType {
	phases := assessment.AllTestTypes()
	for i, t := range phases {
		if t == p {
			return phases[(i+1)%len(phases)]
		}
	}
	return phases[0]
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	labels := make([]string, len(tabs))
	for i, t := range tabs {
		labels[i] = t.label
	}
	status := m.phase.DisplayName()
	if m.refreshing {
		status = "refreshing… " + status
	}
	header := layout.RenderHeader(layout.RenderTabs(labels, m.tab), status, m.width)

	footerHints := []layout.KeyHint{
		{Key: "Tab", Description: "Next view"},
		{Key: "p", Description: "Phase"},
		{Key: "r", Description: "Refresh"},
	}
	if kp, ok := m.router.Active().(screen.KeyHintProvider); ok {
		footerHints = append(footerHints, kp.KeyHints()...)
	}
	footerHints = append(footerHints, layout.KeyHint{Key: "q", Description: "Quit"})
	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program on src.
func Run(src screen.Source) error {
	p := tea.NewProgram(newAppModel(src))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
