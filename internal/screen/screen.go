package screen

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/tbrite/internal/analytics"
	"github.com/abhisek/tbrite/internal/report"
	"github.com/abhisek/tbrite/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Source is the analytics a dashboard screen reads from.
type Source interface {
	Refresh(ctx context.Context) error
	SkillRanking(f analytics.Filter) []analytics.SkillRanking
	StudentImprovement(f analytics.Filter) []analytics.StudentImprovement
	Timing(f analytics.Filter) []analytics.SkillTiming
	SubmissionRows(f analytics.Filter) []report.SubmissionRow
}

// RefreshedMsg is broadcast after the source was reloaded. Screens re-query
// on receipt. Err is set when the reload failed and stale data is shown.
type RefreshedMsg struct {
	Err error
}
