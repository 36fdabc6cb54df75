package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette, readable on dark terminals.
var (
	Primary   = lipgloss.Color("#2563EB") // Blue
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Tab = lipgloss.NewStyle().
		Foreground(TextDim).
		Padding(0, 1)

	ActiveTab = lipgloss.NewStyle().
			Foreground(Text).
			Background(Primary).
			Bold(true).
			Padding(0, 1)
)

// Pace colors match the timing buckets.
var (
	Fast   = lipgloss.NewStyle().Foreground(Success)
	Normal = lipgloss.NewStyle().Foreground(Accent)
	Slow   = lipgloss.NewStyle().Foreground(Error)
)
