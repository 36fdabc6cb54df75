// Package components holds small reusable view pieces.
package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/tbrite/internal/ui/theme"
)

// Bar is one labelled horizontal bar scaled to a 0-100 percentage.
type Bar struct {
	Label   string
	Percent float64
	// Width is the total rendered width including label and value.
	Width int
}

// View renders the bar as "label  ████░░░░  70.0%". Labels longer than
// labelWidth are truncated.
func (b Bar) View(labelWidth int) string {
	label := truncate(b.Label, labelWidth)
	label += strings.Repeat(" ", labelWidth-lipgloss.Width(label))

	value := fmt.Sprintf("%6.1f%%", clampPercent(b.Percent))
	barWidth := b.Width - labelWidth - lipgloss.Width(value) - 4
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * clampPercent(b.Percent) / 100)
	empty := barWidth - filled

	return lipgloss.NewStyle().Foreground(theme.Text).Render(label) + "  " +
		lipgloss.NewStyle().Foreground(theme.Secondary).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", empty)) + "  " +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(value)
}

// BarChart stacks bars with a shared label column.
func BarChart(bars []Bar) string {
	labelWidth := 0
	for _, b := range bars {
		labelWidth = max(labelWidth, lipgloss.Width(b.Label))
	}
	labelWidth = min(labelWidth, 28)

	lines := make([]string, len(bars))
	for i, b := range bars {
		lines[i] = b.View(labelWidth)
	}
	return strings.Join(lines, "\n")
}

func clampPercent(p float64) float64 {
	switch {
	case p < 0 || p != p:
		return 0
	case p > 100:
		return 100
	}
	return p
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
