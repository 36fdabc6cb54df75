package screen

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/tbrite/internal/report"
	"github.com/abhisek/tbrite/internal/ui/theme"
)

// tableChrome is the number of lines a rendered table uses besides its rows:
// title, borders and header.
const tableChrome = 5

// VisibleRows returns how many table rows fit in height.
func VisibleRows(height int) int {
	n := height - tableChrome
	if n < 1 {
		return 1
	}
	return n
}

// ClampOffset keeps a scroll offset inside [0, total-visible].
func ClampOffset(offset, total, visible int) int {
	if last := total - visible; offset > last {
		offset = last
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

// RenderTableWindow renders the rows of t starting at offset that fit in
// height, followed by a position line when rows are hidden.
func RenderTableWindow(t report.Table, offset, width, height int) string {
	total := len(t.Rows)
	visible := VisibleRows(height - 1)
	offset = ClampOffset(offset, total, visible)

	window := t
	end := offset + visible
	if end > total {
		end = total
	}
	window.Rows = t.Rows[offset:end]
	out := report.RenderTable(window, width)

	if total > visible {
		pos := theme.Hint.Render(fmt.Sprintf("rows %d-%d of %d", offset+1, end, total))
		out += "\n" + pos
	}
	return out
}

// RenderError renders a warning line above content.
func RenderError(err string, width int) string {
	return lipgloss.NewStyle().Width(width).Foreground(theme.Error).
		Render("Refresh failed, showing previous data: " + err)
}
