package report

import (
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/abhisek/tbrite/internal/ui/theme"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(theme.Primary)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(theme.Secondary).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	oddStyle    = cellStyle.Foreground(theme.TextDim)
	emptyStyle  = lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true)
)

// RenderTable draws t for a terminal. A width of 0 lets the table size
// itself to its content.
func RenderTable(t Table, width int) string {
	if len(t.Rows) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(t.Title), emptyStyle.Render("No data."))
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row%2 == 1:
				return oddStyle
			default:
				return cellStyle
			}
		}).
		Headers(t.Headers...).
		Rows(t.Rows...)
	if width > 0 {
		tbl = tbl.Width(width)
	}

	if t.Title == "" {
		return tbl.String()
	}
	return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(t.Title), tbl.String())
}
