package report

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Placeholder is shown for missing values.
const Placeholder = "—"

// DefaultDateLayout is used when FormatDate is given an empty layout.
const DefaultDateLayout = "2006-01-02 15:04"

// MiscueSeparator joins miscue words in a single cell.
const MiscueSeparator = "; "

// FormatDuration renders seconds as "Xm Ys" from one minute up, else "Xs".
// Negative, NaN and Inf durations render as "0s".
func FormatDuration(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		seconds = 0
	}
	total := int(math.Round(seconds))
	if total >= 60 {
		return fmt.Sprintf("%dm %ds", total/60, total%60)
	}
	return fmt.Sprintf("%ds", total)
}

// FormatDate renders t with layout. A zero time renders as
// Placeholder.
func FormatDate(t time.Time, layout string) string {
	if t.IsZero() {
		return Placeholder
	}
	if layout == "" {
		layout = DefaultDateLayout
	}
	return t.Format(layout)
}

// orPlaceholder returns s, or Placeholder when s is blank.
func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func formatSigned(v float64) string {
	if v > 0 {
		return fmt.Sprintf("+%.2f", v)
	}
	return formatFloat(v)
}
