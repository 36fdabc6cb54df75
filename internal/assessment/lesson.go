package assessment

import "time"

// LessonProgress tracks which content sections of a lesson a student has
// finished.
type LessonProgress struct {
	StudentID         string     `json:"studentId"`
	LessonID          string     `json:"lessonId"`
	CompletedContents []string   `json:"completedContents"`
	TotalContents     int        `json:"totalContents"`
	CompletedAt       *time.Time `json:"completedAt,omitempty"`
}

// CompletedCount returns the number of distinct completed sections.
func (p *LessonProgress) CompletedCount() int {
	seen := make(map[string]struct{}, len(p.CompletedContents))
	for _, c := range p.CompletedContents {
		seen[c] = struct{}{}
	}
	return len(seen)
}

// IsCompleted returns true once every section of the lesson is done.
func (p *LessonProgress) IsCompleted() bool {
	return p.TotalContents > 0 && p.CompletedCount() >= p.TotalContents
}

// MarkCompleted records a finished section. Repeated calls for the same
// section are no-ops. CompletedAt is stamped when the lesson first becomes
// complete and is never moved afterwards. Returns true if the section was new.
func (p *LessonProgress) MarkCompleted(contentID string, now time.Time) bool {
	for _, c := range p.CompletedContents {
		if c == contentID {
			return false
		}
	}
	p.CompletedContents = append(p.CompletedContents, contentID)
	if p.CompletedAt == nil && p.IsCompleted() {
		t := now
		p.CompletedAt = &t
	}
	return true
}

// Percent returns completion in [0, 100].
func (p *LessonProgress) Percent() float64 {
	if p.TotalContents <= 0 {
		return 0
	}
	pct := float64(p.CompletedCount()) / float64(p.TotalContents) * 100
	if pct > 100 {
		return 100
	}
	return pct
}
