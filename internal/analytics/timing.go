package analytics

import (
	"math"

	"github.com/samber/lo"

	"github.com/abhisek/tbrite/internal/assessment"
	"github.com/abhisek/tbrite/internal/scoring"
)

// Pace buckets the average reading time of a skill.
type Pace string

const (
	PaceFast   Pace = "Fast"
	PaceNormal Pace = "Normal"
	PaceSlow   Pace = "Slow"
)

const (
	// NormalFromMinutes is the lower bound of the Normal bucket.
	NormalFromMinutes = 5.0
	// SlowFromMinutes is the lower bound of the Slow bucket.
	SlowFromMinutes = 10.0
)

// PaceFor buckets an average reading time in minutes.
func PaceFor(minutes float64) Pace {
	switch {
	case minutes >= SlowFromMinutes:
		return PaceSlow
	case minutes >= NormalFromMinutes:
		return PaceNormal
	default:
		return PaceFast
	}
}

// SkillTiming is the average reading time for one skill.
type SkillTiming struct {
	SkillID        string  `json:"skillId"`
	Title          string  `json:"title"`
	Submissions    int     `json:"submissions"`
	AvgTimeMinutes float64 `json:"avgTimeMinutes"`
	Pace           Pace    `json:"pace"`
}

// TimeBySkill averages reading duration per skill in the given phase. Rows
// follow skill order with the unknown bucket last. The pace bucket is taken
// from the rounded average so it always agrees with the displayed value.
func TimeBySkill(subs []assessment.Submission, materials []assessment.Material, skills []assessment.Skill, testType assessment.TestType) []SkillTiming {
	cat := newCatalog(materials, skills)
	groups := cat.groupBySkill(byPhase(subs, testType))

	ordered := cat.orderedSkills(groups)
	out := make([]SkillTiming, 0, len(ordered))
	for _, skill := range ordered {
		group := groups[skill.ID]
		var minutes float64
		if len(group) > 0 {
			total := lo.SumBy(group, func(s assessment.Submission) float64 { return nonNegative(s.Duration) })
			minutes = scoring.Round2(total / float64(len(group)) / 60)
		}
		out = append(out, SkillTiming{
			SkillID:        skill.ID,
			Title:          skill.Title,
			Submissions:    len(group),
			AvgTimeMinutes: minutes,
			Pace:           PaceFor(minutes),
		})
	}
	return out
}

// nonNegative maps NaN, Inf and negative durations to 0.
func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
