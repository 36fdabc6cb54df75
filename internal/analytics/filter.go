package analytics

import (
	"github.com/samber/lo"

	"github.com/abhisek/tbrite/internal/assessment"
)

// Filter narrows a submission set. Empty fields match everything.
type Filter struct {
	TestType   assessment.TestType
	Quarter    string
	SkillID    string
	MaterialID string
}

// IsZero reports whether the filter matches every submission.
func (f Filter) IsZero() bool {
	return f == Filter{}
}

// Apply returns the submissions matching the filter. Materials and skills
// resolve SkillID the same way the rankings bucket submissions: an unknown
// material, or a material whose skill is not in skills, belongs to the
// Unknown bucket.
func (f Filter) Apply(subs []assessment.Submission, materials []assessment.Material, skills []assessment.Skill) []assessment.Submission {
	if f.IsZero() {
		return subs
	}
	cat := newCatalog(materials, skills)
	return lo.Filter(subs, func(s assessment.Submission, _ int) bool {
		if f.TestType != "" && s.TestType != f.TestType {
			return false
		}
		if f.Quarter != "" && s.Quarter != f.Quarter {
			return false
		}
		if f.MaterialID != "" && s.MaterialID != f.MaterialID {
			return false
		}
		if f.SkillID != "" && cat.skillOf(s) != f.SkillID {
			return false
		}
		return true
	})
}

// Materials returns the materials matching the filter's phase and quarter.
func (f Filter) Materials(materials []assessment.Material) []assessment.Material {
	return lo.Filter(materials, func(m assessment.Material, _ int) bool {
		if f.TestType != "" && m.TestType != "" && m.TestType != f.TestType {
			return false
		}
		if f.Quarter != "" && m.Quarter != "" && m.Quarter != f.Quarter {
			return false
		}
		return true
	})
}
