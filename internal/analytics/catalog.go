package analytics

import (
	"github.com/samber/lo"

	"github.com/abhisek/tbrite/internal/assessment"
)

// catalog resolves submissions to materials and skills. Skills keep the
// order in which they were supplied; that order is the tie-break for every
// ranking.
type catalog struct {
	materials  map[string]assessment.Material
	skills     []assessment.Skill
	skillIndex map[string]int
}

func newCatalog(materials []assessment.Material, skills []assessment.Skill) *catalog {
	c := &catalog{
		materials:  lo.KeyBy(materials, func(m assessment.Material) string { return m.ID }),
		skillIndex: make(map[string]int, len(skills)),
	}
	for _, s := range skills {
		if _, dup := c.skillIndex[s.ID]; dup || s.ID == "" {
			continue
		}
		c.skillIndex[s.ID] = len(c.skills)
		c.skills = append(c.skills, s)
	}
	return c
}

// material returns the material a submission was taken on.
func (c *catalog) material(id string) (assessment.Material, bool) {
	m, ok := c.materials[id]
	return m, ok
}

// skillOf returns the skill ID a submission aggregates under, or
// UnknownSkillID when the material or its skill cannot be resolved.
func (c *catalog) skillOf(sub assessment.Submission) string {
	m, ok := c.materials[sub.MaterialID]
	if !ok {
		return assessment.UnknownSkillID
	}
	if _, ok := c.skillIndex[m.Skill]; !ok {
		return assessment.UnknownSkillID
	}
	return m.Skill
}

// skill returns the skill for id, falling back to the Unknown placeholder.
func (c *catalog) skill(id string) assessment.Skill {
	if i, ok := c.skillIndex[id]; ok {
		return c.skills[i]
	}
	return assessment.UnknownSkill()
}

// orderedSkills returns the known skills followed by Unknown when any
// submission fell into it.
func (c *catalog) orderedSkills(groups map[string][]assessment.Submission) []assessment.Skill {
	out := make([]assessment.Skill, 0, len(c.skills)+1)
	out = append(out, c.skills...)
	if len(groups[assessment.UnknownSkillID]) > 0 {
		out = append(out, assessment.UnknownSkill())
	}
	return out
}

func (c *catalog) groupBySkill(subs []assessment.Submission) map[string][]assessment.Submission {
	return lo.GroupBy(subs, c.skillOf)
}

func uniqueStudents(subs []assessment.Submission) []string {
	return lo.Uniq(lo.Map(subs, func(s assessment.Submission, _ int) string { return s.StudentID }))
}

func byPhase(subs []assessment.Submission, t assessment.TestType) []assessment.Submission {
	if t == "" {
		return subs
	}
	return lo.Filter(subs, func(s assessment.Submission, _ int) bool { return s.TestType == t })
}
