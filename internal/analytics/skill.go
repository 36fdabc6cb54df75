package analytics

import (
	"sort"

	"github.com/samber/lo"

	"github.com/abhisek/tbrite/internal/assessment"
	"github.com/abhisek/tbrite/internal/scoring"
)

// SkillRanking is one row of the skill performance ranking.
type SkillRanking struct {
	Rank        int     `json:"rank"`
	SkillID     string  `json:"skillId"`
	Title       string  `json:"title"`
	TotalScore  int     `json:"totalScore"`
	HPS         int     `json:"hps"`
	Percentage  float64 `json:"percentage"`
	Submissions int     `json:"submissions"`
	Students    int     `json:"students"`
}

// BySkill ranks skills by the share of the highest possible score their
// submissions earned in the given phase. An empty testType aggregates every
// phase.
//
// The highest possible score of a skill is the number of questions in its
// materials for the phase multiplied by the number of distinct students who
// submitted anything in that phase. A material without a question bank
// counts the largest answer list submitted for it. Submissions that cannot be
// resolved to a known skill land in a trailing "unknown" row whose HPS is the
// number of answers those submissions recorded.
func BySkill(subs []assessment.Submission, materials []assessment.Material, skills []assessment.Skill, testType assessment.TestType) []SkillRanking {
	cat := newCatalog(materials, skills)
	phase := scoring.ReconcileAll(byPhase(subs, testType))
	students := len(uniqueStudents(phase))
	groups := cat.groupBySkill(phase)
	questions := questionsPerSkill(cat, phase, testType)

	ordered := cat.orderedSkills(groups)
	out := make([]SkillRanking, 0, len(ordered))
	for _, skill := range ordered {
		group := groups[skill.ID]
		total := lo.SumBy(group, func(s assessment.Submission) int { return s.CachedTotal() })

		var hps int
		if skill.ID == assessment.UnknownSkillID {
			hps = lo.SumBy(group, func(s assessment.Submission) int { return len(s.Answers) })
		} else {
			hps = questions[skill.ID] * students
		}

		out = append(out, SkillRanking{
			SkillID:     skill.ID,
			Title:       skill.Title,
			TotalScore:  total,
			HPS:         hps,
			Percentage:  percentage(total, hps),
			Submissions: len(group),
			Students:    len(uniqueStudents(group)),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Percentage > out[j].Percentage
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// questionsPerSkill sums the question counts of each skill's materials in the
// phase. Materials without a phase are counted only when a submission in the
// phase references them.
func questionsPerSkill(cat *catalog, phase []assessment.Submission, testType assessment.TestType) map[string]int {
	maxAnswers := make(map[string]int)
	for _, s := range phase {
		if n := len(s.Answers); n > maxAnswers[s.MaterialID] {
			maxAnswers[s.MaterialID] = n
		}
	}

	out := make(map[string]int)
	for id, m := range cat.materials {
		if _, known := cat.skillIndex[m.Skill]; !known {
			continue
		}
		_, referenced := maxAnswers[id]
		switch {
		case testType == "":
		case m.TestType == testType:
		case m.TestType == "" && referenced:
		default:
			continue
		}
		n := m.QuestionCount()
		if n == 0 {
			n = maxAnswers[id]
		}
		out[m.Skill] += n
	}
	return out
}

// percentage returns round2(part / whole * 100), or 0 for an empty whole.
func percentage(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return scoring.Round2(float64(part) / float64(whole) * 100)
}
