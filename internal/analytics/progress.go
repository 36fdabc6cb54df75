package analytics

import (
	"sort"
	"time"

	"github.com/abhisek/tbrite/internal/assessment"
	"github.com/abhisek/tbrite/internal/scoring"
)

// Attempt is a scored submission with its material resolved.
type Attempt struct {
	SubmissionID  string              `json:"submissionId"`
	MaterialID    string              `json:"materialId"`
	MaterialTitle string              `json:"materialTitle"`
	SkillID       string              `json:"skillId"`
	TestType      assessment.TestType `json:"testType"`
	SubmittedAt   time.Time           `json:"submittedAt"`
	Result        scoring.Result      `json:"result"`
}

// PhaseProgress summarizes a student's attempts in one phase.
type PhaseProgress struct {
	TestType             assessment.TestType  `json:"testType"`
	Attempts             int                  `json:"attempts"`
	Latest               *Attempt             `json:"latest,omitempty"`
	AverageAccuracy      float64              `json:"averageAccuracy"`
	AverageWPM           float64              `json:"averageWpm"`
	AverageComprehension float64              `json:"averageComprehension"`
	AverageVocabulary    float64              `json:"averageVocabulary"`
	AverageOverall       float64              `json:"averageOverall"`
	Level                scoring.ReadingLevel `json:"level,omitempty"`
}

// SkillProgress compares a student's pre and post averages on one skill.
type SkillProgress struct {
	SkillID     string  `json:"skillId"`
	Title       string  `json:"title"`
	PreAverage  float64 `json:"preAverage"`
	PostAverage float64 `json:"postAverage"`
	Improvement float64 `json:"improvement"`
}

// Progress is the per-student dashboard.
type Progress struct {
	StudentID string          `json:"studentId"`
	Phases    []PhaseProgress `json:"phases"`
	Skills    []SkillProgress `json:"skills"`
	History   []Attempt       `json:"history"`
}

// StudentProgress builds the dashboard for one student. History is ordered
// by submission time, oldest first.
func StudentProgress(subs []assessment.Submission, materials []assessment.Material, skills []assessment.Skill, studentID string) Progress {
	cat := newCatalog(materials, skills)
	var mine []assessment.Submission
	for _, s := range subs {
		if s.StudentID == studentID {
			mine = append(mine, scoring.Reconcile(s))
		}
	}
	sort.SliceStable(mine, func(i, j int) bool {
		return mine[i].SubmittedAt.Before(mine[j].SubmittedAt)
	})

	p := Progress{StudentID: studentID, History: make([]Attempt, 0, len(mine))}
	for _, s := range mine {
		m, _ := cat.material(s.MaterialID)
		p.History = append(p.History, Attempt{
			SubmissionID:  s.ID,
			MaterialID:    s.MaterialID,
			MaterialTitle: m.Title,
			SkillID:       cat.skillOf(s),
			TestType:      s.TestType,
			SubmittedAt:   s.SubmittedAt,
			Result:        scoring.Score(s),
		})
	}

	for _, t := range assessment.AllTestTypes() {
		p.Phases = append(p.Phases, phaseProgress(t, p.History))
	}

	groups := cat.groupBySkill(mine)
	for _, skill := range cat.orderedSkills(groups) {
		group := groups[skill.ID]
		if len(group) == 0 {
			continue
		}
		pre := byPhase(group, assessment.PreTest)
		post := byPhase(group, assessment.PostTest)
		sp := SkillProgress{
			SkillID:     skill.ID,
			Title:       skill.Title,
			PreAverage:  scoring.Round2(meanTotal(pre)),
			PostAverage: scoring.Round2(meanTotal(post)),
		}
		if len(pre) > 0 && len(post) > 0 {
			sp.Improvement = scoring.Round2(meanTotal(post) - meanTotal(pre))
		}
		p.Skills = append(p.Skills, sp)
	}
	return p
}

func phaseProgress(t assessment.TestType, history []Attempt) PhaseProgress {
	pp := PhaseProgress{TestType: t}
	var results []scoring.Result
	for i := range history {
		if history[i].TestType != t {
			continue
		}
		pp.Latest = &history[i]
		results = append(results, history[i].Result)
	}
	pp.Attempts = len(results)
	if pp.Attempts == 0 {
		return pp
	}

	pp.AverageAccuracy = meanInt(results, func(r scoring.Result) (int, bool) {
		return r.Accuracy, !r.HasIssue(scoring.IssueNoWords)
	})
	pp.AverageWPM = meanInt(results, func(r scoring.Result) (int, bool) {
		return r.WPM, !r.HasIssue(scoring.IssueNoWords) && !r.HasIssue(scoring.IssueNoDuration)
	})
	pp.AverageComprehension = meanInt(results, func(r scoring.Result) (int, bool) {
		return r.ComprehensionCorrect, true
	})
	pp.AverageVocabulary = meanInt(results, func(r scoring.Result) (int, bool) {
		return r.VocabularyCorrect, true
	})
	pp.AverageOverall = meanInt(results, func(r scoring.Result) (int, bool) {
		return r.OverallScore, !r.HasIssue(scoring.IssueNoAnswers)
	})
	pp.Level = scoring.LevelForAccuracy(int(pp.AverageAccuracy + 0.5))
	return pp
}
