package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/tbrite/internal/assessment"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// answers builds an answer list from C/c (comprehension right/wrong) and
// V/v (vocabulary right/wrong).
func answers(pattern string) []assessment.Answer {
	var out []assessment.Answer
	for _, r := range pattern {
		switch r {
		case 'C':
			out = append(out, assessment.Answer{Type: assessment.Comprehension, IsCorrect: true})
		case 'c':
			out = append(out, assessment.Answer{Type: assessment.Comprehension})
		case 'V':
			out = append(out, assessment.Answer{Type: assessment.Vocabulary, IsCorrect: true})
		case 'v':
			out = append(out, assessment.Answer{Type: assessment.Vocabulary})
		}
	}
	return out
}

func sub(id, student, material string, t assessment.TestType, pattern string) assessment.Submission {
	return assessment.Submission{
		ID:         id,
		StudentID:  student,
		MaterialID: material,
		TestType:   t,
		Answers:    answers(pattern),
	}
}

func questions(n int) []assessment.Question {
	qs := make([]assessment.Question, n)
	for i := range qs {
		qs[i] = assessment.Question{
			Title:   "q",
			Options: []string{"a", "b", "c", "d"},
			Answer:  "a",
			Type:    assessment.Comprehension,
		}
	}
	return qs
}

var (
	skillA = assessment.Skill{ID: "A", Title: "Main idea"}
	skillB = assessment.Skill{ID: "B", Title: "Inference"}
)

func fixtureMaterials() []assessment.Material {
	return []assessment.Material{
		{ID: "mA", Title: "Passage A", Skill: "A", TestType: assessment.PreTest, Questions: questions(5)},
		{ID: "mB", Title: "Passage B", Skill: "B", TestType: assessment.PreTest, Questions: questions(5)},
		{ID: "mA2", Title: "Passage A2", Skill: "A", TestType: assessment.PostTest, Questions: questions(5)},
	}
}

func TestByStudent_ImprovementScenario(t *testing.T) {
	subs := []assessment.Submission{
		sub("1", "s1", "mA", assessment.PreTest, "CCCcv"),
		sub("2", "s2", "mA", assessment.PreTest, "CCCVv"),
		sub("3", "s1", "mA2", assessment.PostTest, "CCCVv"),
		sub("4", "s2", "mA2", assessment.PostTest, "CCVVc"),
	}

	got := ByStudent(subs, "")
	require.Len(t, got, 2)
	assert.Equal(t, "s1", got[0].StudentID)
	assert.True(t, almostEqual(got[0].Improvement, 1), "s1 improvement = %v", got[0].Improvement)
	assert.Equal(t, "s2", got[1].StudentID)
	assert.True(t, almostEqual(got[1].Improvement, 0), "s2 improvement = %v", got[1].Improvement)
	assert.Equal(t, 1, got[0].Rank)
	assert.Equal(t, 2, got[1].Rank)
	assert.True(t, got[0].Complete)
}

func TestByStudent_UsesAnswersNotCache(t *testing.T) {
	pre := sub("1", "s1", "mA", assessment.PreTest, "Ccccc")
	pre.ComprehensionScore = 5
	post := sub("2", "s1", "mA2", assessment.PostTest, "CCccc")
	post.ComprehensionScore = 0

	got := ByStudent([]assessment.Submission{pre, post}, "")
	require.Len(t, got, 1)
	assert.True(t, almostEqual(got[0].Improvement, 1))
}

func TestByStudent_StableTies(t *testing.T) {
	subs := []assessment.Submission{
		sub("1", "s3", "mA", assessment.PreTest, "CC"),
		sub("2", "s1", "mA", assessment.PreTest, "CC"),
		sub("3", "s2", "mA", assessment.PreTest, "CC"),
		sub("4", "s3", "mA2", assessment.PostTest, "CC"),
		sub("5", "s1", "mA2", assessment.PostTest, "CC"),
		sub("6", "s2", "mA2", assessment.PostTest, "CC"),
	}
	got := ByStudent(subs, "")
	require.Len(t, got, 3)
	assert.Equal(t, []string{"s3", "s1", "s2"}, []string{got[0].StudentID, got[1].StudentID, got[2].StudentID})
}

func TestByStudent_PhaseFilterAndIncomplete(t *testing.T) {
	subs := []assessment.Submission{
		sub("1", "s1", "mA", assessment.PreTest, "CC"),
		sub("2", "s1", "mA2", assessment.PostTest, "CCC"),
		sub("3", "s2", "mA2", assessment.PostTest, "CCCCC"),
	}

	pre := ByStudent(subs, assessment.PreTest)
	require.Len(t, pre, 1)
	assert.Equal(t, "s1", pre[0].StudentID)

	all := ByStudent(subs, "")
	require.Len(t, all, 2)
	assert.Equal(t, "s1", all[0].StudentID)
	s2 := all[1]
	assert.Equal(t, "s2", s2.StudentID)
	assert.False(t, s2.Complete)
	assert.Zero(t, s2.Improvement)
	assert.Zero(t, s2.PreAverage)
	assert.True(t, almostEqual(s2.PostAverage, 5))
}

func TestByStudent_IncompleteRankAfterDeclines(t *testing.T) {
	subs := []assessment.Submission{
		sub("1", "only-pre", "mA", assessment.PreTest, "CC"),
		sub("2", "dropped", "mA", assessment.PreTest, "CCCC"),
		sub("3", "dropped", "mA2", assessment.PostTest, "CC"),
		sub("4", "only-post", "mA2", assessment.PostTest, "C"),
		sub("5", "gained", "mA", assessment.PreTest, "C"),
		sub("6", "gained", "mA2", assessment.PostTest, "CCC"),
	}

	got := ByStudent(subs, "")
	require.Len(t, got, 4)
	var ids []string
	for _, r := range got {
		ids = append(ids, r.StudentID)
	}
	assert.Equal(t, []string{"gained", "dropped", "only-pre", "only-post"}, ids)
	assert.True(t, almostEqual(got[1].Improvement, -2))
	assert.False(t, got[2].Complete)
	assert.Equal(t, 4, got[3].Rank)
}

func TestByStudent_Empty(t *testing.T) {
	assert.Empty(t, ByStudent(nil, ""))
}

func TestBySkill_Ranking(t *testing.T) {
	subs := []assessment.Submission{
		sub("1", "s1", "mA", assessment.PreTest, "CCCcv"),
		sub("2", "s2", "mA", assessment.PreTest, "CCCVv"),
		sub("3", "s1", "missing", assessment.PreTest, "Cc"),
		sub("4", "s1", "mA2", assessment.PostTest, "CCCCC"),
	}
	got := BySkill(subs, fixtureMaterials(), []assessment.Skill{skillA, skillB}, assessment.PreTest)
	require.Len(t, got, 3)

	assert.Equal(t, "A", got[0].SkillID)
	assert.Equal(t, 7, got[0].TotalScore)
	assert.Equal(t, 10, got[0].HPS)
	assert.True(t, almostEqual(got[0].Percentage, 70))
	assert.Equal(t, 2, got[0].Students)

	assert.Equal(t, assessment.UnknownSkillID, got[1].SkillID)
	assert.Equal(t, 2, got[1].HPS)
	assert.True(t, almostEqual(got[1].Percentage, 50))

	assert.Equal(t, "B", got[2].SkillID)
	assert.Zero(t, got[2].Percentage)
	assert.Equal(t, 10, got[2].HPS)

	for i, r := range got {
		assert.Equal(t, i+1, r.Rank)
	}
}

func TestBySkill_NoSubmissions(t *testing.T) {
	got := BySkill(nil, fixtureMaterials(), []assessment.Skill{skillA, skillB}, assessment.PreTest)
	require.Len(t, got, 2)
	for _, r := range got {
		assert.Zero(t, r.Percentage)
		assert.Zero(t, r.HPS)
		assert.False(t, math.IsNaN(r.Percentage))
	}
	assert.Equal(t, "A", got[0].SkillID)
	assert.Equal(t, "B", got[1].SkillID)
}

func TestBySkill_QuestionCountFallback(t *testing.T) {
	materials := []assessment.Material{{ID: "m", Skill: "A", TestType: assessment.PreTest}}
	subs := []assessment.Submission{
		sub("1", "s1", "m", assessment.PreTest, "CCC"),
		sub("2", "s2", "m", assessment.PreTest, "Cccc"),
	}
	got := BySkill(subs, materials, []assessment.Skill{skillA}, assessment.PreTest)
	require.Len(t, got, 1)
	// 4 questions x 2 students.
	assert.Equal(t, 8, got[0].HPS)
	assert.True(t, almostEqual(got[0].Percentage, 50))
}

func TestBySkill_OrphanSkillGoesToUnknown(t *testing.T) {
	materials := []assessment.Material{{ID: "m", Skill: "deleted", TestType: assessment.PreTest, Questions: questions(2)}}
	subs := []assessment.Submission{sub("1", "s1", "m", assessment.PreTest, "CC")}
	got := BySkill(subs, materials, []assessment.Skill{skillA}, assessment.PreTest)
	require.Len(t, got, 2)
	assert.Equal(t, assessment.UnknownSkillID, got[0].SkillID)
	assert.True(t, almostEqual(got[0].Percentage, 100))
	assert.Equal(t, "A", got[1].SkillID)
}

func TestPaceFor(t *testing.T) {
	tests := []struct {
		minutes float64
		want    Pace
	}{
		{0, PaceFast},
		{4.99, PaceFast},
		{5, PaceNormal},
		{9.99, PaceNormal},
		{10, PaceSlow},
		{42, PaceSlow},
	}
	for _, tt := range tests {
		if got := PaceFor(tt.minutes); got != tt.want {
			t.Errorf("PaceFor(%v) = %s, want %s", tt.minutes, got, tt.want)
		}
	}
}

func TestTimeBySkill(t *testing.T) {
	a1 := sub("1", "s1", "mA", assessment.PreTest, "C")
	a1.Duration = 240
	a2 := sub("2", "s2", "mA", assessment.PreTest, "C")
	a2.Duration = 360
	u := sub("3", "s1", "missing", assessment.PreTest, "C")
	u.Duration = 725

	got := TimeBySkill([]assessment.Submission{a1, a2, u}, fixtureMaterials(), []assessment.Skill{skillA, skillB}, assessment.PreTest)
	require.Len(t, got, 3)

	assert.Equal(t, "A", got[0].SkillID)
	assert.True(t, almostEqual(got[0].AvgTimeMinutes, 5))
	assert.Equal(t, PaceNormal, got[0].Pace)

	assert.Equal(t, "B", got[1].SkillID)
	assert.Zero(t, got[1].AvgTimeMinutes)
	assert.Equal(t, PaceFast, got[1].Pace)

	assert.Equal(t, assessment.UnknownSkillID, got[2].SkillID)
	assert.True(t, almostEqual(got[2].AvgTimeMinutes, 12.08))
	assert.Equal(t, PaceSlow, got[2].Pace)
}

func TestFilter_Apply(t *testing.T) {
	s1 := sub("1", "s1", "mA", assessment.PreTest, "C")
	s1.Quarter = "Q1"
	s2 := sub("2", "s1", "mB", assessment.PreTest, "C")
	s2.Quarter = "Q2"
	s3 := sub("3", "s2", "mA2", assessment.PostTest, "C")
	s4 := sub("4", "s2", "gone", assessment.PostTest, "C")
	subs := []assessment.Submission{s1, s2, s3, s4}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"zero", Filter{}, []string{"1", "2", "3", "4"}},
		{"phase", Filter{TestType: assessment.PostTest}, []string{"3", "4"}},
		{"quarter", Filter{Quarter: "Q2"}, []string{"2"}},
		{"skill", Filter{SkillID: "A"}, []string{"1", "3"}},
		{"unknown skill", Filter{SkillID: assessment.UnknownSkillID}, []string{"4"}},
		{"material and phase", Filter{MaterialID: "mA", TestType: assessment.PostTest}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ids []string
			for _, s := range tt.filter.Apply(subs, fixtureMaterials(), []assessment.Skill{skillA, skillB}) {
				ids = append(ids, s.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestFilter_ApplyDeletedSkillIsUnknown(t *testing.T) {
	materials := append(fixtureMaterials(), assessment.Material{ID: "mD", Title: "Orphan", Skill: "deleted", Questions: questions(2)})
	skills := []assessment.Skill{skillA, skillB}
	subs := []assessment.Submission{
		sub("1", "s1", "mA", assessment.PreTest, "CC"),
		sub("2", "s1", "mD", assessment.PreTest, "Cc"),
	}

	unknown := Filter{SkillID: assessment.UnknownSkillID}.Apply(subs, materials, skills)
	require.Len(t, unknown, 1)
	assert.Equal(t, "2", unknown[0].ID)
	assert.Empty(t, Filter{SkillID: "deleted"}.Apply(subs, materials, skills))

	ranked := BySkill(unknown, materials, skills, "")
	require.Len(t, ranked, 3)
	assert.Equal(t, assessment.UnknownSkillID, ranked[0].SkillID)
	assert.Equal(t, 1, ranked[0].Submissions)
	assert.Equal(t, 2, ranked[0].HPS)
}

func TestBuildOverview(t *testing.T) {
	pre := sub("1", "s1", "mA", assessment.PreTest, "CCcc")
	pre.NumberOfWords = 100
	pre.Duration = 60
	pre.Miscues = []string{"a", "b"}
	pre.ComprehensionScore = 4 // stale cache
	post := sub("2", "s1", "mA2", assessment.PostTest, "CCCC")
	post.ComprehensionScore = 4
	other := sub("3", "s2", "mA", assessment.PreTest, "")

	ov := BuildOverview([]assessment.Submission{pre, post, other}, []assessment.Student{{ID: "s1"}, {ID: "s2"}, {ID: "s3"}})
	assert.Equal(t, 3, ov.RegisteredStudents)
	assert.Equal(t, 2, ov.ActiveStudents)
	assert.Equal(t, 1, ov.CompletedBoth)
	assert.Equal(t, 3, ov.Submissions)
	assert.Equal(t, 1, ov.Drifts)
	require.Len(t, ov.Phases, 2)

	p := ov.Phases[0]
	assert.Equal(t, assessment.PreTest, p.TestType)
	assert.Equal(t, 2, p.Submissions)
	assert.True(t, almostEqual(p.AverageScore, 1))
	assert.True(t, almostEqual(p.AverageOverall, 50))
	assert.True(t, almostEqual(p.AverageAccuracy, 98))
	assert.True(t, almostEqual(p.AverageWPM, 98))
	assert.Equal(t, 1, p.WithIssues)
}

func TestBuildOverview_Empty(t *testing.T) {
	ov := BuildOverview(nil, nil)
	assert.Zero(t, ov.Submissions)
	require.Len(t, ov.Phases, 2)
	assert.Zero(t, ov.Phases[0].AverageAccuracy)
}

func TestStudentProgress(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	first := sub("1", "s1", "mA", assessment.PreTest, "CCcvv")
	first.NumberOfWords, first.Duration, first.SubmittedAt = 100, 120, now
	second := sub("2", "s1", "mA2", assessment.PostTest, "CCCVv")
	second.NumberOfWords, second.Duration, second.SubmittedAt = 100, 60, now.Add(48*time.Hour)
	noise := sub("3", "s2", "mA", assessment.PreTest, "CCCCC")

	p := StudentProgress([]assessment.Submission{second, noise, first}, fixtureMaterials(), []assessment.Skill{skillA, skillB}, "s1")
	require.Len(t, p.History, 2)
	assert.Equal(t, "1", p.History[0].SubmissionID)
	assert.Equal(t, "Passage A", p.History[0].MaterialTitle)

	require.Len(t, p.Phases, 2)
	require.NotNil(t, p.Phases[0].Latest)
	assert.Equal(t, "1", p.Phases[0].Latest.SubmissionID)
	assert.True(t, almostEqual(p.Phases[0].AverageAccuracy, 100))
	assert.Equal(t, "independent", string(p.Phases[0].Level))
	assert.True(t, almostEqual(p.Phases[1].AverageWPM, 100))

	require.Len(t, p.Skills, 1)
	assert.Equal(t, "A", p.Skills[0].SkillID)
	assert.True(t, almostEqual(p.Skills[0].Improvement, 2))
}

func TestStudentProgress_Unknown(t *testing.T) {
	p := StudentProgress(nil, nil, nil, "nobody")
	assert.Empty(t, p.History)
	assert.Empty(t, p.Skills)
	require.Len(t, p.Phases, 2)
	assert.Nil(t, p.Phases[0].Latest)
}

func TestItemAnalysis(t *testing.T) {
	m := assessment.Material{ID: "m", Questions: questions(3)}
	subs := []assessment.Submission{
		sub("1", "s1", "m", assessment.PreTest, "CCc"),
		sub("2", "s2", "m", assessment.PreTest, "Cc"),
		sub("3", "s3", "other", assessment.PreTest, "ccc"),
	}
	items := ItemAnalysis(subs, m)
	require.Len(t, items, 3)
	assert.Equal(t, 2, items[0].Responses)
	assert.True(t, almostEqual(items[0].CorrectRate, 100))
	assert.True(t, almostEqual(items[1].CorrectRate, 50))
	assert.Equal(t, 1, items[2].Responses)
	assert.Zero(t, items[2].CorrectRate)
}

func TestItemAnalysis_NoQuestionBank(t *testing.T) {
	m := assessment.Material{ID: "m"}
	items := ItemAnalysis([]assessment.Submission{sub("1", "s1", "m", assessment.PreTest, "CV")}, m)
	require.Len(t, items, 2)
	assert.Equal(t, assessment.Vocabulary, items[1].Type)
}

func TestLessonCompletion(t *testing.T) {
	progress := []assessment.LessonProgress{
		{StudentID: "s2", LessonID: "l1", CompletedContents: []string{"a", "b"}, TotalContents: 2},
		{StudentID: "s1", LessonID: "l1", CompletedContents: []string{"a"}, TotalContents: 2},
		{StudentID: "s2", LessonID: "l2", TotalContents: 3},
	}
	got := LessonCompletion(progress)
	require.Len(t, got, 2)
	assert.Equal(t, LessonSummary{StudentID: "s2", Lessons: 2, Completed: 1, Percent: 50}, got[0])
	assert.Equal(t, LessonSummary{StudentID: "s1", Lessons: 1, Completed: 0, Percent: 0}, got[1])
}
