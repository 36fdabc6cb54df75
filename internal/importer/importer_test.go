package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/tbrite/internal/assessment"
	"github.com/abhisek/tbrite/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := store.Open(store.DriverSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

const submissionsJSON = `[
  {
    "id": "x1",
    "studentId": "s1",
    "materialId": "m1",
    "testType": "preTest",
    "answers": [
      {"type": "COMPREHENSION", "answer": "red", "isCorrect": true},
      {"type": "VOCABULARY", "answer": "big", "isCorrect": false}
    ],
    "comprehensionScore": 1,
    "vocabularyScore": 0,
    "numberOfWords": 100,
    "duration": 120,
    "miscues": ["the", "cat"],
    "submittedAt": {"_seconds": 1767225600, "_nanoseconds": 0}
  },
  {
    "studentId": "s2",
    "materialId": "m1",
    "testType": "post_test",
    "answers": [],
    "submittedAt": "2026-01-02T08:00:00Z"
  },
  {
    "id": "bad",
    "studentId": "",
    "materialId": "m1",
    "testType": "pre_test"
  },
  {
    "id": "x1",
    "studentId": "s1",
    "materialId": "m1",
    "testType": "pre_test"
  }
]`

func TestImportSubmissions(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	im := New(st, Options{})

	res, err := im.Import(ctx, KindSubmissions, strings.NewReader(submissionsJSON))
	require.NoError(t, err)
	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 1, res.Invalid)

	require.Len(t, res.Errors, 1)
	var invalid *ErrInvalidDocument
	require.True(t, errors.As(res.Errors[0], &invalid))
	assert.Equal(t, 2, invalid.Index)

	got, err := st.SubmissionRepo().Get(ctx, "x1")
	require.NoError(t, err)
	assert.Equal(t, assessment.PreTest, got.TestType)
	assert.Equal(t, []string{"the", "cat"}, got.Miscues)
	assert.True(t, got.SubmittedAt.Equal(time.Unix(1767225600, 0)))

	all, err := st.SubmissionRepo().List(ctx, store.SubmissionFilter{StudentID: "s2"})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.NotEmpty(t, all[0].ID, "missing ids are generated")
	assert.Equal(t, assessment.PostTest, all[0].TestType)
}

func TestImportStrictStopsAtFirstInvalid(t *testing.T) {
	st := openTestStore(t)
	im := New(st, Options{Strict: true})

	res, err := im.Import(context.Background(), KindSubmissions, strings.NewReader(submissionsJSON))
	require.Error(t, err)
	var invalid *ErrInvalidDocument
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, KindSubmissions, invalid.Kind)
	assert.Equal(t, 2, invalid.Index)
	assert.Equal(t, 2, res.Imported)
}

func TestImportRejectsNonArray(t *testing.T) {
	st := openTestStore(t)
	_, err := New(st, Options{}).Import(context.Background(), KindSkills, strings.NewReader(`"nope"`))
	var invalid *ErrInvalidDocument
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, -1, invalid.Index)
}

func TestImportUnknownKind(t *testing.T) {
	st := openTestStore(t)
	_, err := New(st, Options{}).Import(context.Background(), Kind("widgets"), strings.NewReader(`[]`))
	assert.Error(t, err)
}

func TestImportMaterialsWarnsOnBadQuestions(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	doc := `[{
		"id": "m1", "title": "Barn", "text": "A red barn.", "skill": "k1", "testType": "preTest",
		"questions": [
			{"title": "Color?", "options": ["red", "blue", "green", "gold"], "answer": "red", "type": "COMPREHENSION"},
			{"title": "Size?", "options": ["big", "small", "tiny"], "answer": "huge", "type": "VOCABULARY"}
		]
	}]`
	res, err := New(st, Options{}).Import(ctx, KindMaterials, strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	assert.Len(t, res.Warnings, 2)

	m, err := st.MaterialRepo().Get(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, assessment.PreTest, m.TestType)
	assert.Equal(t, 2, m.QuestionCount())
}

func TestImportSkillsStudentsChapterLessons(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	im := New(st, Options{Now: func() time.Time { return now }})

	_, err := im.Import(ctx, KindSkills, strings.NewReader(`[{"id":"k1","title":"Main idea"}]`))
	require.NoError(t, err)
	_, err = im.Import(ctx, KindStudents, strings.NewReader(`[{"id":"s1","name":"Ana","email":"ana@example.com"}]`))
	require.NoError(t, err)
	_, err = im.Import(ctx, KindChapter, strings.NewReader(`{"activeChapter":"ch-3","preTestEnabled":true}`))
	require.NoError(t, err)
	_, err = im.Import(ctx, KindLessons, strings.NewReader(`[
		{"studentId":"s1","lessonId":"l1","completedContents":["a","b"],"totalContents":2},
		{"studentId":"s1","lessonId":"l2","completedContents":["a"],"totalContents":3}
	]`))
	require.NoError(t, err)

	skills, err := st.SkillRepo().List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []assessment.Skill{{ID: "k1", Title: "Main idea"}}, skills)

	students, err := st.StudentRepo().List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ana", students[0].Name)

	cfg, err := st.ConfigRepo().Chapter(ctx)
	require.NoError(t, err)
	assert.Equal(t, assessment.ChapterConfig{ActiveChapter: "ch-3", PreTestEnabled: true}, cfg)

	l1, err := st.LessonRepo().Get(ctx, "s1", "l1")
	require.NoError(t, err)
	require.NotNil(t, l1.CompletedAt)
	assert.True(t, l1.CompletedAt.Equal(now))
	l2, err := st.LessonRepo().Get(ctx, "s1", "l2")
	require.NoError(t, err)
	assert.Nil(t, l2.CompletedAt)
}

func TestImportFileInfersKind(t *testing.T) {
	st := openTestStore(t)
	path := filepath.Join(t.TempDir(), "skills.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"k1","title":"Main idea"}]`), 0o644))

	res, err := New(st, Options{}).ImportFile(context.Background(), "", path)
	require.NoError(t, err)
	assert.Equal(t, KindSkills, res.Kind)
	assert.Equal(t, 1, res.Imported)
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
		ok   bool
	}{
		{"submissions", KindSubmissions, true},
		{"/tmp/export/Materials.json", KindMaterials, true},
		{"lesson_progress.json", KindLessons, true},
		{"chapter", KindChapter, true},
		{"widgets.json", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseKind(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseKind(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFlexTime(t *testing.T) {
	want := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		in   string
		want time.Time
	}{
		{`"2026-01-01T00:00:00Z"`, want},
		{`"2026-01-01"`, want},
		{`1767225600`, want},
		{`1767225600000`, want},
		{`{"seconds": 1767225600}`, want},
		{`{"_seconds": 1767225600, "_nanoseconds": 0}`, want},
		{`null`, time.Time{}},
	}
	for _, tt := range tests {
		var ft flexTime
		if err := ft.UnmarshalJSON([]byte(tt.in)); err != nil {
			t.Errorf("UnmarshalJSON(%s): %v", tt.in, err)
			continue
		}
		if !ft.Time.Equal(tt.want) {
			t.Errorf("UnmarshalJSON(%s) = %v, want %v", tt.in, ft.Time, tt.want)
		}
	}

	var ft flexTime
	if err := ft.UnmarshalJSON([]byte(`"yesterday"`)); err == nil {
		t.Error("expected error for unparseable timestamp")
	}
}
