package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/tbrite/internal/analytics"
	"github.com/abhisek/tbrite/internal/assessment"
	"github.com/abhisek/tbrite/internal/config"
	"github.com/abhisek/tbrite/internal/dashboard"
	"github.com/abhisek/tbrite/internal/store"
)

func newTestServer(t *testing.T, cfg config.ServerConfig) (*Server, *store.Store) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	st, err := store.Open(store.DriverSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	qs := []assessment.Question{
		{Title: "Q1", Options: []string{"a", "b", "c", "d"}, Answer: "a", Type: assessment.Comprehension},
		{Title: "Q2", Options: []string{"a", "b", "c", "d"}, Answer: "a", Type: assessment.Vocabulary},
	}
	require.NoError(t, st.SkillRepo().Upsert(ctx, assessment.Skill{ID: "s1", Title: "Main Idea"}))
	require.NoError(t, st.MaterialRepo().Upsert(ctx, assessment.Material{ID: "m1", Title: "The Fox", Skill: "s1", TestType: assessment.PreTest, Questions: qs}))
	require.NoError(t, st.MaterialRepo().Upsert(ctx, assessment.Material{ID: "m2", Title: "The Owl", Skill: "s1", TestType: assessment.PostTest, Questions: qs}))
	require.NoError(t, st.StudentRepo().Upsert(ctx, assessment.Student{ID: "alice", Name: "Alice"}))

	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for _, s := range []assessment.Submission{
		{ID: "p1", StudentID: "alice", MaterialID: "m1", TestType: assessment.PreTest, SubmittedAt: at,
			Answers: []assessment.Answer{{Type: assessment.Comprehension, IsCorrect: true}, {Type: assessment.Vocabulary}}},
		{ID: "q1", StudentID: "alice", MaterialID: "m2", TestType: assessment.PostTest, SubmittedAt: at.Add(time.Hour),
			Answers: []assessment.Answer{{Type: assessment.Comprehension, IsCorrect: true}, {Type: assessment.Vocabulary, IsCorrect: true}}},
	} {
		require.NoError(t, st.SubmissionRepo().Insert(ctx, s))
	}

	svc := dashboard.New(st, nil)
	require.NoError(t, svc.Refresh(ctx))
	return New(svc, cfg, nil), st
}

func do(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t, config.ServerConfig{})
	rec := do(t, s, http.MethodGet, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["loaded"])
	assert.Equal(t, float64(2), body["submissions"])
}

func TestSkillRanking(t *testing.T) {
	s, _ := newTestServer(t, config.ServerConfig{})
	rec := do(t, s, http.MethodGet, "/api/skills/ranking?testType=postTest")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	rows := decode[[]analytics.SkillRanking](t, rec)
	require.Len(t, rows, 1)
	assert.Equal(t, "s1", rows[0].SkillID)
	assert.Equal(t, 2, rows[0].TotalScore)
	assert.Equal(t, 100.0, rows[0].Percentage)
}

func TestBadTestType(t *testing.T) {
	s, _ := newTestServer(t, config.ServerConfig{})
	rec := do(t, s, http.MethodGet, "/api/skills/time?testType=midterm")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[map[string]string](t, rec)["error"], "midterm")
}

func TestStudentImprovement(t *testing.T) {
	s, _ := newTestServer(t, config.ServerConfig{})
	rec := do(t, s, http.MethodGet, "/api/students/improvement")
	require.Equal(t, http.StatusOK, rec.Code)
	rows := decode[[]analytics.StudentImprovement](t, rec)
	require.Len(t, rows, 1)
	assert.Equal(t, 1.0, rows[0].Improvement)
	assert.True(t, rows[0].Complete)
}

func TestStudentProgress(t *testing.T) {
	s, _ := newTestServer(t, config.ServerConfig{})

	rec := do(t, s, http.MethodGet, "/api/students/alice/progress")
	require.Equal(t, http.StatusOK, rec.Code)
	p := decode[analytics.Progress](t, rec)
	assert.Equal(t, "alice", p.StudentID)
	assert.Len(t, p.History, 2)

	rec = do(t, s, http.MethodGet, "/api/students/nobody/progress")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestItems(t *testing.T) {
	s, _ := newTestServer(t, config.ServerConfig{})
	rec := do(t, s, http.MethodGet, "/api/materials/m1/items")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]analytics.ItemStat](t, rec), 2)

	rec = do(t, s, http.MethodGet, "/api/materials/nope/items")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOverviewAndSubmissions(t *testing.T) {
	s, _ := newTestServer(t, config.ServerConfig{})

	ov := decode[analytics.Overview](t, do(t, s, http.MethodGet, "/api/overview"))
	assert.Equal(t, 2, ov.Submissions)
	assert.Equal(t, 1, ov.CompletedBoth)

	rows := decode[[]map[string]any](t, do(t, s, http.MethodGet, "/api/submissions?testType=pre_test"))
	require.Len(t, rows, 1)
	assert.Equal(t, "p1", rows[0]["submissionId"])
}

func TestExports(t *testing.T) {
	s, _ := newTestServer(t, config.ServerConfig{})

	rec := do(t, s, http.MethodGet, "/api/export/submissions.csv")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "submissions.csv")
	assert.Equal(t, 3, strings.Count(rec.Body.String(), "\n"))

	rec = do(t, s, http.MethodGet, "/api/export/report.xlsx")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	// XLSX is a zip archive.
	assert.True(t, strings.HasPrefix(rec.Body.String(), "PK"))
}

func TestRefresh(t *testing.T) {
	s, st := newTestServer(t, config.ServerConfig{})
	require.NoError(t, st.SubmissionRepo().Insert(context.Background(), assessment.Submission{
		ID: "p2", StudentID: "bob", MaterialID: "m1", TestType: assessment.PreTest,
	}))

	rec := do(t, s, http.MethodPost, "/api/refresh")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(3), decode[map[string]any](t, rec)["submissions"])

	require.NoError(t, st.Close())
	rec = do(t, s, http.MethodPost, "/api/refresh")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	// The previous dataset is still served.
	ov := decode[analytics.Overview](t, do(t, s, http.MethodGet, "/api/overview"))
	assert.Equal(t, 3, ov.Submissions)
}

func TestMethodAndRouteErrors(t *testing.T) {
	s, _ := newTestServer(t, config.ServerConfig{})
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, s, http.MethodGet, "/api/refresh").Code)

	rec := do(t, s, http.MethodGet, "/api/nothing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not found", decode[map[string]string](t, rec)["error"])
}

func TestMetricsUseRoutePatterns(t *testing.T) {
	s, _ := newTestServer(t, config.ServerConfig{})
	do(t, s, http.MethodGet, "/api/students/alice/progress")

	rec := do(t, s, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `tbrite_http_requests_total{method="GET",route="/api/students/{id}/progress",status="200"} 1`)
	assert.NotContains(t, body, "/api/students/alice/progress")
}

func TestRateLimit(t *testing.T) {
	s, _ := newTestServer(t, config.ServerConfig{RateLimit: config.RateLimitConfig{Requests: 2, Window: time.Hour}})

	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/api/overview").Code)
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/api/overview").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(t, s, http.MethodGet, "/api/overview").Code)
	// Health checks are not limited.
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/healthz").Code)
}

func TestRateLimiterSweepsIdleVisitors(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newRateLimiter(1, time.Minute)
	l.now = func() time.Time { return now }

	assert.True(t, l.allow("a"))
	assert.False(t, l.allow("a"))

	now = now.Add(10 * time.Minute)
	assert.True(t, l.allow("b"))
	l.mu.Lock()
	_, kept := l.visitors["a"]
	l.mu.Unlock()
	assert.False(t, kept)
}

func TestCORS(t *testing.T) {
	s, _ := newTestServer(t, config.ServerConfig{CORSOrigins: []string{"https://school.example"}})
	req := httptest.NewRequest(http.MethodGet, "/api/overview", nil)
	req.Header.Set("Origin", "https://school.example")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "https://school.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	s, _ := newTestServer(t, config.ServerConfig{Addr: "127.0.0.1:0"})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
