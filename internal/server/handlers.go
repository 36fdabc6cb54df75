package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/abhisek/tbrite/internal/analytics"
	"github.com/abhisek/tbrite/internal/assessment"
	"github.com/abhisek/tbrite/internal/store"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// parseFilter reads testType, quarter, skillId and materialId.
func parseFilter(r *http.Request) (analytics.Filter, error) {
	q := r.URL.Query()
	t, ok := assessment.ParseTestType(q.Get("testType"))
	if !ok {
		return analytics.Filter{}, fmt.Errorf("unknown testType %q", q.Get("testType"))
	}
	return analytics.Filter{
		TestType:   t,
		Quarter:    q.Get("quarter"),
		SkillID:    q.Get("skillId"),
		MaterialID: q.Get("materialId"),
	}, nil
}

// withFilter parses the filter and answers 400 on failure.
func withFilter(fn func(http.ResponseWriter, *http.Request, analytics.Filter)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := parseFilter(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		fn(w, r, f)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"status": "ok", "loaded": false}
	if ds := s.svc.Dataset(); ds != nil {
		resp["loaded"] = true
		resp["loadedAt"] = ds.LoadedAt.UTC().Format(time.RFC3339)
		resp["submissions"] = len(ds.Submissions)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSkillRanking(w http.ResponseWriter, r *http.Request, f analytics.Filter) {
	writeJSON(w, http.StatusOK, s.svc.SkillRanking(f))
}

func (s *Server) handleTiming(w http.ResponseWriter, r *http.Request, f analytics.Filter) {
	writeJSON(w, http.StatusOK, s.svc.Timing(f))
}

func (s *Server) handleStudentImprovement(w http.ResponseWriter, r *http.Request, f analytics.Filter) {
	writeJSON(w, http.StatusOK, s.svc.StudentImprovement(f))
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request, f analytics.Filter) {
	writeJSON(w, http.StatusOK, s.svc.Overview(f))
}

func (s *Server) handleSubmissions(w http.ResponseWriter, r *http.Request, f analytics.Filter) {
	writeJSON(w, http.StatusOK, s.svc.SubmissionRows(f))
}

func (s *Server) handleStudentProgress(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.StudentProgress(chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request, f analytics.Filter) {
	items, err := s.svc.Items(chi.URLParam(r, "id"), f)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleLessons(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Lessons())
}

func (s *Server) handleChapter(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Chapter())
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request, f analytics.Filter) {
	out, err := s.svc.CSV(f)
	if err != nil {
		s.log.Error("csv export", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="submissions.csv"`)
	_, _ = w.Write([]byte(out))
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request, f analytics.Filter) {
	var buf bytes.Buffer
	if err := s.svc.XLSX(&buf, f); err != nil {
		s.log.Error("xlsx export", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="report.xlsx"`)
	_, _ = w.Write(buf.Bytes())
}

// handleRefresh reloads the dataset. On failure the previous dataset stays
// in service and 503 is returned.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Refresh(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	ds := s.svc.Dataset()
	writeJSON(w, http.StatusOK, map[string]any{
		"loadedAt":    ds.LoadedAt.UTC().Format(time.RFC3339),
		"submissions": len(ds.Submissions),
	})
}
