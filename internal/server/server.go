// Package server exposes the dashboard analytics over read-only HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/abhisek/tbrite/internal/config"
	"github.com/abhisek/tbrite/internal/dashboard"
)

const (
	requestTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Server routes HTTP requests to a dashboard service.
type Server struct {
	svc     *dashboard.Service
	cfg     config.ServerConfig
	log     *zap.Logger
	metrics *metrics
	handler http.Handler
}

// New builds the router. Metrics are kept in a registry owned by the server.
func New(svc *dashboard.Service, cfg config.ServerConfig, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &Server{
		svc:     svc,
		cfg:     cfg,
		log:     log,
		metrics: newMetrics(reg),
	}
	s.handler = s.routes(reg)
	return s
}

func (s *Server) routes(reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(s.requestLogger, s.metrics.middleware)
	r.Use(middleware.Timeout(requestTimeout))

	origins := s.cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition", "Content-Length"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	r.Route("/api", func(api chi.Router) {
		if s.cfg.RateLimit.Requests > 0 {
			api.Use(newRateLimiter(s.cfg.RateLimit.Requests, s.cfg.RateLimit.Window).middleware)
		}

		api.Get("/skills/ranking", withFilter(s.handleSkillRanking))
		api.Get("/skills/time", withFilter(s.handleTiming))
		api.Get("/students/improvement", withFilter(s.handleStudentImprovement))
		api.Get("/students/{id}/progress", s.handleStudentProgress)
		api.Get("/materials/{id}/items", withFilter(s.handleItems))
		api.Get("/overview", withFilter(s.handleOverview))
		api.Get("/submissions", withFilter(s.handleSubmissions))
		api.Get("/lessons", s.handleLessons)
		api.Get("/chapter", s.handleChapter)
		api.Get("/export/submissions.csv", withFilter(s.handleExportCSV))
		api.Get("/export/report.xlsx", withFilter(s.handleExportXLSX))
		api.Post("/refresh", s.handleRefresh)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves on the configured address until ctx is canceled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", zap.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.log.Info("http server stopped")
	return nil
}
