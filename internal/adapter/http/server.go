package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/brhas/safety-metrics-service/internal/domain"
	"github.com/brhas/safety-metrics-service/internal/report"
)

// ReportBuilder assembles reports for the API endpoints and doubles as the
// readiness check.
type ReportBuilder interface {
	Build(p report.Params) report.Report
	CheckReadiness(ctx context.Context) error
}

// Server exposes the report API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	reports    ReportBuilder
	rules      domain.Rules
	logger     *slog.Logger
}

// NewServer creates the HTTP server with all routes registered.
func NewServer(addr string, reports ReportBuilder, rules domain.Rules, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		reports: reports,
		rules:   rules,
		logger:  logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /api/v1/report", s.handleReport)
	mux.HandleFunc("GET /api/v1/trends", s.handleTrends)
	mux.HandleFunc("GET /api/v1/audits", s.handleAudits)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.reports.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	params, err := s.parseParams(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.reports.Build(params))
}

func (s *Server) handleTrends(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.reports.Build(report.Params{}).Trends)
}

func (s *Server) handleAudits(w http.ResponseWriter, r *http.Request) {
	params, err := s.parseParams(r)
	if err != nil {
		writeError(w, err)
		return
	}
	audits := s.reports.Build(params).Audits
	if audits == nil {
		audits = []domain.ChecklistAudit{}
	}
	writeJSON(w, http.StatusOK, audits)
}

// parseParams reads the optional start/end/yard query parameters. Window
// endpoints come as YYYY-MM-DD and must be given together.
func (s *Server) parseParams(r *http.Request) (report.Params, error) {
	q := r.URL.Query()
	var params report.Params

	startStr, endStr := q.Get("start"), q.Get("end")
	if (startStr == "") != (endStr == "") {
		return params, errors.New("start and end must be provided together")
	}
	if startStr != "" {
		start, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			return params, fmt.Errorf("invalid start date %q", startStr)
		}
		end, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			return params, fmt.Errorf("invalid end date %q", endStr)
		}
		if end.Before(start) {
			return params, errors.New("end date precedes start date")
		}
		params.Start, params.End = &start, &end
	}

	if yard := q.Get("yard"); yard != "" {
		if !s.rules.IsYard(yard) {
			return params, fmt.Errorf("unknown yard %q", yard)
		}
		params.Yard = yard
	}

	return params, nil
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
