package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/brhas/safety-metrics-service/internal/adapter/http"
	"github.com/brhas/safety-metrics-service/internal/domain"
	"github.com/brhas/safety-metrics-service/internal/report"
)

type mockBuilder struct {
	readyErr   error
	lastParams report.Params
}

func (m *mockBuilder) Build(p report.Params) report.Report {
	m.lastParams = p
	return report.Report{
		GeneratedAt: time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC),
		Yard:        p.Yard,
		Vehicle:     report.VehicleSummary{Total: 3, TotalBeforeFilter: 4},
		Trends: map[string]domain.TrendAlert{
			"Midland": {Yard: "Midland", Current: 4, Severity: "critical"},
		},
		Audits: []domain.ChecklistAudit{
			{Report: "Rig Audit Checklist", District: "Midland", Score: 50},
		},
	}
}

func (m *mockBuilder) CheckReadiness(_ context.Context) error { return m.readyErr }

func newTestServer(b *mockBuilder) *httpadapter.Server {
	return httpadapter.NewServer(":0", b, domain.DefaultRules(), slog.Default())
}

func get(srv *httpadapter.Server, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	rec := get(newTestServer(&mockBuilder{}), "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := get(newTestServer(&mockBuilder{}), "/readyz")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	rec := get(newTestServer(&mockBuilder{readyErr: fmt.Errorf("no report built yet")}), "/readyz")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "no report built yet", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	rec := get(newTestServer(&mockBuilder{}), "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestReportEndpoint(t *testing.T) {
	b := &mockBuilder{}
	rec := get(newTestServer(b), "/api/v1/report")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body report.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Vehicle.Total)
	assert.Nil(t, b.lastParams.Start)
}

func TestReportEndpoint_WindowAndYard(t *testing.T) {
	b := &mockBuilder{}
	rec := get(newTestServer(b), "/api/v1/report?start=2026-02-01&end=2026-02-14&yard=Midland")

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, b.lastParams.Start)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), *b.lastParams.Start)
	assert.Equal(t, time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC), *b.lastParams.End)
	assert.Equal(t, "Midland", b.lastParams.Yard)
}

func TestReportEndpoint_BadRequests(t *testing.T) {
	tests := []struct {
		name   string
		target string
		errMsg string
	}{
		{"malformed start", "/api/v1/report?start=02/01/2026&end=2026-02-14", "invalid start date"},
		{"malformed end", "/api/v1/report?start=2026-02-01&end=tomorrow", "invalid end date"},
		{"start without end", "/api/v1/report?start=2026-02-01", "together"},
		{"end before start", "/api/v1/report?start=2026-02-14&end=2026-02-01", "precedes"},
		{"unknown yard", "/api/v1/report?yard=Amarillo", "unknown yard"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(newTestServer(&mockBuilder{}), tt.target)

			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Contains(t, body["error"], tt.errMsg)
		})
	}
}

func TestTrendsEndpoint(t *testing.T) {
	rec := get(newTestServer(&mockBuilder{}), "/api/v1/trends")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]domain.TrendAlert
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Contains(t, body, "Midland")
	assert.Equal(t, "critical", body["Midland"].Severity)
}

func TestAuditsEndpoint(t *testing.T) {
	rec := get(newTestServer(&mockBuilder{}), "/api/v1/audits?yard=Midland")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body []domain.ChecklistAudit
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, 50, body[0].Score)
}
