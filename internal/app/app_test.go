package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mpidash/internal/config"
	"mpidash/internal/shared/testutil"
	"mpidash/pkg/contracts/domain"
)

func newTestApp(t *testing.T, withData bool) *Application {
	t.Helper()
	cfg := config.Default()
	cfg.Data.Dir = t.TempDir()
	cfg.Data.ExportDir = t.TempDir()
	cfg.Security.RateLimit.Enabled = false
	cfg.Telemetry.TraceExporter = "none"
	cfg.Telemetry.MetricExporter = "prometheus"
	if withData {
		testutil.WriteProjectsWorkbook(t, cfg.Data.Dir, "sample_mpi.xlsx", testutil.SampleRows())
	}

	logger, _ := testutil.NewTestLogger(t)
	a, err := New(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.OTelProviders.Shutdown(context.Background()) })
	return a
}

func do(t *testing.T, a *Application, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	return rec
}

func TestNewWiresServer(t *testing.T) {
	a := newTestApp(t, true)
	assert.Equal(t, ":8080", a.Server.Addr)
	assert.Equal(t, a.Router, a.Server.Handler)
	assert.NotNil(t, a.DashboardService)
	assert.NotNil(t, a.HealthService)
	assert.NotNil(t, a.OTelProviders.PrometheusHTTP)
}

func TestNewRejectsUnknownExporter(t *testing.T) {
	cfg := config.Default()
	cfg.Telemetry.TraceExporter = "jaeger"
	logger, _ := testutil.NewTestLogger(t)
	_, err := New(cfg, logger)
	assert.Error(t, err)
}

func TestHealthAndVersion(t *testing.T) {
	a := newTestApp(t, true)

	rec := do(t, a, http.MethodGet, config.HealthEndpoint, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec = do(t, a, http.MethodGet, "/api/version", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), config.AppVersion)
}

func TestDashboardEndToEnd(t *testing.T) {
	a := newTestApp(t, true)

	rec := do(t, a, http.MethodGet, config.DashboardEndpoint+"/options", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var opts domain.Options
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &opts))
	assert.Equal(t, []string{"Energy", "Mining", "Transport"}, opts.Sectors)

	rec = do(t, a, http.MethodPost, config.DashboardEndpoint+"/filter", `{"filter":{"province":["ON"]}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var filtered domain.FilteredDataset
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &filtered))
	require.Len(t, filtered.Rows, 1)
	assert.Equal(t, "Alpha Mine", filtered.Rows[0].Project)

	rec = do(t, a, http.MethodPost, config.DashboardEndpoint+"/kpis", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_projects":4`)
	assert.Contains(t, rec.Body.String(), `"8,350"`)

	rec = do(t, a, http.MethodPost, config.DashboardEndpoint+"/export", `{"filter":{"sector":["Energy"]}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "filtered_projects.csv")
	assert.Equal(t, 3, strings.Count(strings.TrimSpace(rec.Body.String()), "\n")+1)
}

func TestDashboardWithoutData(t *testing.T) {
	a := newTestApp(t, false)

	rec := do(t, a, http.MethodPost, config.DashboardEndpoint+"/filter", `{}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var filtered domain.FilteredDataset
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &filtered))
	assert.Empty(t, filtered.Rows)
	assert.Contains(t, filtered.SchemaMessage, "missing: ")

	rec = do(t, a, http.MethodGet, config.HealthEndpoint, "")
	assert.Contains(t, rec.Body.String(), `"status":"degraded"`)
}

func TestRequestErrors(t *testing.T) {
	a := newTestApp(t, true)

	tests := []struct {
		name        string
		method      string
		path        string
		body        string
		contentType string
		status      int
	}{
		{"top_n out of range", http.MethodPost, "/ranking", `{"top_n":99}`, "application/json", http.StatusBadRequest},
		{"invalid json", http.MethodPost, "/ranking", `{"top_n":`, "application/json", http.StatusBadRequest},
		{"wrong content type", http.MethodPost, "/ranking", `top_n=5`, "application/x-www-form-urlencoded", http.StatusUnsupportedMediaType},
		{"method not allowed", http.MethodGet, "/ranking", "", "", http.StatusMethodNotAllowed},
		{"unknown route", http.MethodGet, "/nope", "", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, config.DashboardEndpoint+tt.path, strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			a.Router.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	a := newTestApp(t, true)

	req := httptest.NewRequest(http.MethodOptions, config.DashboardEndpoint+"/filter", nil)
	req.Header.Set("Origin", "http://localhost:8050")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:8050", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	a := newTestApp(t, true)
	do(t, a, http.MethodPost, config.DashboardEndpoint+"/flow", `{}`)

	rec := do(t, a, http.MethodGet, config.MetricsEndpoint, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "dataset_loads_total")
	assert.Contains(t, body, "http_requests_total")
}

func TestRunAndStop(t *testing.T) {
	a := newTestApp(t, true)
	a.Server.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
