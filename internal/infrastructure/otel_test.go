package infrastructure

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"mpidash/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewOTelConfig(t *testing.T) {
	cfg := NewOTelConfig(config.TelemetryConfig{})
	assert.Equal(t, ServiceName, cfg.ServiceName)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "none", cfg.TraceExporter)
	assert.Equal(t, "prometheus", cfg.MetricExporter)

	cfg = NewOTelConfig(config.TelemetryConfig{
		ServiceName: "mpi-staging", Environment: "staging", TraceExporter: "stdout", MetricExporter: "none",
	})
	assert.Equal(t, "mpi-staging", cfg.ServiceName)
	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "stdout", cfg.TraceExporter)
	assert.Equal(t, "none", cfg.MetricExporter)
}

func TestInitializeOTel(t *testing.T) {
	tests := []struct {
		name        string
		cfg         *OTelConfig
		wantErr     bool
		wantTracer  bool
		wantMetrics bool
	}{
		{
			name:        "prometheus metrics, no tracing",
			cfg:         &OTelConfig{ServiceName: ServiceName, TraceExporter: "none", MetricExporter: "prometheus", SampleRatio: 1},
			wantMetrics: true,
		},
		{
			name:       "stdout tracing",
			cfg:        &OTelConfig{ServiceName: ServiceName, TraceExporter: "stdout", MetricExporter: "none", SampleRatio: 1},
			wantTracer: true,
		},
		{
			name: "everything disabled",
			cfg:  &OTelConfig{ServiceName: ServiceName, TraceExporter: "none", MetricExporter: "none"},
		},
		{
			name:    "unknown trace exporter",
			cfg:     &OTelConfig{TraceExporter: "jaeger", MetricExporter: "none"},
			wantErr: true,
		},
		{
			name:    "unknown metric exporter",
			cfg:     &OTelConfig{TraceExporter: "none", MetricExporter: "otlp"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			providers, err := InitializeOTel(tt.cfg, discardLogger())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, providers)

			assert.NotNil(t, providers.Tracer)
			assert.NotNil(t, providers.Meter)
			assert.Equal(t, tt.wantTracer, providers.TracerProvider != nil)
			assert.Equal(t, tt.wantMetrics, providers.MeterProvider != nil)
			assert.Equal(t, tt.wantMetrics, providers.PrometheusHTTP != nil)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			assert.NoError(t, providers.Shutdown(ctx))
		})
	}
}

func TestShutdownNilProviders(t *testing.T) {
	var p *OTelProviders
	assert.NoError(t, p.Shutdown(context.Background()))
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sumValue(t *testing.T, agg metricdata.Aggregation) int64 {
	t.Helper()
	sum, ok := agg.(metricdata.Sum[int64])
	require.True(t, ok, "not an int64 sum: %T", agg)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestPipelineMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	m, err := CreatePipelineMetrics(mp.Meter(MeterName))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordDatasetLoad(ctx, "data/sample_mpi.xlsx", 42, 150*time.Millisecond, nil)
	m.RecordDatasetLoad(ctx, "", 0, 10*time.Millisecond, errors.New("missing: data/x.xlsx"))
	m.RecordFilter(ctx, "kpis", 7)
	m.RecordExport(ctx, 7)
	m.TrackActiveRequest(ctx, 1)
	m.RecordHTTPRequest(ctx, "POST", "/api/dashboard/kpis", 200, 5*time.Millisecond)
	m.TrackActiveRequest(ctx, -1)

	data := collect(t, reader)
	assert.Equal(t, int64(2), sumValue(t, data["dataset_loads_total"]))
	assert.Equal(t, int64(1), sumValue(t, data["dataset_load_failures_total"]))
	assert.Equal(t, int64(1), sumValue(t, data["csv_exports_total"]))
	assert.Equal(t, int64(1), sumValue(t, data["http_requests_total"]))
	assert.Equal(t, int64(0), sumValue(t, data["http_active_requests"]))

	gauge, ok := data["dataset_rows"].(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, int64(42), gauge.DataPoints[0].Value)

	hist, ok := data["filter_matches"].(metricdata.Histogram[int64])
	require.True(t, ok)
	assert.Len(t, hist.DataPoints, 2)
}

func TestPipelineMetricsNilSafe(t *testing.T) {
	var m *PipelineMetrics
	ctx := context.Background()
	assert.NotPanics(t, func() {
		m.RecordDatasetLoad(ctx, "x", 1, time.Second, nil)
		m.RecordFilter(ctx, "map", 1)
		m.RecordExport(ctx, 1)
		m.RecordHTTPRequest(ctx, "GET", "/", 200, time.Second)
		m.TrackActiveRequest(ctx, 1)
	})
}
