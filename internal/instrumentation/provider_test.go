package instrumentation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newPrometheusProvider(t *testing.T, ctx context.Context) *Provider {
	t.Helper()
	provider, err := NewProvider(ctx, Config{
		ServiceName:       "test-service",
		ServiceVersion:    "1.0.0",
		Enabled:           true,
		MetricsExporter:   ExporterPrometheus,
		TracingExporter:   ExporterNone,
		TraceSamplingRate: 1,
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return provider
}

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{
		ServiceName:    "test-service",
		ServiceVersion: "1.0.0",
		Enabled:        false,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if provider.Enabled() {
		t.Error("expected provider to be disabled")
	}
	if provider.Metrics() == nil {
		t.Error("expected metrics to be non-nil even when disabled")
	}
	if provider.Tracer("test") == nil {
		t.Error("expected tracer to be non-nil (no-op)")
	}
	if err := provider.WriteTextfile(filepath.Join(t.TempDir(), "m.prom")); !errors.Is(err, ErrNoRegistry) {
		t.Errorf("expected ErrNoRegistry, got %v", err)
	}
	if err := provider.Shutdown(context.Background()); err != nil {
		t.Errorf("expected no error on shutdown, got %v", err)
	}
}

func TestNewProvider_PrometheusExporter(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider := newPrometheusProvider(t, ctx)

	if !provider.Enabled() {
		t.Error("expected provider to be enabled")
	}
	if provider.Registry() == nil {
		t.Error("expected registry to be non-nil for prometheus exporter")
	}
}

func TestNewProvider_TwoPrometheusProviders(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	first := newPrometheusProvider(t, ctx)
	second := newPrometheusProvider(t, ctx)

	if first.Registry() == second.Registry() {
		t.Error("expected each provider to own its registry")
	}
}

func TestNewProvider_StdoutExporter(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider, err := NewProvider(ctx, Config{
		ServiceName:       "test-service",
		ServiceVersion:    "1.0.0",
		Enabled:           true,
		MetricsExporter:   ExporterStdout,
		TracingExporter:   ExporterStdout,
		TraceSamplingRate: 1,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer func() { _ = provider.Shutdown(ctx) }()

	if provider.Registry() != nil {
		t.Error("expected registry to be nil for stdout exporter")
	}
}

func TestNewProvider_InvalidExporters(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{name: "metrics", config: Config{Enabled: true, MetricsExporter: "invalid", TracingExporter: ExporterNone}},
		{name: "tracing", config: Config{Enabled: true, MetricsExporter: ExporterPrometheus, TracingExporter: "invalid"}},
		{name: "otlp tracing without endpoint", config: Config{Enabled: true, MetricsExporter: ExporterPrometheus, TracingExporter: ExporterOTLP}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewProvider(context.Background(), tt.config); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestProvider_WriteTextfile(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider := newPrometheusProvider(t, ctx)
	provider.Metrics().RecordFetch(ctx, StatusSuccess, 120*time.Millisecond)
	provider.Metrics().RecordReport(ctx, 3, 2, 1)

	path := filepath.Join(t.TempDir(), "taskreport.prom")
	if err := provider.WriteTextfile(path); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read textfile: %v", err)
	}
	out := string(data)

	for _, want := range []string{"tasks_fetch_total", "tasks_fetch_duration_seconds", "report_tasks_total", "report_tasks_upcoming"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected textfile to contain %q", want)
		}
	}
}

func TestProvider_WriteTextfile_BadPath(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider := newPrometheusProvider(t, ctx)

	err := provider.WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "m.prom"))
	if err == nil {
		t.Fatal("expected error for unwritable path")
	}
	if errors.Is(err, ErrNoRegistry) {
		t.Error("expected a write error, not ErrNoRegistry")
	}
}
