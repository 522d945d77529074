// Package instrumentation provides OpenTelemetry instrumentation for taskreport.
//
// A report run is short-lived, so the package favours exporters that work for
// batch jobs:
//   - Prometheus exporter backed by a private registry, optionally written to a
//     node_exporter textfile at exit (see Provider.WriteTextfile)
//   - OTLP/HTTP export for metrics and traces
//   - stdout exporters for local debugging
//
// # Metrics
//
//   - tasks_fetch_total: Counter of task API fetches by status
//   - tasks_fetch_duration_seconds: Histogram of fetch durations
//   - report_tasks_total: Gauge of tasks seen by the last report
//   - report_tasks_with_due: Gauge of tasks carrying a due value
//   - report_tasks_upcoming: Gauge of tasks with a due date not in the past
//
// # Tracing
//
// Spans are created for the fetch (tasks.fetch, client kind) and for the
// analysis (report.analyze). The HTTP request itself is traced by otelhttp.
//
// # Configuration
//
// Instrumentation can be configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: prometheus, otlp, stdout (default: prometheus)
//   - TRACING_EXPORTER: otlp, stdout, none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 1.0)
//   - OTEL_SERVICE_NAME: Service name (default: taskreport)
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	provider.Metrics().RecordFetch(ctx, instrumentation.StatusSuccess, time.Since(start))
//	_ = provider.WriteTextfile("/var/lib/node_exporter/taskreport.prom")
package instrumentation
