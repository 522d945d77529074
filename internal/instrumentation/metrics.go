package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const attrStatus = "status"

// Metrics provides methods for recording observability metrics.
// The zero value is a no-op recorder.
type Metrics struct {
	fetchTotal    metric.Int64Counter
	fetchDuration metric.Float64Histogram

	tasksTotal    metric.Int64Gauge
	tasksWithDue  metric.Int64Gauge
	tasksUpcoming metric.Int64Gauge
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.fetchTotal, err = meter.Int64Counter(
		"tasks_fetch_total",
		metric.WithDescription("Total number of task API fetches"),
		metric.WithUnit("{fetch}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks_fetch_total counter: %w", err)
	}

	m.fetchDuration, err = meter.Float64Histogram(
		"tasks_fetch_duration_seconds",
		metric.WithDescription("Task API fetch duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks_fetch_duration_seconds histogram: %w", err)
	}

	m.tasksTotal, err = meter.Int64Gauge(
		"report_tasks_total",
		metric.WithDescription("Number of tasks in the last report"),
		metric.WithUnit("{task}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create report_tasks_total gauge: %w", err)
	}

	m.tasksWithDue, err = meter.Int64Gauge(
		"report_tasks_with_due",
		metric.WithDescription("Number of tasks carrying a due value in the last report"),
		metric.WithUnit("{task}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create report_tasks_with_due gauge: %w", err)
	}

	m.tasksUpcoming, err = meter.Int64Gauge(
		"report_tasks_upcoming",
		metric.WithDescription("Number of tasks whose due date is not in the past"),
		metric.WithUnit("{task}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create report_tasks_upcoming gauge: %w", err)
	}

	return m, nil
}

// RecordFetch records one task API fetch with its status and duration.
//
// Parameters:
//   - status: Result status ("success" or "error")
//   - duration: Time taken for the request, body included
func (m *Metrics) RecordFetch(ctx context.Context, status string, duration time.Duration) {
	if m == nil || m.fetchTotal == nil || m.fetchDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := metric.WithAttributes(attribute.String(attrStatus, status))
	m.fetchTotal.Add(ctx, 1, attrs)
	m.fetchDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordReport records the counts computed by one report.
func (m *Metrics) RecordReport(ctx context.Context, total, withDue, upcoming int) {
	if m == nil || m.tasksTotal == nil {
		return // Instrumentation not initialized
	}

	m.tasksTotal.Record(ctx, int64(total))
	m.tasksWithDue.Record(ctx, int64(withDue))
	m.tasksUpcoming.Record(ctx, int64(upcoming))
}
