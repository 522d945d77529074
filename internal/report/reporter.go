package report

import (
	"context"
	"io"
	"log/slog"

	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel/attribute"

	"github.com/teemow/taskreport/internal/instrumentation"
	"github.com/teemow/taskreport/internal/logging"
	"github.com/teemow/taskreport/internal/tasks"
)

// MetricsRecorder receives the counts of each report.
type MetricsRecorder interface {
	RecordReport(ctx context.Context, total, withDue, upcoming int)
}

// Option configures a Reporter.
type Option func(r *Reporter)

// WithClock sets the clock used for "now". Defaults to the real clock.
func WithClock(c clockwork.Clock) Option {
	return func(r *Reporter) {
		r.clock = c
	}
}

// WithMetrics sets the recorder for report counts.
func WithMetrics(m MetricsRecorder) Option {
	return func(r *Reporter) {
		r.metrics = m
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Reporter) {
		r.logger = l
	}
}

// WithStyledOutput colours warning lines.
func WithStyledOutput(styled bool) Option {
	return func(r *Reporter) {
		r.styled = styled
	}
}

// Reporter analyzes task lists and writes the report to its output.
type Reporter struct {
	out     io.Writer
	clock   clockwork.Clock
	metrics MetricsRecorder
	logger  *slog.Logger
	styled  bool
}

// NewReporter creates a Reporter writing to out.
func NewReporter(out io.Writer, opts ...Option) *Reporter {
	r := &Reporter{
		out:   out,
		clock: clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	r.logger = logging.WithOperation(r.logger, "report.analyze")
	return r
}

// Report analyzes list against the current time and writes the report.
func (r *Reporter) Report(ctx context.Context, list []tasks.Task) (Summary, error) {
	ctx, span := instrumentation.StartSpan(ctx, "report.analyze",
		attribute.Int(instrumentation.SpanAttrTaskCount, len(list)))
	defer span.End()

	s := Analyze(list, r.clock.Now())

	span.SetAttributes(
		attribute.Int(instrumentation.SpanAttrWithDue, s.WithDue),
		attribute.Int(instrumentation.SpanAttrUpcoming, len(s.Upcoming)),
		attribute.String(instrumentation.SpanAttrDeadlineKind, s.Deadline.Kind.String()),
	)
	if r.metrics != nil {
		r.metrics.RecordReport(ctx, s.Total, s.WithDue, len(s.Upcoming))
	}

	r.logger.Debug("analyzed tasks",
		logging.Count(s.Total),
		slog.Int("with_due", s.WithDue),
		slog.Int("upcoming", len(s.Upcoming)),
		slog.String("deadline", s.Deadline.Kind.String()))

	if err := Render(r.out, s, WithStyles(r.styled)); err != nil {
		instrumentation.SetSpanError(span, err)
		return s, err
	}

	instrumentation.SetSpanSuccess(span)
	return s, nil
}
