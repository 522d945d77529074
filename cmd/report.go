package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	"github.com/teemow/taskreport/internal/config"
	"github.com/teemow/taskreport/internal/instrumentation"
	"github.com/teemow/taskreport/internal/logging"
	"github.com/teemow/taskreport/internal/report"
	"github.com/teemow/taskreport/internal/tasks"
)

const (
	fetchingNotice    = "\nObteniendo tareas de la API...\n"
	interruptedNotice = "\n\nProceso interrumpido por el usuario\n"
)

// shutdownTimeout bounds the final telemetry flush.
const shutdownTimeout = 5 * time.Second

// reportEnv carries what a run writes to and measures with.
type reportEnv struct {
	stdout   io.Writer
	stderr   io.Writer
	logger   *slog.Logger
	provider *instrumentation.Provider
	clock    clockwork.Clock
	styled   bool
}

func newReportCmd() *cobra.Command {
	var (
		apiURL          string
		timeout         string
		query           string
		logLevel        string
		metricsTextfile string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Fetch the task list and print the deadline report",
		Long: `Fetch the task list from the task API and print how many tasks exist,
which one is due next and how long is left until the end of its due day.

Every flag can also be set through the environment with the TASKREPORT_ prefix,
for example TASKREPORT_API_URL or TASKREPORT_TIMEOUT. Flags win over the environment.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed(config.KeyAPIURL) {
				cfg.APIURL = apiURL
			}
			if flags.Changed(config.KeyTimeout) {
				d, err := config.ParseTimeout(timeout)
				if err != nil {
					return fmt.Errorf("invalid --%s: %w", config.KeyTimeout, err)
				}
				cfg.Timeout = d
			}
			if flags.Changed(config.KeyQuery) {
				cfg.Query = query
			}
			if flags.Changed(config.KeyLogLevel) {
				cfg.LogLevel = logLevel
			}
			if flags.Changed(config.KeyMetricsTextfile) {
				cfg.MetricsTextfile = metricsTextfile
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			logger := logging.New(os.Stderr, logging.ParseLevel(cfg.LogLevel))
			logger = logging.WithRunID(logger, ulid.Make().String())

			instrConfig := instrumentation.DefaultConfig()
			instrConfig.ServiceVersion = version

			provider, err := instrumentation.NewProvider(ctx, instrConfig)
			if err != nil {
				return fmt.Errorf("failed to create instrumentation provider: %w", err)
			}

			return runReport(ctx, cfg, reportEnv{
				stdout:   cmd.OutOrStdout(),
				stderr:   cmd.ErrOrStderr(),
				logger:   logger,
				provider: provider,
				clock:    clockwork.NewRealClock(),
				styled:   logging.IsTerminal(os.Stdout),
			})
		},
	}

	def := config.Default()
	cmd.Flags().StringVar(&apiURL, config.KeyAPIURL, def.APIURL, "Task list endpoint. Can also use TASKREPORT_API_URL env var.")
	cmd.Flags().StringVar(&timeout, config.KeyTimeout, def.Timeout.String(), "Request timeout, e.g. 10s, 1m30s. Can also use TASKREPORT_TIMEOUT env var.")
	cmd.Flags().StringVar(&query, config.KeyQuery, "", "Only report tasks whose title matches this text. Can also use TASKREPORT_QUERY env var.")
	cmd.Flags().StringVar(&logLevel, config.KeyLogLevel, def.LogLevel, "Log level for stderr (debug, info, warn, error). Can also use TASKREPORT_LOG_LEVEL env var.")
	cmd.Flags().StringVar(&metricsTextfile, config.KeyMetricsTextfile, "", "Write run metrics to this file in Prometheus text format. Can also use TASKREPORT_METRICS_TEXTFILE env var.")

	return cmd
}

// runReport fetches the task list once and prints the report. Fetch failures are
// explained on env.stderr and returned as errReported. An interrupted run prints
// the farewell notice and returns nil.
func runReport(ctx context.Context, cfg config.Config, env reportEnv) error {
	logger := env.logger
	if logger == nil {
		logger = slog.Default()
	}

	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := env.provider.Shutdown(flushCtx); err != nil {
			logger.Warn("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	ctx, span := instrumentation.StartSpan(ctx, "report.run")
	defer span.End()
	logger.Debug("report started",
		slog.String("trace_id", instrumentation.GetTraceID(ctx)),
		logging.URL(cfg.APIURL))

	fmt.Fprint(env.stdout, fetchingNotice)

	client := tasks.NewClient(tasks.Options{
		URL:     cfg.APIURL,
		Timeout: cfg.Timeout,
		Query:   cfg.Query,
		Metrics: env.provider.Metrics(),
		Logger:  logger,
	})

	list, err := client.FetchTasks(ctx)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			fmt.Fprint(env.stdout, interruptedNotice)
			return nil
		}

		var fe *tasks.FetchError
		if errors.As(err, &fe) {
			logger.Debug("fetch failed",
				slog.String("kind", fe.Kind.String()),
				logging.URL(cfg.APIURL),
				logging.Err(err))
			fmt.Fprintln(env.stderr, fe.Message(cfg.BaseURL()))
			return errReported
		}
		return err
	}

	reporter := report.NewReporter(env.stdout,
		report.WithClock(env.clock),
		report.WithMetrics(env.provider.Metrics()),
		report.WithLogger(logger),
		report.WithStyledOutput(env.styled))

	if _, err := reporter.Report(ctx, list); err != nil {
		instrumentation.SetSpanError(span, err)
		return fmt.Errorf("failed to write report: %w", err)
	}

	if cfg.MetricsTextfile != "" {
		if err := env.provider.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Error("metrics textfile not written",
				slog.String("path", cfg.MetricsTextfile),
				logging.Err(err))
		}
	}

	instrumentation.SetSpanSuccess(span)
	return nil
}
