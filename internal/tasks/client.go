package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/valyala/fastjson"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/teemow/taskreport/internal/instrumentation"
	"github.com/teemow/taskreport/internal/logging"
)

// DefaultTimeout bounds a fetch when Options.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// MetricsRecorder receives the outcome of each fetch.
type MetricsRecorder interface {
	RecordFetch(ctx context.Context, status string, duration time.Duration)
}

// Options configures a Client.
type Options struct {
	// URL is the task list endpoint.
	URL string

	// Timeout bounds the whole exchange, body included.
	Timeout time.Duration

	// Query is sent as the q parameter when non-empty.
	Query string

	// HTTPClient overrides the default traced client. Its Timeout is replaced by Timeout.
	HTTPClient *http.Client

	// Metrics is optional.
	Metrics MetricsRecorder

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Client fetches tasks from the task API.
type Client struct {
	url     string
	query   string
	http    *http.Client
	metrics MetricsRecorder
	logger  *slog.Logger
}

// NewClient creates a Client from opts.
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var hc http.Client
	if opts.HTTPClient != nil {
		hc = *opts.HTTPClient
	} else {
		hc.Transport = otelhttp.NewTransport(http.DefaultTransport)
	}
	hc.Timeout = timeout

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		url:     opts.URL,
		query:   opts.Query,
		http:    &hc,
		metrics: opts.Metrics,
		logger:  logging.WithOperation(logger, "tasks.fetch"),
	}
}

// URL returns the endpoint the client calls.
func (c *Client) URL() string {
	return c.url
}

// FetchTasks performs a single GET against the endpoint and returns the records
// found in the data field of the response. A missing or null data field yields
// an empty slice. Any failure is a *FetchError.
func (c *Client) FetchTasks(ctx context.Context) ([]Task, error) {
	ctx, span := instrumentation.StartFetchSpan(ctx, logging.SanitizeURL(c.url))
	defer span.End()

	start := time.Now()
	result, err := c.fetch(ctx)
	duration := time.Since(start)

	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
		instrumentation.SetSpanError(span, err)
	} else {
		instrumentation.SetSpanSuccess(span)
	}
	if c.metrics != nil {
		c.metrics.RecordFetch(ctx, status, duration)
	}

	if err != nil {
		c.logger.Debug("fetch failed",
			logging.URL(c.url),
			logging.Status(status),
			logging.Duration(duration),
			logging.Err(err))
		return nil, err
	}

	c.logger.Debug("fetched tasks",
		logging.URL(c.url),
		logging.Status(status),
		logging.Duration(duration),
		logging.Count(len(result)))
	return result, nil
}

func (c *Client) fetch(ctx context.Context) ([]Task, error) {
	endpoint, err := c.requestURL()
	if err != nil {
		return nil, &FetchError{Kind: KindOther, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &FetchError{Kind: KindOther, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &FetchError{
			Kind:       KindHTTP,
			StatusCode: resp.StatusCode,
			Reason:     statusReason(resp),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(err)
	}

	return ParseEnvelope(body)
}

// requestURL appends the title filter to the endpoint, keeping any existing parameters.
func (c *Client) requestURL() (string, error) {
	if c.query == "" {
		return c.url, nil
	}
	u, err := url.Parse(c.url)
	if err != nil {
		return "", fmt.Errorf("invalid api url %q: %w", c.url, err)
	}
	q := u.Query()
	q.Set("q", c.query)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ParseEnvelope extracts the data array from a task API response body.
func ParseEnvelope(body []byte) ([]Task, error) {
	var p fastjson.Parser
	v, err := p.ParseBytes(body)
	if err != nil {
		return nil, &FetchError{Kind: KindDecode, Err: err}
	}

	if v.Type() != fastjson.TypeObject {
		return nil, &FetchError{
			Kind: KindOther,
			Err:  fmt.Errorf("response is a JSON %s, expected an object", v.Type()),
		}
	}

	data := v.Get("data")
	if data == nil || data.Type() == fastjson.TypeNull {
		return []Task{}, nil
	}
	if data.Type() != fastjson.TypeArray {
		return nil, &FetchError{
			Kind: KindOther,
			Err:  fmt.Errorf("data field is a JSON %s, expected an array", data.Type()),
		}
	}

	items := data.GetArray()
	result := make([]Task, 0, len(items))
	for _, item := range items {
		result = append(result, toTask(item))
	}
	return result, nil
}

// classifyTransportError maps an error from the HTTP round trip onto a FetchError.
// Cancellation of the caller's context is kept reachable through Unwrap.
func classifyTransportError(err error) *FetchError {
	if errors.Is(err, context.Canceled) {
		return &FetchError{Kind: KindOther, Err: err}
	}

	cause := err
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		cause = urlErr.Err
	}

	var netErr net.Error
	isNet := errors.As(cause, &netErr)
	timedOut := errors.Is(cause, context.DeadlineExceeded) || (isNet && netErr.Timeout())
	if isNet || timedOut {
		reason := cause.Error()
		if timedOut {
			reason = "timed out"
		}
		return &FetchError{Kind: KindNetwork, Reason: reason, Err: err}
	}

	return &FetchError{Kind: KindOther, Err: err}
}

// statusReason returns the reason phrase sent by the server, falling back to the
// standard text for the code when the status line carries none.
func statusReason(resp *http.Response) string {
	// resp.Status is "404 Not Found"; keep what follows the code.
	if _, reason, ok := strings.Cut(resp.Status, " "); ok {
		if reason = strings.TrimSpace(reason); reason != "" {
			return reason
		}
	}
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return resp.Status
}
