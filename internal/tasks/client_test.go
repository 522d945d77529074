package tasks

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/teemow/taskreport/internal/instrumentation"
)

type fetchCall struct {
	status string
}

type fakeMetrics struct {
	calls []fetchCall
}

func (f *fakeMetrics) RecordFetch(_ context.Context, status string, _ time.Duration) {
	f.calls = append(f.calls, fetchCall{status: status})
}

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchTasks_Success(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/tasks", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"_id":"65f0","title":"Preparar informe","due":"2025-03-20T09:00:00.000Z","createdAt":"2025-03-01T10:00:00.000Z"},{"title":"Sin fecha"}],"error":null}`))
	})

	metrics := &fakeMetrics{}
	client := NewClient(Options{URL: srv.URL + "/api/tasks", Metrics: metrics})

	list, err := client.FetchTasks(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []Task{
		{Title: "Preparar informe", Due: "2025-03-20T09:00:00.000Z", HasDue: true},
		{Title: "Sin fecha"},
	}, list)
	assert.Equal(t, []fetchCall{{status: "success"}}, metrics.calls)
}

func TestFetchTasks_Query(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "informe anual", r.URL.Query().Get("q"))
		assert.Equal(t, "1", r.URL.Query().Get("v"))
		_, _ = w.Write([]byte(`{"data":[]}`))
	})

	client := NewClient(Options{URL: srv.URL + "/api/tasks?v=1", Query: "informe anual"})

	list, err := client.FetchTasks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFetchTasks_EmptyEnvelopes(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty data", body: `{"data": []}`},
		{name: "missing data", body: `{"error": null}`},
		{name: "null data", body: `{"data": null, "error": "Internal server error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			list, err := NewClient(Options{URL: srv.URL}).FetchTasks(context.Background())
			require.NoError(t, err)
			assert.NotNil(t, list)
			assert.Empty(t, list)
		})
	}
}

func TestFetchTasks_HTTPError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		reason  string
		message string
	}{
		{name: "not found", status: http.StatusNotFound, reason: "Not Found", message: "ERROR HTTP: 404 - Not Found"},
		{name: "server error", status: http.StatusInternalServerError, reason: "Internal Server Error", message: "ERROR HTTP: 500 - Internal Server Error"},
		{name: "unknown code", status: 599, reason: "status code 599", message: "ERROR HTTP: 599 - status code 599"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"data":null,"error":"Internal server error"}`))
			})

			metrics := &fakeMetrics{}
			_, err := NewClient(Options{URL: srv.URL, Metrics: metrics}).FetchTasks(context.Background())

			var fe *FetchError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, KindHTTP, fe.Kind)
			assert.Equal(t, tt.status, fe.StatusCode)
			assert.Equal(t, tt.reason, fe.Reason)
			assert.Equal(t, tt.message, fe.Message("http://localhost:5000"))
			assert.Equal(t, []fetchCall{{status: "error"}}, metrics.calls)
		})
	}
}

func TestFetchTasks_DecodeError(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>502 Bad Gateway</html>`))
	})

	_, err := NewClient(Options{URL: srv.URL}).FetchTasks(context.Background())

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, KindDecode, fe.Kind)
	assert.Equal(t, "ERROR: Respuesta JSON inválida de la API", fe.Message("http://localhost:5000"))
}

func TestFetchTasks_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL + "/api/tasks"
	srv.Close()

	_, err := NewClient(Options{URL: url}).FetchTasks(context.Background())

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, KindNetwork, fe.Kind)
	assert.NotEmpty(t, fe.Reason)

	msg := fe.Message("http://localhost:5000")
	assert.Contains(t, msg, "ERROR de red: ")
	assert.Contains(t, msg, "\n   Asegúrate de que la API esté corriendo en http://localhost:5000")
}

func TestFetchTasks_Timeout(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	})

	_, err := NewClient(Options{URL: srv.URL, Timeout: 50 * time.Millisecond}).FetchTasks(context.Background())

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, KindNetwork, fe.Kind)
	assert.Equal(t, "timed out", fe.Reason)
}

func TestFetchTasks_Canceled(t *testing.T) {
	started := make(chan struct{})
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := NewClient(Options{URL: srv.URL}).FetchTasks(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestFetchTasks_CustomHTTPClient(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"title":"a"}]}`))
	})

	hc := &http.Client{Timeout: time.Hour}
	client := NewClient(Options{URL: srv.URL, HTTPClient: hc, Timeout: 2 * time.Second})

	list, err := client.FetchTasks(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, time.Hour, hc.Timeout, "caller's client must not be mutated")
	assert.Equal(t, srv.URL, client.URL())
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func statusClient(code int, status string) *http.Client {
	return &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: code,
			Status:     status,
			Header:     http.Header{},
			Body:       io.NopCloser(strings.NewReader("")),
			Request:    r,
		}, nil
	})}
}

func TestFetchTasks_ReasonPhrase(t *testing.T) {
	tests := []struct {
		name   string
		code   int
		status string
		want   string
	}{
		{name: "server phrase wins", code: 404, status: "404 Nada por aquí", want: "Nada por aquí"},
		{name: "custom phrase on known code", code: 503, status: "503 Back Soon", want: "Back Soon"},
		{name: "missing phrase", code: 404, status: "404", want: "Not Found"},
		{name: "blank phrase", code: 502, status: "502 ", want: "Bad Gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(Options{
				URL:        "http://localhost:5000/api/tasks",
				HTTPClient: statusClient(tt.code, tt.status),
			})

			_, err := client.FetchTasks(context.Background())

			var fe *FetchError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, KindHTTP, fe.Kind)
			assert.Equal(t, tt.want, fe.Reason)
		})
	}
}

func TestFetchTasks_SpanURLRedacted(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = tp.Shutdown(context.Background())
	})

	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": []}`))
	})
	endpoint := strings.Replace(srv.URL, "http://", "http://reporter:s3cret@", 1) + "/api/tasks"

	_, err := NewClient(Options{URL: endpoint}).FetchTasks(context.Background())
	require.NoError(t, err)

	var found bool
	for _, span := range recorder.Ended() {
		if span.Name() != "tasks.fetch" {
			continue
		}
		found = true
		for _, attr := range span.Attributes() {
			if string(attr.Key) == instrumentation.SpanAttrURL {
				assert.NotContains(t, attr.Value.AsString(), "s3cret")
				assert.Contains(t, attr.Value.AsString(), "/api/tasks")
			}
		}
	}
	assert.True(t, found, "expected a tasks.fetch span")
}
