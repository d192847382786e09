package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zombar/realitycheck/pkg/tracing"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func newBufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, nil)), &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestHTTPLoggingMiddleware(t *testing.T) {
	logger, buf := newBufferLogger()

	handler := HTTPLoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"status":"queued"}`))
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/jobs?x=1", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	entry := decodeLine(t, buf)
	assert.Equal(t, "http_request", entry["msg"])
	assert.Equal(t, "POST", entry["method"])
	assert.Equal(t, "/api/jobs", entry["path"])
	assert.Equal(t, "x=1", entry["query"])
	assert.Equal(t, float64(http.StatusAccepted), entry["status"])
	assert.Equal(t, float64(19), entry["bytes"])
	assert.Equal(t, "", entry["trace_id"])
}

func TestHTTPLoggingMiddlewareLevels(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		status    int
		wantLevel string
	}{
		{name: "implicit ok", path: "/api/analyses", status: 0, wantLevel: "INFO"},
		{name: "client error", path: "/api/analyze", status: http.StatusBadRequest, wantLevel: "WARN"},
		{name: "server error", path: "/api/analyze", status: http.StatusInternalServerError, wantLevel: "ERROR"},
		{name: "failing probe still errors", path: "/health", status: http.StatusServiceUnavailable, wantLevel: "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferLogger()
			handler := HTTPLoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.status != 0 {
					w.WriteHeader(tt.status)
				}
				_, _ = w.Write([]byte("ok"))
			}))
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, nil))

			entry := decodeLine(t, buf)
			assert.Equal(t, tt.wantLevel, entry["level"])
			want := tt.status
			if want == 0 {
				want = http.StatusOK
			}
			assert.Equal(t, float64(want), entry["status"])
		})
	}
}

func TestHTTPLoggingMiddlewareQuietProbes(t *testing.T) {
	logger, buf := newBufferLogger()

	handler := HTTPLoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Zero(t, buf.Len())
}

func TestHTTPLoggingMiddlewareCacheHeader(t *testing.T) {
	logger, buf := newBufferLogger()

	handler := HTTPLoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Cache", "HIT")
		_, _ = w.Write([]byte("{}"))
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/analyze", nil))

	assert.Equal(t, "HIT", decodeLine(t, buf)["cache"])
}

func TestHTTPErrorLogger(t *testing.T) {
	tests := []struct {
		status    int
		wantLevel string
	}{
		{status: http.StatusNotFound, wantLevel: "WARN"},
		{status: http.StatusInternalServerError, wantLevel: "ERROR"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			logger, buf := newBufferLogger()

			req := httptest.NewRequest(http.MethodGet, "/api/analyses/missing", nil)
			HTTPErrorLogger(logger, tt.status, errors.New("analysis not found"), req)

			entry := decodeLine(t, buf)
			assert.Equal(t, "http_error", entry["msg"])
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, "analysis not found", entry["error"])
			assert.Equal(t, float64(tt.status), entry["status"])
		})
	}
}

func TestLogRequest(t *testing.T) {
	logger, buf := newBufferLogger()

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)
	LogRequest(logger, req, "cache hit", slog.String("key", "abc"))

	entry := decodeLine(t, buf)
	assert.Equal(t, "cache hit", entry["msg"])
	assert.Equal(t, "abc", entry["key"])
	assert.Equal(t, "/api/analyze", entry["path"])
}

func TestHTTPLoggingMiddlewareInsideTracing(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})

	logger, buf := newBufferLogger()

	var handlerTraceID string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerTraceID = tracing.TraceIDFromContext(r.Context())
	})
	handler := tracing.HTTPMiddleware("realitycheck-test")(HTTPLoggingMiddleware(logger)(inner))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/analyses", nil))

	entry := decodeLine(t, buf)
	require.NotEmpty(t, handlerTraceID)
	assert.Equal(t, handlerTraceID, entry["trace_id"])
	assert.NotEmpty(t, entry["span_id"])
}
