// Package logging provides slog helpers for the HTTP surface. Every entry
// carries the active trace and span ids so logs can be joined with traces.
package logging

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/zombar/realitycheck/pkg/tracing"
)

// quietPaths are probe endpoints logged at debug level only
var quietPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// statusRecorder captures the status code and body size written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status       int
	bytesWritten int64
	wroteHeader  bool
}

func (rw *statusRecorder) WriteHeader(status int) {
	if !rw.wroteHeader {
		rw.status = status
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(status)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += int64(n)
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *statusRecorder) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// HTTPLoggingMiddleware writes one "http_request" entry per request. The
// level follows the status: 5xx is error, 4xx is warn, probes are debug.
func HTTPLoggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("query", r.URL.RawQuery),
				slog.Int("status", rec.status),
				slog.Int64("bytes", rec.bytesWritten),
				slog.Float64("duration_ms", float64(time.Since(start).Microseconds())/1000),
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("user_agent", r.UserAgent()),
			}
			if cache := rec.Header().Get("X-Cache"); cache != "" {
				attrs = append(attrs, slog.String("cache", cache))
			}
			attrs = append(attrs, traceAttrs(r.Context())...)

			level := statusLevel(rec.status)
			if level == slog.LevelInfo && quietPaths[r.URL.Path] {
				level = slog.LevelDebug
			}
			logger.LogAttrs(r.Context(), level, "http_request", attrs...)
		})
	}
}

// HTTPErrorLogger logs the cause behind an error response. Client errors
// are logged as warnings.
func HTTPErrorLogger(logger *slog.Logger, statusCode int, err error, r *http.Request) {
	attrs := []slog.Attr{
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", statusCode),
		slog.String("error", err.Error()),
		slog.String("remote_addr", r.RemoteAddr),
	}
	attrs = append(attrs, traceAttrs(r.Context())...)

	level := statusLevel(statusCode)
	if level == slog.LevelInfo {
		level = slog.LevelWarn
	}
	logger.LogAttrs(r.Context(), level, "http_error", attrs...)
}

// LogRequest logs a request-scoped event with trace correlation
func LogRequest(logger *slog.Logger, r *http.Request, msg string, attrs ...slog.Attr) {
	all := make([]slog.Attr, 0, len(attrs)+4)
	all = append(all,
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)
	all = append(all, traceAttrs(r.Context())...)
	all = append(all, attrs...)
	logger.LogAttrs(r.Context(), slog.LevelInfo, msg, all...)
}

func traceAttrs(ctx context.Context) []slog.Attr {
	return []slog.Attr{
		slog.String("trace_id", tracing.TraceIDFromContext(ctx)),
		slog.String("span_id", tracing.SpanIDFromContext(ctx)),
	}
}

func statusLevel(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
