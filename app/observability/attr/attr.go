// Package attr holds the slog attribute helpers used by service logging.
package attr

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/trace"
)

func String(key, value string) slog.Attr { return slog.String(key, value) }
func Int(key string, value int) slog.Attr { return slog.Int(key, value) }
func Int64(key string, value int64) slog.Attr { return slog.Int64(key, value) }
func Float64(key string, v float64) slog.Attr { return slog.Float64(key, v) }
func Bool(key string, value bool) slog.Attr { return slog.Bool(key, value) }
func Any(key string, value any) slog.Attr { return slog.Any(key, value) }

// Error renders err under the "error" key. A nil error yields an empty attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String("error", err.Error())
}

// ExtractCorrelationID returns the request id set by the HTTP middleware,
// falling back to the active trace id.
func ExtractCorrelationID(ctx context.Context) slog.Attr {
	if id := middleware.GetReqID(ctx); id != "" {
		return slog.String("correlation_id", id)
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		return slog.String("correlation_id", sc.TraceID().String())
	}
	return slog.Attr{}
}
