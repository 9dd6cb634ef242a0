// Package observability builds the process logger, tracer and metrics
// registry shared by every module.
package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Config selects the logger output and names the service.
type Config struct {
	ServiceName string
	Environment string
	LogLevel    string
	LogFormat   string
	// Output defaults to stdout.
	Output io.Writer
}

// Observability bundles the logger, tracer and metrics registry.
type Observability struct {
	Logger   *slog.Logger
	Tracer   trace.Tracer
	Registry *prometheus.Registry
}

// Init wires the observability stack. Spans go to the global otel provider.
func Init(cfg Config) Observability {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	logger := NewLogger(out, cfg.LogLevel, cfg.LogFormat).With(
		slog.String("service", cfg.ServiceName),
		slog.String("environment", cfg.Environment),
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return Observability{
		Logger:   logger,
		Tracer:   otel.Tracer(cfg.ServiceName),
		Registry: registry,
	}
}

// NewLogger returns a JSON or text slog logger at the given level.
func NewLogger(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
