package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OperationMetrics records attempts, outcomes and latency of service operations.
type OperationMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, d time.Duration)
}

// RatingMetrics adds rating-engine gauges to OperationMetrics.
type RatingMetrics interface {
	OperationMetrics
	RecordTierDistribution(ctx context.Context, counts map[string]int)
	RecordGhostPenalties(ctx context.Context, n int)
}

type operationMetrics struct {
	attempts  *prometheus.CounterVec
	successes *prometheus.CounterVec
	failures  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewOperationMetrics registers operation counters under namespace.
func NewOperationMetrics(reg prometheus.Registerer, namespace string) OperationMetrics {
	return newOperationMetrics(reg, namespace)
}

func newOperationMetrics(reg prometheus.Registerer, namespace string) *operationMetrics {
	labels := []string{"operation", "service"}
	m := &operationMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_attempts_total",
			Help:      "Service operations started.",
		}, labels),
		successes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_success_total",
			Help:      "Service operations that returned without an infrastructure error.",
		}, labels),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_failures_total",
			Help:      "Service operations that returned an infrastructure error or panicked.",
		}, labels),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Service operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, labels),
	}
	reg.MustRegister(m.attempts, m.successes, m.failures, m.duration)
	return m
}

func (m *operationMetrics) RecordOperationAttempt(_ context.Context, operation, service string) {
	m.attempts.WithLabelValues(operation, service).Inc()
}

func (m *operationMetrics) RecordOperationSuccess(_ context.Context, operation, service string) {
	m.successes.WithLabelValues(operation, service).Inc()
}

func (m *operationMetrics) RecordOperationFailure(_ context.Context, operation, service string) {
	m.failures.WithLabelValues(operation, service).Inc()
}

func (m *operationMetrics) RecordOperationDuration(_ context.Context, operation, service string, d time.Duration) {
	m.duration.WithLabelValues(operation, service).Observe(d.Seconds())
}

type ratingMetrics struct {
	*operationMetrics
	tiers  *prometheus.GaugeVec
	ghosts prometheus.Counter
}

// NewRatingMetrics registers the rating engine metrics.
func NewRatingMetrics(reg prometheus.Registerer) RatingMetrics {
	m := &ratingMetrics{
		operationMetrics: newOperationMetrics(reg, "rating"),
		tiers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "rating",
			Name:      "players_per_tier",
			Help:      "Players per tier after the last recomputation.",
		}, []string{"tier"}),
		ghosts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rating",
			Name:      "ghost_penalties_total",
			Help:      "Absence penalties applied.",
		}),
	}
	reg.MustRegister(m.tiers, m.ghosts)
	return m
}

func (m *ratingMetrics) RecordTierDistribution(_ context.Context, counts map[string]int) {
	for tier, n := range counts {
		m.tiers.WithLabelValues(tier).Set(float64(n))
	}
}

func (m *ratingMetrics) RecordGhostPenalties(_ context.Context, n int) {
	m.ghosts.Add(float64(n))
}

type noop struct{}

// NewNoop returns metrics that record nothing.
func NewNoop() RatingMetrics { return noop{} }

func (noop) RecordOperationAttempt(context.Context, string, string)                 {}
func (noop) RecordOperationSuccess(context.Context, string, string)                 {}
func (noop) RecordOperationFailure(context.Context, string, string)                 {}
func (noop) RecordOperationDuration(context.Context, string, string, time.Duration) {}
func (noop) RecordTierDistribution(context.Context, map[string]int)                 {}
func (noop) RecordGhostPenalties(context.Context, int)                              {}
