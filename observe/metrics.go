package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records admission-control outcomes.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordAuth records one authentication/authorization decision with
	// its duration and error status.
	RecordAuth(ctx context.Context, endpoint string, duration time.Duration, err error)

	// RecordRateLimit records one rate-limit check outcome.
	RecordRateLimit(ctx context.Context, endpoint string, allowed bool)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter         metric.Meter
	authTotal     metric.Int64Counter
	authFailures  metric.Int64Counter
	authDuration  metric.Float64Histogram
	limitTotal    metric.Int64Counter
	limitRejected metric.Int64Counter
}

// NewMetrics creates a Metrics instance with the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	authTotal, err := meter.Int64Counter(
		"guard.auth.total",
		metric.WithDescription("Total number of authentication decisions"),
		metric.WithUnit("{decision}"),
	)
	if err != nil {
		return nil, err
	}

	authFailures, err := meter.Int64Counter(
		"guard.auth.failures",
		metric.WithDescription("Total number of rejected authentication decisions"),
		metric.WithUnit("{decision}"),
	)
	if err != nil {
		return nil, err
	}

	authDuration, err := meter.Float64Histogram(
		"guard.auth.duration_ms",
		metric.WithDescription("Authentication decision duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	limitTotal, err := meter.Int64Counter(
		"guard.ratelimit.total",
		metric.WithDescription("Total number of rate-limit checks"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, err
	}

	limitRejected, err := meter.Int64Counter(
		"guard.ratelimit.rejected",
		metric.WithDescription("Total number of rate-limited requests"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:         meter,
		authTotal:     authTotal,
		authFailures:  authFailures,
		authDuration:  authDuration,
		limitTotal:    limitTotal,
		limitRejected: limitRejected,
	}, nil
}

// RecordAuth records metrics for one authentication decision.
func (m *metricsImpl) RecordAuth(ctx context.Context, endpoint string, duration time.Duration, err error) {
	opt := metric.WithAttributes(attribute.String("guard.endpoint", endpoint))

	m.authTotal.Add(ctx, 1, opt)
	if err != nil {
		m.authFailures.Add(ctx, 1, opt)
	}
	m.authDuration.Record(ctx, float64(duration.Milliseconds()), opt)
}

// RecordRateLimit records metrics for one rate-limit check.
func (m *metricsImpl) RecordRateLimit(ctx context.Context, endpoint string, allowed bool) {
	opt := metric.WithAttributes(attribute.String("guard.endpoint", endpoint))

	m.limitTotal.Add(ctx, 1, opt)
	if !allowed {
		m.limitRejected.Add(ctx, 1, opt)
	}
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

// NopMetrics returns a Metrics implementation that records nothing.
func NopMetrics() Metrics {
	return &noopMetrics{}
}

func (m *noopMetrics) RecordAuth(ctx context.Context, endpoint string, duration time.Duration, err error) {
}

func (m *noopMetrics) RecordRateLimit(ctx context.Context, endpoint string, allowed bool) {
}
