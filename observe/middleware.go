package observe

import (
	"context"
	"time"
)

// Outcome summarises one probe run for telemetry.
type Outcome struct {
	// Status is the status name reported for the check.
	Status string

	// Failed marks a check that resolved unhealthy.
	Failed bool

	// Degraded marks a check that resolved degraded.
	Degraded bool

	// Cancelled marks a run abandoned because the caller's context ended.
	Cancelled bool

	// Err is the error or fault reported for the run, if any.
	Err error
}

// ProbeFunc is the signature of a single instrumented probe run.
type ProbeFunc func(ctx context.Context, check CheckMeta) Outcome

// Middleware wraps probe runs with tracing, metrics and logging.
//
// Contract:
//   - Concurrency: Wrap() returns a thread-safe ProbeFunc.
//   - Context: the span context is propagated into the wrapped probe.
//   - Ownership: the Outcome is passed through unchanged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware with the given observability components.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// NopMiddleware returns a Middleware that records nothing.
func NopMiddleware() *Middleware {
	return NewMiddleware(newNoopTracer(), &noopMetrics{}, &noopLogger{})
}

// Logger returns the logger the middleware writes to.
func (m *Middleware) Logger() Logger {
	return m.logger
}

// Wrap wraps a ProbeFunc with tracing, metrics, and logging.
func (m *Middleware) Wrap(fn ProbeFunc) ProbeFunc {
	return func(ctx context.Context, check CheckMeta) Outcome {
		ctx, span := m.tracer.StartSpan(ctx, check)

		start := time.Now()
		outcome := fn(ctx, check)
		duration := time.Since(start)

		m.tracer.EndSpan(span, outcome)
		m.metrics.RecordCheck(ctx, check, duration, outcome)

		fields := []Field{
			{Key: "status", Value: outcome.Status},
			{Key: "duration_ms", Value: float64(duration) / float64(time.Millisecond)},
		}
		if outcome.Err != nil {
			fields = append(fields, Field{Key: "error", Value: outcome.Err.Error()})
		}

		logger := m.logger.WithCheck(check)
		switch {
		case outcome.Cancelled:
			logger.Warn(ctx, "health check abandoned", fields...)
		case outcome.Failed:
			logger.Error(ctx, "health check failed", fields...)
		case outcome.Degraded, outcome.Err != nil:
			logger.Warn(ctx, "health check degraded", fields...)
		default:
			logger.Debug(ctx, "health check passed", fields...)
		}

		return outcome
	}
}

// MiddlewareFromObserver creates a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}
