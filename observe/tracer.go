package observe

import (
	"context"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// CheckMeta identifies a registered health check for telemetry purposes.
type CheckMeta struct {
	Name    string        // Registered check name (required)
	Tags    []string      // Check tags (optional)
	Timeout time.Duration // Per-check timeout, zero when none is configured
}

// SpanName returns the deterministic span name for this check.
// Format: health.check.<name>
func (m CheckMeta) SpanName() string {
	return "health.check." + m.Name
}

func (m CheckMeta) attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("check.name", m.Name),
	}
	if len(m.Tags) > 0 {
		attrs = append(attrs, attribute.StringSlice("check.tags", slices.Clone(m.Tags)))
	}
	if m.Timeout > 0 {
		attrs = append(attrs, attribute.Int64("check.timeout_ms", m.Timeout.Milliseconds()))
	}
	return attrs
}

// Tracer wraps OpenTelemetry tracing with per-check span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for one probe run.
	StartSpan(ctx context.Context, meta CheckMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording the outcome.
	EndSpan(span trace.Span, outcome Outcome)
}

type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer creates a Tracer wrapping the given OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new span with check metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta CheckMeta) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(meta.attributes()...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpan records the check status and marks the span as failed when the
// check resolved unhealthy or was abandoned.
func (t *tracerImpl) EndSpan(span trace.Span, outcome Outcome) {
	span.SetAttributes(
		attribute.String("check.status", outcome.Status),
		attribute.Bool("check.failed", outcome.Failed),
	)
	if outcome.Err != nil {
		span.RecordError(outcome.Err)
	}
	if outcome.Failed || outcome.Cancelled {
		msg := outcome.Status
		if outcome.Err != nil {
			msg = outcome.Err.Error()
		}
		span.SetStatus(codes.Error, msg)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

type noopTracer struct {
	noop trace.Tracer
}

func newNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta CheckMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, _ Outcome) {
	span.End()
}
