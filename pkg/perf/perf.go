// Package perf emits pass-scoped performance events as OpenTelemetry spans.
//
// Each resolution or measurement pass may carry one Event. Marker points
// become span events, so a configured tracing backend sees the same
// start-reconcile / end-measure timeline the engine sees. With no tracer
// provider configured the global no-op tracer makes every call free.
package perf

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/nextcore/tessera"

// Marker points recorded by the engine.
const (
	MarkerStartCreateLayout = "start_create_layout"
	MarkerEndCreateLayout   = "end_create_layout"
	MarkerStartReconcile    = "start_reconcile_layout"
	MarkerEndReconcile      = "end_reconcile_layout"
	MarkerStartMeasure      = "start_measure"
	MarkerEndMeasure        = "end_measure"
)

// Event wraps the span covering one pass. A nil *Event is a valid no-op
// receiver, so callers never need to guard marker calls.
type Event struct {
	span trace.Span
}

// Begin starts a perf event for the named pass.
func Begin(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, *Event) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, &Event{span: span}
}

// MarkerPoint records a named point within the pass.
func (e *Event) MarkerPoint(name string) {
	if e == nil || e.span == nil {
		return
	}
	e.span.AddEvent(name)
}

// Annotate attaches an attribute to the pass.
func (e *Event) Annotate(attrs ...attribute.KeyValue) {
	if e == nil || e.span == nil {
		return
	}
	e.span.SetAttributes(attrs...)
}

// End completes the pass event.
func (e *Event) End() {
	if e == nil || e.span == nil {
		return
	}
	e.span.End()
}
