// Package tracing provides OpenTelemetry tracing integration for the
// summarization pipeline and the web server. Spans are no-ops until a trace
// provider is installed, so instrumented code carries no overhead by default.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// tracer is the global tracer instance for summary-lab.
var tracer = otel.Tracer("summary-lab")

// GetTracer returns the global tracer for creating spans.
//
// Example usage:
//
//	ctx, span := tracing.GetTracer().Start(ctx, "operation-name")
//	defer span.End()
func GetTracer() trace.Tracer {
	return tracer
}

// StartSpan starts a span on the global tracer. Shorthand for pipeline stages.
func StartSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name)
}
