package discord

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

func (r *Router) startSpan(ctx context.Context, kind, key string) (context.Context, trace.Span) {
	return r.tracer.Start(ctx, "dispatch."+kind,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("zephyr.dispatch.kind", kind),
			attribute.String("zephyr.dispatch.key", key),
		),
	)
}

func endSpan(span trace.Span, outcome string, err error) {
	span.SetAttributes(attribute.String("zephyr.dispatch.outcome", outcome))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
