// Package otel holds span helpers and the attribute keys shared by tour guide traces.
package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys used on tour guide spans.
const (
	AttrUserName       = attribute.Key("user.name")
	AttrUserCount      = attribute.Key("tracking.users")
	AttrFailedCount    = attribute.Key("tracking.failed")
	AttrAttractionSize = attribute.Key("attractions.count")
	AttrRewardCount    = attribute.Key("rewards.granted")
	AttrCycle          = attribute.Key("tracker.cycle")
)

// StartSpan starts a span on tracer, or returns the span already in ctx when tracer is nil.
func StartSpan(
	ctx context.Context,
	tracer trace.Tracer,
	name string,
	opts ...trace.SpanStartOption,
) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, name, opts...)
}

// RecordError marks span as failed. The status description stays generic; the
// error itself goes into a span event.
func RecordError(span trace.Span, err error) {
	if err != nil && span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "operation failed")
	}
}
