package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var GlobalTracer = otel.Tracer("lunacycle")

// Fail marks the span as errored and records err on it.
func Fail(span trace.Span, description string, err error) {
	span.SetStatus(codes.Error, description)
	span.RecordError(err)
}

func UserKey(userKey string) attribute.KeyValue {
	return attribute.String("user.key", userKey)
}
