package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/kbukum/resultkit/errors"
	"github.com/kbukum/resultkit/result"
)

// Span attribute keys set by Traced.
const (
	SpanAttrSuccess   = "result.success"
	SpanAttrErrorKind = "error.kind"
	SpanAttrMessage   = "result.message"
)

// Outcome is the part of a result observed by this package.
type Outcome interface {
	IsSuccess() bool
	Message() string
	Err() *errors.Error
}

// Traced runs op inside a span named name. The span is marked with the
// outcome and set to error status on failure. The result is returned as is.
func Traced[T any](ctx context.Context, name string, op func(context.Context) result.Result[T]) result.Result[T] {
	ctx, span := StartSpan(ctx, name)
	defer span.End()

	r := op(ctx)
	annotate(span, r)
	return r
}

// Observe traces op like Traced and also records it on m.
func Observe[T any](ctx context.Context, m *ResultMetrics, name string, op func(context.Context) result.Result[T]) result.Result[T] {
	start := time.Now()
	r := Traced(ctx, name, op)
	m.RecordDuration(ctx, name, r, time.Since(start))
	return r
}

type attributeSetter interface {
	SetAttributes(kv ...attribute.KeyValue)
	SetStatus(code codes.Code, description string)
}

func annotate(span attributeSetter, o Outcome) {
	span.SetAttributes(attribute.Bool(SpanAttrSuccess, o.IsSuccess()))
	err := o.Err()
	if err == nil {
		span.SetAttributes(attribute.String(SpanAttrMessage, o.Message()))
		span.SetStatus(codes.Ok, "")
		return
	}
	span.SetAttributes(
		attribute.String(SpanAttrErrorKind, err.Kind().String()),
		attribute.String(SpanAttrMessage, err.Message()),
	)
	span.SetStatus(codes.Error, err.Message())
}
