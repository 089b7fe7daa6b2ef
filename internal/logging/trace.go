package logging

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type traceIDKey struct{}

// NewTraceID returns an opaque 32 character hex token.
func NewTraceID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// WithTraceID stores id as the request's trace id.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, id)
}

// TraceIDFromContext returns the trace id carried by ctx, if any.
func TraceIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(traceIDKey{}).(string)
	return id, ok && id != ""
}

// EnsureTraceID returns ctx unchanged when it already carries a trace id,
// otherwise a derived context holding a freshly minted one.
func EnsureTraceID(ctx context.Context) (context.Context, string) {
	if id, ok := TraceIDFromContext(ctx); ok {
		return ctx, id
	}
	id := NewTraceID()
	return WithTraceID(ctx, id), id
}

// correlationFields collects trace_id, span_id and parent_id from ctx.
func correlationFields(ctx context.Context) []zap.Field {
	var fields []zap.Field
	if id, ok := TraceIDFromContext(ctx); ok {
		fields = append(fields, zap.String(FieldTraceID, id))
	}

	if span := trace.SpanContextFromContext(ctx); span.IsValid() {
		if span.IsRemote() {
			fields = append(fields, zap.String(FieldParentID, span.SpanID().String()))
		} else {
			fields = append(fields, zap.String(FieldSpanID, span.SpanID().String()))
		}
	}
	return fields
}
