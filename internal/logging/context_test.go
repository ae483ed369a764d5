package logging

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

func TestContextFields_Empty(t *testing.T) {
	fields := ContextFields(context.Background())
	assert.Empty(t, fields)
}

func TestContextFields_OTELTracing(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	provider := trace.NewTracerProvider(
		trace.WithSampler(trace.AlwaysSample()),
		trace.WithBatcher(exporter),
	)
	tracer := provider.Tracer("test")

	ctx, span := tracer.Start(context.Background(), "analyze")
	defer span.End()

	fields := ContextFields(ctx)

	var hasTraceID, hasSpanID bool
	for _, f := range fields {
		if f.Key == "trace_id" {
			hasTraceID = true
			assert.NotEmpty(t, f.String, "trace_id should not be empty")
		}
		if f.Key == "span_id" {
			hasSpanID = true
			assert.NotEmpty(t, f.String, "span_id should not be empty")
		}
	}
	assert.True(t, hasTraceID, "trace_id field missing from context fields")
	assert.True(t, hasSpanID, "span_id field missing from context fields")
	assertBoolFieldExists(t, fields, "trace_sampled", true)
}

func TestContextFields_Request(t *testing.T) {
	ctx := context.WithValue(context.Background(), requestCtxKey{}, "req_456")

	fields := ContextFields(ctx)

	assert.Len(t, fields, 1)
	assertFieldExists(t, fields, "request.id", "req_456")
}

func TestContextFields_TextIndex(t *testing.T) {
	ctx := WithTextIndex(WithRequestID(context.Background(), "req_1"), 3)

	fields := ContextFields(ctx)

	assert.Len(t, fields, 2)
	assertFieldExists(t, fields, "request.id", "req_1")
	for _, f := range fields {
		if f.Key == "text.index" {
			assert.Equal(t, int64(3), f.Integer)
			return
		}
	}
	t.Error("text.index field missing")
}

func TestTextIndexFromContext_Missing(t *testing.T) {
	_, ok := TextIndexFromContext(context.Background())
	assert.False(t, ok)

	idx, ok := TextIndexFromContext(WithTextIndex(context.Background(), 0))
	assert.True(t, ok)
	assert.Zero(t, idx)
}

func assertFieldExists(t *testing.T, fields []zap.Field, key, expected string) {
	t.Helper()
	for _, field := range fields {
		if field.Key == key && field.String == expected {
			return
		}
	}
	t.Errorf("field %q with value %q not found", key, expected)
}

func assertBoolFieldExists(t *testing.T, fields []zap.Field, key string, expected bool) {
	t.Helper()
	for _, field := range fields {
		if field.Key == key {
			// zap stores bools as integers
			if expected && field.Integer == 1 {
				return
			} else if !expected && field.Integer == 0 {
				return
			}
		}
	}
	t.Errorf("bool field %q with value %v not found", key, expected)
}

func TestWithRequestID_Valid(t *testing.T) {
	tests := []struct {
		name      string
		requestID string
	}{
		{"simple", "req_456"},
		{"with hyphens", "req-abc-456"},
		{"with underscores", "req_abc_456"},
		{"alphanumeric", "reqABC456"},
		{"uuid", "2f1f6c4e-8a0b-4e52-9b7a-3f1d2c4b5a69"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, ValidRequestID(tt.requestID))
			ctx := WithRequestID(context.Background(), tt.requestID)
			assert.Equal(t, tt.requestID, RequestIDFromContext(ctx))
		})
	}
}

func TestWithRequestID_EmptyPanics(t *testing.T) {
	assert.PanicsWithValue(t, "logging: requestID cannot be empty", func() {
		WithRequestID(context.Background(), "")
	})
}

func TestWithRequestID_InvalidCharactersPanics(t *testing.T) {
	tests := []struct {
		name      string
		requestID string
	}{
		{"with spaces", "req 456"},
		{"with slash", "req/456"},
		{"with special chars", "req@456"},
		{"with dots", "req.456"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, ValidRequestID(tt.requestID))
			assert.Panics(t, func() {
				WithRequestID(context.Background(), tt.requestID)
			})
		})
	}
}

func TestWithRequestID_TooLongPanics(t *testing.T) {
	longID := strings.Repeat("a", maxIDLen+1)

	assert.False(t, ValidRequestID(longID))
	assert.Panics(t, func() {
		WithRequestID(context.Background(), longID)
	})
}
