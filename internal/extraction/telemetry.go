package extraction

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName is the name used for OTEL instrumentation.
const InstrumentationName = "github.com/fyrsmithlabs/factd/internal/extraction"

// Tracer returns the global tracer for the extraction package.
func Tracer() trace.Tracer {
	return otel.Tracer(InstrumentationName)
}

func startSpan(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func recordError(span trace.Span, err error, description string) {
	if span.IsRecording() {
		span.RecordError(err)
		span.SetStatus(codes.Error, description)
	}
}

func factAttributes(facts []Fact) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(facts))
	for _, f := range facts {
		attrs = append(attrs, attribute.String("factd.fact."+f.Group, f.Value))
	}
	return attrs
}
