// Package telemetry wires OpenTelemetry tracing and metrics for factd.
//
// New installs OTLP exporters (gRPC or HTTP/protobuf) as the otel globals
// when enabled, so packages that call otel.Tracer or otel.Meter report
// through them without holding a reference:
//
//	tel, err := telemetry.New(ctx, telemetry.FromConfig(cfg.Telemetry))
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(context.Background())
//
// Export failures degrade the instance instead of failing startup; see
// Health.
//
// Tests use NewTestTelemetry, which records spans and metrics in memory:
//
//	tt := telemetry.NewTestTelemetry()
//	_, span := tt.Tracer("test").Start(ctx, "work")
//	span.End()
//	tt.AssertSpanExists(t, "work")
package telemetry
