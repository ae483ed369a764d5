// Package logging wraps Zap with context-aware methods for factd.
//
// Every method takes a context and appends its correlation fields: the
// OTEL trace and span ids, the request id set by the HTTP layer and the
// position of a text inside a batch. A Trace level sits below Debug for
// per-node matcher decisions.
//
// Output goes to stdout, to the OTEL log pipeline, or both. Fields whose
// key names a secret and values matching a redaction pattern are rewritten
// before any output sees them, including fields attached with With.
// Levels below Error can be sampled per level.
//
//	cfg, err := logging.FromConfig(c.Logging)
//	if err != nil {
//		return err
//	}
//	logger, err := logging.NewLogger(cfg, nil)
//	if err != nil {
//		return err
//	}
//	defer logger.Sync()
//
//	ctx = logging.WithRequestID(ctx, "req_123")
//	logger.Info(ctx, "text analyzed", zap.Int("sentences", 3))
//
// Tests use NewTestLogger to observe entries after redaction.
package logging
