package logging

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/factd/internal/config"
)

func TestIntegration_FullLoggingPipeline(t *testing.T) {
	cfg, err := FromConfig(config.LoggingConfig{Level: "trace"})
	require.NoError(t, err)
	cfg.Sampling.Enabled = false

	logger, err := NewLogger(cfg, nil)
	require.NoError(t, err)
	defer func() { _ = logger.Sync() }()

	ctx := WithTextIndex(WithRequestID(context.Background(), "req_456"), 0)
	logger.Trace(ctx, "node rejected", zap.String("label", "object"))
	logger.Info(ctx, "text analyzed", zap.Int("sentences", 3))
	logger.Error(ctx, "parse failed", zap.Error(errors.New("unavailable")))
	logger.Named("http").With(zap.String("component", "server")).Info(ctx, "listening")

	assert.True(t, logger.Enabled(TraceLevel))
}

func TestIntegration_ContextFieldInjection(t *testing.T) {
	tl := NewTestLogger()

	ctx := WithRequestID(context.Background(), "req_123")
	ctx = WithTextIndex(ctx, 4)

	tl.Info(ctx, "request", zap.String("method", "GET"))

	tl.AssertLogged(t, zapcore.InfoLevel, "request")
	tl.AssertField(t, "request", "request.id", "req_123")
	tl.AssertField(t, "request", "text.index", int64(4))
	tl.AssertField(t, "request", "method", "GET")
}

func TestIntegration_SecretRedaction(t *testing.T) {
	tl := NewTestLogger()

	tl.Info(context.Background(), "auth",
		Secret("credential", config.Secret("my-secret-token")),
		zap.String("token", "plain"),
		zap.String("note", "Bearer abc"),
	)

	tl.AssertLogged(t, zapcore.InfoLevel, "auth")
	tl.AssertField(t, "auth", "credential", "[REDACTED:15]")
	tl.AssertField(t, "auth", "token", "[REDACTED]")
	tl.AssertNoSecrets(t)
}
