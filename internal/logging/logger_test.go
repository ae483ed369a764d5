package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observedLogger(level zapcore.Level) (*Logger, *observer.ObservedLogs) {
	core, observed := observer.New(level)
	return &Logger{zap: zap.New(core), config: NewDefaultConfig()}, observed
}

func TestNewLogger(t *testing.T) {
	cfg := NewDefaultConfig()

	logger, err := NewLogger(cfg, nil)
	require.NoError(t, err)
	assert.Same(t, cfg, logger.config)
	assert.True(t, logger.Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Enabled(zapcore.DebugLevel))
}

func TestNewLogger_Invalid(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Format = "xml"

	_, err := NewLogger(cfg, nil)
	assert.ErrorContains(t, err, "invalid config")

	cfg = NewDefaultConfig()
	cfg.Output = OutputConfig{OTEL: true}
	_, err = NewLogger(cfg, nil)
	assert.ErrorContains(t, err, "failed to create core")
}

func TestLogger_Levels(t *testing.T) {
	logger, observed := observedLogger(TraceLevel)
	ctx := context.Background()

	calls := []struct {
		log   func(context.Context, string, ...zap.Field)
		level zapcore.Level
	}{
		{logger.Trace, TraceLevel},
		{logger.Debug, zapcore.DebugLevel},
		{logger.Info, zapcore.InfoLevel},
		{logger.Warn, zapcore.WarnLevel},
		{logger.Error, zapcore.ErrorLevel},
	}

	for _, c := range calls {
		observed.TakeAll()
		c.log(ctx, "template tried", zap.String("template", "rate-is"))

		logs := observed.All()
		require.Len(t, logs, 1, c.level.String())
		assert.Equal(t, c.level, logs[0].Level)
		assert.Equal(t, "template tried", logs[0].Message)
		assert.Len(t, logs[0].Context, 1)
	}
}

func TestLogger_DisabledLevelSkipsContext(t *testing.T) {
	logger, observed := observedLogger(zapcore.InfoLevel)

	logger.Trace(WithRequestID(context.Background(), "req_1"), "hidden")
	logger.Debug(context.Background(), "hidden")

	assert.Zero(t, observed.Len())
}

func TestLogger_WithAndNamed(t *testing.T) {
	logger, observed := observedLogger(zapcore.InfoLevel)

	child := logger.Named("extraction").With(zap.String("group", "Bank_Rate"))
	child.Info(context.Background(), "fact extracted")

	logs := observed.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "extraction", logs[0].LoggerName)
	assertFieldExists(t, logs[0].Context, "group", "Bank_Rate")
	assert.Same(t, logger.config, child.config)
}

func TestLogger_AutoInjectContextFields(t *testing.T) {
	logger, observed := observedLogger(zapcore.InfoLevel)

	ctx := WithTextIndex(WithRequestID(context.Background(), "req_123"), 2)
	logger.Info(ctx, "text analyzed", zap.Int("sentences", 3))

	logs := observed.All()
	require.Len(t, logs, 1)
	assertFieldExists(t, logs[0].Context, "request.id", "req_123")
	assert.Equal(t, "text.index", logs[0].Context[1].Key)
	assert.Equal(t, "sentences", logs[0].Context[2].Key, "call fields follow context fields")
}

func TestLogger_Underlying(t *testing.T) {
	logger, observed := observedLogger(zapcore.InfoLevel)
	logger.Underlying().Info("direct")
	assert.Equal(t, 1, observed.FilterMessage("direct").Len())
}

func TestNop(t *testing.T) {
	l := Nop()
	require.NotNil(t, l)
	assert.False(t, l.Enabled(zapcore.ErrorLevel))
	l.Error(context.Background(), "dropped")
	assert.NoError(t, l.Sync())
}
