package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/log/noop"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// bufferLogger returns a logger writing JSON lines to buf.
func bufferLogger(t *testing.T, mutate func(*Config)) (*Logger, *bytes.Buffer) {
	t.Helper()
	cfg := NewDefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	var buf bytes.Buffer
	l, err := newLogger(cfg, zapcore.AddSync(&buf), nil)
	require.NoError(t, err)
	return l, &buf
}

func lines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m), line)
		out = append(out, m)
	}
	return out
}

func TestNewCore_NoOutput(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Output.OTEL = true
	cfg.Output.Stdout = false

	_, err := newCore(cfg, nil, nil)
	assert.ErrorIs(t, err, errNoOutput)

	core, err := newCore(cfg, nil, noop.NewLoggerProvider())
	require.NoError(t, err)
	assert.False(t, core.Enabled(zapcore.DebugLevel), "otel output honors the configured level")
}

func TestLogger_JSONOutput(t *testing.T) {
	l, buf := bufferLogger(t, func(c *Config) { c.Level = TraceLevel })

	ctx := WithRequestID(context.Background(), "req_1")
	l.Trace(ctx, "node tried", zap.String("label", "verb"))
	l.Info(ctx, "text analyzed", zap.Int("sentences", 2))

	got := lines(t, buf)
	require.Len(t, got, 2)
	assert.Equal(t, "trace", got[0]["level"])
	assert.Equal(t, "verb", got[0]["label"])
	assert.Equal(t, "info", got[1]["level"])
	assert.Equal(t, "factd", got[1]["service"])
	assert.Equal(t, "req_1", got[1]["request.id"])
	assert.EqualValues(t, 2, got[1]["sentences"])
	assert.Contains(t, got[1]["caller"], "core_test.go", "caller skips the logging helpers")
}

func TestLogger_LevelFilter(t *testing.T) {
	l, buf := bufferLogger(t, nil)

	l.Debug(context.Background(), "hidden")
	l.Warn(context.Background(), "shown")

	got := lines(t, buf)
	require.Len(t, got, 1)
	assert.Equal(t, "shown", got[0]["msg"])
}

func TestSample_PerLevel(t *testing.T) {
	l, buf := bufferLogger(t, func(c *Config) {
		c.Level = zapcore.DebugLevel
		c.Sampling.Levels = map[zapcore.Level]LevelSampling{
			zapcore.DebugLevel: {Initial: 2},
			zapcore.InfoLevel:  {Initial: 3},
		}
	})
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		l.Debug(ctx, "debug")
		l.Info(ctx, "info")
		l.Warn(ctx, "warn")
		l.Error(ctx, "error")
	}

	counts := map[string]int{}
	for _, m := range lines(t, buf) {
		counts[m["msg"].(string)]++
	}
	assert.Equal(t, 2, counts["debug"])
	assert.Equal(t, 3, counts["info"])
	assert.Equal(t, 10, counts["warn"], "levels without sampling pass through")
	assert.Equal(t, 10, counts["error"], "errors are never sampled")
}

func TestSample_Disabled(t *testing.T) {
	l, buf := bufferLogger(t, func(c *Config) {
		c.Sampling.Enabled = false
		c.Sampling.Levels[zapcore.InfoLevel] = LevelSampling{Initial: 1}
	})
	for i := 0; i < 5; i++ {
		l.Info(context.Background(), "info")
	}
	assert.Len(t, lines(t, buf), 5)
}

func TestEncodeLevel_Console(t *testing.T) {
	l, buf := bufferLogger(t, func(c *Config) {
		c.Format = "console"
		c.Level = TraceLevel
	})
	l.Trace(context.Background(), "deep")
	assert.Contains(t, buf.String(), "\ttrace\t")
	assert.Contains(t, buf.String(), "deep")
}
