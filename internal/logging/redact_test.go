package logging

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/factd/internal/config"
)

func TestRedact_SensitiveKeys(t *testing.T) {
	l, buf := bufferLogger(t, nil)

	l.Info(context.Background(), "parser configured",
		zap.String("api_key", "k-123"),
		zap.String("parser.token", "t-456"),
		zap.String("Authorization", "Basic Zm9v"),
		zap.Int("password", 1234),
		zap.String("base_url", "http://parser:8000"),
		zap.String("tokens", "3"),
	)

	got := lines(t, buf)
	require.Len(t, got, 1)
	assert.Equal(t, "[REDACTED]", got[0]["api_key"])
	assert.Equal(t, "[REDACTED]", got[0]["parser.token"])
	assert.Equal(t, "[REDACTED]", got[0]["Authorization"])
	assert.Equal(t, "[REDACTED]", got[0]["password"])
	assert.Equal(t, "http://parser:8000", got[0]["base_url"])
	assert.Equal(t, "3", got[0]["tokens"], "keys match whole segments")
}

func TestRedact_WithFields(t *testing.T) {
	l, buf := bufferLogger(t, nil)

	l.With(zap.String("secret", "s3cr3t")).Named("parser").Info(context.Background(), "ready")

	got := lines(t, buf)
	require.Len(t, got, 1)
	assert.Equal(t, "[REDACTED]", got[0]["secret"])
	assert.Equal(t, "parser", got[0]["logger"])
}

func TestRedact_Patterns(t *testing.T) {
	l, buf := bufferLogger(t, nil)

	l.Warn(context.Background(), "request with Bearer abc.def failed",
		zap.String("header", "bearer xyz"),
		zap.Error(errors.New("upstream rejected api_key=k-999")),
	)

	got := lines(t, buf)
	require.Len(t, got, 1)
	assert.Equal(t, "request with [REDACTED] failed", got[0]["msg"])
	assert.Equal(t, "[REDACTED]", got[0]["header"])
	assert.Equal(t, "upstream rejected [REDACTED]", got[0]["error"])
	assert.NotContains(t, buf.String(), "k-999")
}

func TestRedact_Disabled(t *testing.T) {
	l, buf := bufferLogger(t, func(c *Config) { c.Redaction.Enabled = false })

	l.Info(context.Background(), "raw", zap.String("token", "visible"))
	assert.Equal(t, "visible", lines(t, buf)[0]["token"])
}

func TestSecret(t *testing.T) {
	l, buf := bufferLogger(t, nil)

	l.Info(context.Background(), "loaded",
		Secret("api_key", config.Secret("hunter22")),
		RedactedString("note", "four"),
	)

	got := lines(t, buf)
	require.Len(t, got, 1)
	assert.Equal(t, "[REDACTED:8]", got[0]["api_key"], "pre-redacted values keep their length")
	assert.Equal(t, "[REDACTED:4]", got[0]["note"])
}

func TestNewRedactor_Errors(t *testing.T) {
	_, err := newRedactor(RedactionConfig{Enabled: true, Patterns: []string{"(["}})
	assert.Error(t, err)

	r, err := newRedactor(RedactionConfig{})
	require.NoError(t, err)
	assert.Nil(t, r)
}
