package logging

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/factd/internal/config"
)

// TraceLevel sits below Debug. Per-node matcher decisions log here.
const TraceLevel = zapcore.Level(-2)

// Config holds logging configuration.
type Config struct {
	Level      zapcore.Level
	Format     string
	Output     OutputConfig
	Sampling   SamplingConfig
	Caller     CallerConfig
	Stacktrace StacktraceConfig
	Fields     map[string]string
	Redaction  RedactionConfig
}

// OutputConfig controls where logs are written.
type OutputConfig struct {
	Stdout bool
	OTEL   bool
}

// SamplingConfig limits log volume per level and tick. Levels without an
// entry, and Error and above, are never sampled.
type SamplingConfig struct {
	Enabled bool
	Tick    time.Duration
	Levels  map[zapcore.Level]LevelSampling
}

// LevelSampling keeps the first Initial entries of a tick, then every
// Thereafter-th. A zero Thereafter drops the rest.
type LevelSampling struct {
	Initial    int
	Thereafter int
}

// CallerConfig controls caller information in logs.
type CallerConfig struct {
	Enabled bool
	Skip    int
}

// StacktraceConfig controls stacktrace inclusion.
type StacktraceConfig struct {
	Level zapcore.Level
}

// RedactionConfig lists field keys and value patterns that never reach the
// output. Keys match the last dotted segment, ignoring case.
type RedactionConfig struct {
	Enabled  bool
	Fields   []string
	Patterns []string
}

const maxPatternLen = 200

// NewDefaultConfig returns config with production defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Level:  zapcore.InfoLevel,
		Format: "json",
		Output: OutputConfig{Stdout: true},
		Sampling: SamplingConfig{
			Enabled: true,
			Tick:    time.Second,
			Levels: map[zapcore.Level]LevelSampling{
				TraceLevel:         {Initial: 1},
				zapcore.DebugLevel: {Initial: 10},
				zapcore.InfoLevel:  {Initial: 100, Thereafter: 10},
				zapcore.WarnLevel:  {Initial: 100, Thereafter: 100},
			},
		},
		// Skips the Logger method and its log helper.
		Caller:     CallerConfig{Enabled: true, Skip: 2},
		Stacktrace: StacktraceConfig{Level: zapcore.ErrorLevel},
		Fields:     map[string]string{"service": "factd"},
		Redaction: RedactionConfig{
			Enabled: true,
			Fields: []string{
				"password", "secret", "token", "api_key",
				"authorization", "bearer", "credential",
			},
			Patterns: []string{
				`(?i)bearer\s+\S+`,
				`(?i)api[_-]?key[=:]\s*\S+`,
			},
		},
	}
}

// FromConfig applies the logging section of the service configuration to
// the defaults.
func FromConfig(c config.LoggingConfig) (*Config, error) {
	cfg := NewDefaultConfig()
	level, err := LevelFromString(c.Level)
	if err != nil {
		return nil, err
	}
	cfg.Level = level
	if c.Format != "" {
		cfg.Format = c.Format
	}
	return cfg, cfg.Validate()
}

// LevelFromString parses a level name, including "trace".
func LevelFromString(level string) (zapcore.Level, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "trace" {
		return TraceLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
	return l, nil
}

// Validate checks config for errors.
func (c *Config) Validate() error {
	if c.Format != "json" && c.Format != "console" {
		return fmt.Errorf("format must be 'json' or 'console', got %q", c.Format)
	}
	if !c.Output.Stdout && !c.Output.OTEL {
		return errors.New("at least one output must be enabled (stdout or otel)")
	}
	if c.Sampling.Enabled && c.Sampling.Tick <= 0 {
		return errors.New("sampling tick must be > 0 when sampling enabled")
	}
	for lvl, s := range c.Sampling.Levels {
		if s.Initial < 0 || s.Thereafter < 0 {
			return fmt.Errorf("sampling for %s must not be negative", lvl)
		}
	}
	if c.Caller.Enabled && c.Caller.Skip < 0 {
		return fmt.Errorf("caller skip must be >= 0, got %d", c.Caller.Skip)
	}
	if c.Redaction.Enabled {
		for _, p := range c.Redaction.Patterns {
			if len(p) > maxPatternLen {
				return fmt.Errorf("redaction pattern too long (max %d chars): %q", maxPatternLen, p)
			}
			if _, err := regexp.Compile(p); err != nil {
				return fmt.Errorf("invalid redaction pattern %q: %w", p, err)
			}
		}
	}
	for k, v := range c.Fields {
		if k == "" {
			return errors.New("field key cannot be empty")
		}
		if v == "" {
			return fmt.Errorf("field %q has empty value", k)
		}
	}
	return nil
}
