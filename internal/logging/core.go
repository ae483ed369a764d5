package logging

import (
	"errors"
	"sort"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const otelScope = "github.com/fyrsmithlabs/factd"

var errNoOutput = errors.New("at least one output must be enabled and available")

// newCore tees the enabled outputs, redacts them and applies sampling.
// OTEL output is skipped when provider is nil.
func newCore(cfg *Config, out zapcore.WriteSyncer, provider log.LoggerProvider) (zapcore.Core, error) {
	r, err := newRedactor(cfg.Redaction)
	if err != nil {
		return nil, err
	}

	var cores []zapcore.Core
	if cfg.Output.Stdout && out != nil {
		cores = append(cores, zapcore.NewCore(newEncoder(cfg.Format), out, cfg.Level))
	}
	if cfg.Output.OTEL && provider != nil {
		otelCore := otelzap.NewCore(otelScope, otelzap.WithLoggerProvider(provider))
		cores = append(cores, filterLevels(otelCore, cfg.Level.Enabled))
	}
	if len(cores) == 0 {
		return nil, errNoOutput
	}

	return sample(r.wrap(zapcore.NewTee(cores...)), cfg.Sampling), nil
}

// newEncoder creates JSON or console encoder.
func newEncoder(format string) zapcore.Encoder {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = encodeLevel

	if format == "console" {
		return zapcore.NewConsoleEncoder(encoderCfg)
	}
	return zapcore.NewJSONEncoder(encoderCfg)
}

func encodeLevel(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	if l == TraceLevel {
		enc.AppendString("trace")
		return
	}
	zapcore.LowercaseLevelEncoder(l, enc)
}

// sample gives every configured level below Error its own sampler.
func sample(core zapcore.Core, cfg SamplingConfig) zapcore.Core {
	if !cfg.Enabled || len(cfg.Levels) == 0 {
		return core
	}

	levels := make([]zapcore.Level, 0, len(cfg.Levels))
	for lvl := range cfg.Levels {
		if lvl < zapcore.ErrorLevel {
			levels = append(levels, lvl)
		}
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })

	sampled := make(map[zapcore.Level]bool, len(levels))
	cores := make([]zapcore.Core, 0, len(levels)+1)
	for _, lvl := range levels {
		lvl := lvl
		s := cfg.Levels[lvl]
		sampled[lvl] = true
		only := filterLevels(core, func(l zapcore.Level) bool { return l == lvl })
		cores = append(cores, zapcore.NewSamplerWithOptions(only, cfg.Tick, s.Initial, s.Thereafter))
	}
	cores = append(cores, filterLevels(core, func(l zapcore.Level) bool { return !sampled[l] }))

	return zapcore.NewTee(cores...)
}

// levelCore passes only the levels accepted by allow.
type levelCore struct {
	zapcore.Core
	allow func(zapcore.Level) bool
}

func filterLevels(core zapcore.Core, allow func(zapcore.Level) bool) zapcore.Core {
	return &levelCore{Core: core, allow: allow}
}

func (c *levelCore) Enabled(lvl zapcore.Level) bool {
	return c.allow(lvl) && c.Core.Enabled(lvl)
}

func (c *levelCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.allow(e.Level) {
		return ce
	}
	return c.Core.Check(e, ce)
}

func (c *levelCore) With(fields []zapcore.Field) zapcore.Core {
	return &levelCore{Core: c.Core.With(fields), allow: c.allow}
}
