package logging

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/factd/internal/config"
)

const redacted = "[REDACTED]"

// Secret logs only the length of a secret value.
func Secret(key string, val config.Secret) zap.Field {
	return RedactedString(key, val.Value())
}

// RedactedString logs only the length of val.
func RedactedString(key, val string) zap.Field {
	return zap.String(key, "[REDACTED:"+strconv.Itoa(len(val))+"]")
}

// redactor rewrites sensitive fields before they reach a core.
type redactor struct {
	keys     map[string]bool
	patterns []*regexp.Regexp
}

func newRedactor(cfg RedactionConfig) (*redactor, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	r := &redactor{keys: make(map[string]bool, len(cfg.Fields))}
	for _, f := range cfg.Fields {
		r.keys[strings.ToLower(f)] = true
	}
	for _, p := range cfg.Patterns {
		if len(p) > maxPatternLen {
			return nil, fmt.Errorf("redaction pattern too long (max %d chars): %q", maxPatternLen, p)
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redaction pattern %q: %w", p, err)
		}
		r.patterns = append(r.patterns, re)
	}
	return r, nil
}

// wrap returns core unchanged when redaction is disabled.
func (r *redactor) wrap(core zapcore.Core) zapcore.Core {
	if r == nil {
		return core
	}
	return &redactingCore{Core: core, r: r}
}

func (r *redactor) sensitiveKey(key string) bool {
	if i := strings.LastIndexByte(key, '.'); i >= 0 {
		key = key[i+1:]
	}
	return r.keys[strings.ToLower(key)]
}

// text replaces every pattern match in s.
func (r *redactor) text(s string) string {
	for _, re := range r.patterns {
		s = re.ReplaceAllString(s, redacted)
	}
	return s
}

func (r *redactor) field(f zapcore.Field) zapcore.Field {
	if r.sensitiveKey(f.Key) {
		switch f.Type {
		case zapcore.StringType:
			if strings.HasPrefix(f.String, "[REDACTED") {
				return f
			}
		case zapcore.SkipType:
			return f
		}
		return zap.String(f.Key, redacted)
	}
	switch f.Type {
	case zapcore.StringType:
		if s := r.text(f.String); s != f.String {
			return zap.String(f.Key, s)
		}
	case zapcore.ErrorType:
		if err, ok := f.Interface.(error); ok {
			if s := r.text(err.Error()); s != err.Error() {
				return zap.String(f.Key, s)
			}
		}
	}
	return f
}

func (r *redactor) fields(fields []zapcore.Field) []zapcore.Field {
	out := make([]zapcore.Field, len(fields))
	for i, f := range fields {
		out[i] = r.field(f)
	}
	return out
}

// redactingCore applies a redactor to entry fields, fields added through
// With, and the message.
type redactingCore struct {
	zapcore.Core
	r *redactor
}

func (c *redactingCore) With(fields []zapcore.Field) zapcore.Core {
	return &redactingCore{Core: c.Core.With(c.r.fields(fields)), r: c.r}
}

func (c *redactingCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(e.Level) {
		return ce.AddCore(e, c)
	}
	return ce
}

func (c *redactingCore) Write(e zapcore.Entry, fields []zapcore.Field) error {
	e.Message = c.r.text(e.Message)
	return c.Core.Write(e, c.r.fields(fields))
}
