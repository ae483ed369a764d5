package logging

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestLogger wraps Logger with test observation capabilities.
type TestLogger struct {
	*Logger
	observed *observer.ObservedLogs
}

// NewTestLogger observes every level. Entries pass through the default
// redaction first, as they would in production.
func NewTestLogger() *TestLogger {
	cfg := NewDefaultConfig()
	core, observed := observer.New(TraceLevel)
	r, err := newRedactor(cfg.Redaction)
	if err != nil {
		panic(fmt.Sprintf("logging: %v", err))
	}
	return &TestLogger{
		Logger: &Logger{
			zap:    zap.New(r.wrap(core)),
			config: cfg,
		},
		observed: observed,
	}
}

// All returns all logged entries.
func (t *TestLogger) All() []observer.LoggedEntry {
	return t.observed.All()
}

// FilterMessage returns entries matching message substring.
func (t *TestLogger) FilterMessage(msg string) *observer.ObservedLogs {
	return t.observed.FilterMessage(msg)
}

// Reset clears all logged entries.
func (t *TestLogger) Reset() {
	t.observed.TakeAll()
}

// AssertLogged verifies a log at level containing message was logged.
func (t *TestLogger) AssertLogged(tb testing.TB, level zapcore.Level, msgContains string) {
	tb.Helper()
	for _, entry := range t.observed.All() {
		if entry.Level == level && strings.Contains(entry.Message, msgContains) {
			return
		}
	}
	tb.Errorf("expected log at %v containing %q, logs: %+v", level, msgContains, t.observed.All())
}

// AssertNotLogged verifies no log at level containing message was logged.
func (t *TestLogger) AssertNotLogged(tb testing.TB, level zapcore.Level, msgContains string) {
	tb.Helper()
	for _, entry := range t.observed.All() {
		if entry.Level == level && strings.Contains(entry.Message, msgContains) {
			tb.Errorf("unexpected log at %v containing %q", level, msgContains)
		}
	}
}

// AssertField verifies a field with key and value exists in message.
func (t *TestLogger) AssertField(tb testing.TB, msg, key string, expected interface{}) {
	tb.Helper()
	for _, entry := range t.observed.FilterMessage(msg).All() {
		for _, field := range entry.Context {
			if field.Key != key {
				continue
			}
			// Integers encode as int64, strings as string.
			enc := zapcore.NewMapObjectEncoder()
			field.AddTo(enc)
			if reflect.DeepEqual(enc.Fields[key], expected) {
				return
			}
		}
	}
	tb.Errorf("field %q=%v not found in message %q", key, expected, msg)
}

// AssertNoSecrets fails when a sensitive key carries an unredacted string or
// any message or string field matches a redaction pattern.
func (t *TestLogger) AssertNoSecrets(tb testing.TB) {
	tb.Helper()
	r, err := newRedactor(NewDefaultConfig().Redaction)
	if err != nil {
		tb.Fatalf("default redaction: %v", err)
	}

	leaks := func(s string) bool {
		for _, re := range r.patterns {
			if re.MatchString(s) {
				return true
			}
		}
		return false
	}

	for _, entry := range t.observed.All() {
		if leaks(entry.Message) {
			tb.Errorf("sensitive pattern in message: %q", entry.Message)
		}
		for _, field := range entry.Context {
			if field.Type != zapcore.StringType {
				continue
			}
			if r.sensitiveKey(field.Key) && field.String != "" && !strings.HasPrefix(field.String, "[REDACTED") {
				tb.Errorf("sensitive field %q not redacted: %q", field.Key, field.String)
			}
			if leaks(field.String) {
				tb.Errorf("sensitive pattern in field %q: %q", field.Key, field.String)
			}
		}
	}
}

// AssertTraceCorrelation verifies trace_id present in message.
func (t *TestLogger) AssertTraceCorrelation(tb testing.TB, msg string) {
	tb.Helper()
	for _, entry := range t.observed.FilterMessage(msg).All() {
		for _, field := range entry.Context {
			if field.Key == "trace_id" {
				return
			}
		}
	}
	tb.Errorf("message %q missing trace_id", msg)
}
