package config

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string, perm os.FileMode) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "factd.yaml")
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	// WriteFile is subject to umask.
	if err := os.Chmod(path, perm); err != nil {
		t.Fatalf("Failed to chmod test config: %v", err)
	}
	return path
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v, want nil", err)
	}
	if cfg.Server.Port != Default().Server.Port {
		t.Errorf("Server.Port = %d, want default %d", cfg.Server.Port, Default().Server.Port)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, `server:
  host: 127.0.0.1
  port: 8081
  query_key: q
  journal:
    enabled: true
    path: /tmp/journal.log
parser:
  base_url: http://parser:9000
  timeout: 3s
  api_key: hunter2
  cache_size: 0
templates:
  path: /etc/factd/contexts.yaml
  watch: true
normalize:
  replacements:
    - from: " stg "
      to: " £ "
    - from: " bn "
      to: " billion "
extraction:
  workers: 8
logging:
  level: debug
  format: console
`, 0o600)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if cfg.Server.Addr() != "127.0.0.1:8081" {
		t.Errorf("Server.Addr() = %q, want 127.0.0.1:8081", cfg.Server.Addr())
	}
	if cfg.Server.QueryKey != "q" {
		t.Errorf("Server.QueryKey = %q, want q", cfg.Server.QueryKey)
	}
	if !cfg.Server.Journal.Enabled || cfg.Server.Journal.Path != "/tmp/journal.log" {
		t.Errorf("Server.Journal = %+v, want enabled at /tmp/journal.log", cfg.Server.Journal)
	}
	if cfg.Server.ShutdownTimeout.Duration() != 10*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v, want default 10s", cfg.Server.ShutdownTimeout.Duration())
	}
	if cfg.Parser.BaseURL != "http://parser:9000" {
		t.Errorf("Parser.BaseURL = %q", cfg.Parser.BaseURL)
	}
	if cfg.Parser.Timeout.Duration() != 3*time.Second {
		t.Errorf("Parser.Timeout = %v, want 3s", cfg.Parser.Timeout.Duration())
	}
	if cfg.Parser.APIKey.Value() != "hunter2" {
		t.Errorf("Parser.APIKey not loaded")
	}
	if cfg.Parser.CacheSize != 0 {
		t.Errorf("Parser.CacheSize = %d, want 0", cfg.Parser.CacheSize)
	}
	if cfg.Parser.MaxRetries != 2 {
		t.Errorf("Parser.MaxRetries = %d, want default 2", cfg.Parser.MaxRetries)
	}
	if !cfg.Templates.Watch || cfg.Templates.Path != "/etc/factd/contexts.yaml" {
		t.Errorf("Templates = %+v", cfg.Templates)
	}
	want := []Replacement{{From: " stg ", To: " £ "}, {From: " bn ", To: " billion "}}
	if len(cfg.Normalize.Replacements) != len(want) {
		t.Fatalf("Normalize.Replacements = %v, want %v", cfg.Normalize.Replacements, want)
	}
	for i := range want {
		if cfg.Normalize.Replacements[i] != want[i] {
			t.Errorf("Normalize.Replacements[%d] = %v, want %v", i, cfg.Normalize.Replacements[i], want[i])
		}
	}
	if cfg.Extraction.Workers != 8 {
		t.Errorf("Extraction.Workers = %d, want 8", cfg.Extraction.Workers)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 8081\nparser:\n  timeout: 3s\n", 0o600)

	t.Setenv("FACTD_SERVER_PORT", "9091")
	t.Setenv("FACTD_SERVER_QUERY_KEY", "statement")
	t.Setenv("FACTD_SERVER_JOURNAL_ENABLED", "true")
	t.Setenv("FACTD_SERVER_JOURNAL_PATH", "/var/log/factd.log")
	t.Setenv("FACTD_PARSER_BASE_URL", "https://parser.internal")
	t.Setenv("FACTD_PARSER_API_KEY", "from-env")
	t.Setenv("FACTD_EXTRACTION_WORKERS", "2")
	t.Setenv("FACTD_TELEMETRY_SERVICE_NAME", "factd-test")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if cfg.Server.Port != 9091 {
		t.Errorf("Server.Port = %d, want 9091 (env wins)", cfg.Server.Port)
	}
	if cfg.Server.QueryKey != "statement" {
		t.Errorf("Server.QueryKey = %q, want statement", cfg.Server.QueryKey)
	}
	if !cfg.Server.Journal.Enabled || cfg.Server.Journal.Path != "/var/log/factd.log" {
		t.Errorf("Server.Journal = %+v", cfg.Server.Journal)
	}
	if cfg.Parser.Timeout.Duration() != 3*time.Second {
		t.Errorf("Parser.Timeout = %v, want 3s from file", cfg.Parser.Timeout.Duration())
	}
	if cfg.Parser.BaseURL != "https://parser.internal" {
		t.Errorf("Parser.BaseURL = %q", cfg.Parser.BaseURL)
	}
	if cfg.Parser.APIKey.Value() != "from-env" {
		t.Errorf("Parser.APIKey not loaded from env")
	}
	if cfg.Extraction.Workers != 2 {
		t.Errorf("Extraction.Workers = %d, want 2", cfg.Extraction.Workers)
	}
	if cfg.Telemetry.ServiceName != "factd-test" {
		t.Errorf("Telemetry.ServiceName = %q, want factd-test", cfg.Telemetry.ServiceName)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		if err == nil || !strings.Contains(err.Error(), "failed to open config file") {
			t.Errorf("Load() error = %v, want open failure", err)
		}
	})

	t.Run("directory", func(t *testing.T) {
		_, err := Load(t.TempDir())
		if err == nil || !strings.Contains(err.Error(), "not a regular file") {
			t.Errorf("Load() error = %v, want regular file failure", err)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeConfig(t, "server: [port", 0o600)
		_, err := Load(path)
		if err == nil || !strings.Contains(err.Error(), "failed to load config file") {
			t.Errorf("Load() error = %v, want parse failure", err)
		}
	})

	t.Run("invalid values", func(t *testing.T) {
		path := writeConfig(t, "server:\n  port: 0\n", 0o600)
		_, err := Load(path)
		if err == nil || !strings.Contains(err.Error(), "config validation failed") {
			t.Errorf("Load() error = %v, want validation failure", err)
		}
	})

	t.Run("bad duration", func(t *testing.T) {
		path := writeConfig(t, "parser:\n  timeout: soon\n", 0o600)
		_, err := Load(path)
		if err == nil || !strings.Contains(err.Error(), "failed to unmarshal config") {
			t.Errorf("Load() error = %v, want unmarshal failure", err)
		}
	})

	t.Run("too large", func(t *testing.T) {
		big := "# " + string(bytes.Repeat([]byte("x"), maxConfigFileSize)) + "\n"
		path := writeConfig(t, big, 0o600)
		_, err := Load(path)
		if err == nil || !strings.Contains(err.Error(), "too large") {
			t.Errorf("Load() error = %v, want size failure", err)
		}
	})

	t.Run("world writable", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("permission model differs on windows")
		}
		path := writeConfig(t, "server:\n  port: 8081\n", 0o666)
		_, err := Load(path)
		if err == nil || !strings.Contains(err.Error(), "insecure config file permissions") {
			t.Errorf("Load() error = %v, want permission failure", err)
		}
	})
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"FACTD_SERVER_PORT":             "server.port",
		"FACTD_SERVER_SHUTDOWN_TIMEOUT": "server.shutdown_timeout",
		"FACTD_SERVER_JOURNAL_PATH":     "server.journal.path",
		"FACTD_PARSER_BASE_URL":         "parser.base_url",
		"FACTD_PARSER_JOURNAL_PATH":     "parser.journal_path",
		"FACTD_DEBUG":                   "debug",
	}
	for in, want := range tests {
		if got := envKey(in); got != want {
			t.Errorf("envKey(%q) = %q, want %q", in, got, want)
		}
	}
}
