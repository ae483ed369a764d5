package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v, want nil", err)
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.Server.QueryKey != "text" {
		t.Errorf("Server.QueryKey = %q, want text", cfg.Server.QueryKey)
	}
	if cfg.Server.ShutdownTimeout.Duration() != 10*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v, want 10s", cfg.Server.ShutdownTimeout.Duration())
	}
	if cfg.Server.Journal.Enabled {
		t.Error("Server.Journal.Enabled = true, want false")
	}
	if cfg.Extraction.Workers != 4 {
		t.Errorf("Extraction.Workers = %d, want 4", cfg.Extraction.Workers)
	}
	if cfg.Normalize.Replacements != nil {
		t.Errorf("Normalize.Replacements = %v, want nil (built-in defaults)", cfg.Normalize.Replacements)
	}
	if cfg.Telemetry.Enabled {
		t.Error("Telemetry.Enabled = true, want false (disabled by default)")
	}
	if got := cfg.Server.Addr(); got != "0.0.0.0:5000" {
		t.Errorf("Server.Addr() = %q, want 0.0.0.0:5000", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "port zero", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: "invalid server port"},
		{name: "port too high", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: "invalid server port"},
		{name: "no shutdown timeout", mutate: func(c *Config) { c.Server.ShutdownTimeout = 0 }, wantErr: "shutdown timeout"},
		{name: "blank query key", mutate: func(c *Config) { c.Server.QueryKey = " " }, wantErr: "query_key"},
		{
			name: "journal without path",
			mutate: func(c *Config) {
				c.Server.Journal.Enabled = true
				c.Server.Journal.Path = ""
			},
			wantErr: "journal path",
		},
		{name: "parser url scheme", mutate: func(c *Config) { c.Parser.BaseURL = "ftp://parser" }, wantErr: "base_url"},
		{name: "parser url without host", mutate: func(c *Config) { c.Parser.BaseURL = "http://" }, wantErr: "base_url"},
		{name: "parser timeout", mutate: func(c *Config) { c.Parser.Timeout = 0 }, wantErr: "parser timeout"},
		{name: "negative cache", mutate: func(c *Config) { c.Parser.CacheSize = -1 }, wantErr: "cache_size"},
		{name: "zero cache disables", mutate: func(c *Config) { c.Parser.CacheSize = 0 }},
		{name: "negative rate", mutate: func(c *Config) { c.Parser.RateLimit = -1 }, wantErr: "rate_limit"},
		{name: "negative retries", mutate: func(c *Config) { c.Parser.MaxRetries = -1 }, wantErr: "max_retries"},
		{name: "no templates", mutate: func(c *Config) { c.Templates.Path = "" }, wantErr: "templates path"},
		{
			name:    "empty replacement",
			mutate:  func(c *Config) { c.Normalize.Replacements = []Replacement{{From: "", To: "x"}} },
			wantErr: "normalize replacement 0",
		},
		{name: "no workers", mutate: func(c *Config) { c.Extraction.Workers = 0 }, wantErr: "workers"},
		{name: "bad level", mutate: func(c *Config) { c.Logging.Level = "loud" }, wantErr: "logging level"},
		{name: "upper level", mutate: func(c *Config) { c.Logging.Level = "DEBUG" }},
		{name: "bad format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: "logging format"},
		{
			name: "telemetry disabled skips checks",
			mutate: func(c *Config) {
				c.Telemetry.Endpoint = ""
				c.Telemetry.Protocol = "carrier pigeon"
			},
		},
		{
			name: "telemetry without endpoint",
			mutate: func(c *Config) {
				c.Telemetry.Enabled = true
				c.Telemetry.Endpoint = ""
			},
			wantErr: "telemetry endpoint",
		},
		{
			name: "telemetry protocol",
			mutate: func(c *Config) {
				c.Telemetry.Enabled = true
				c.Telemetry.Protocol = "udp"
			},
			wantErr: "telemetry protocol",
		},
		{
			name: "telemetry sample rate",
			mutate: func(c *Config) {
				c.Telemetry.Enabled = true
				c.Telemetry.SampleRate = 1.5
			},
			wantErr: "sample_rate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() error = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
