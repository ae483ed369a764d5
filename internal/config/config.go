// Package config provides configuration loading for factd.
//
// Values come from built-in defaults, then an optional YAML file, then
// FACTD_* environment variables. See Load.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config holds the complete factd configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Parser     ParserConfig     `koanf:"parser"`
	Templates  TemplatesConfig  `koanf:"templates"`
	Normalize  NormalizeConfig  `koanf:"normalize"`
	Extraction ExtractionConfig `koanf:"extraction"`
	Logging    LoggingConfig    `koanf:"logging"`
	Telemetry  TelemetryConfig  `koanf:"telemetry"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ShutdownTimeout Duration      `koanf:"shutdown_timeout"`
	QueryKey        string        `koanf:"query_key"`
	Journal         JournalConfig `koanf:"journal"`
}

// JournalConfig controls the response journal. Every analysis response is
// appended to Path as one JSON line.
type JournalConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// ParserConfig holds the parsing service client configuration.
type ParserConfig struct {
	BaseURL    string   `koanf:"base_url"`
	Timeout    Duration `koanf:"timeout"`
	APIKey     Secret   `koanf:"api_key"`
	CacheSize  int      `koanf:"cache_size"`
	RateLimit  float64  `koanf:"rate_limit"`
	Burst      int      `koanf:"burst"`
	MaxRetries int      `koanf:"max_retries"`
}

// TemplatesConfig locates the templates file.
type TemplatesConfig struct {
	Path  string `koanf:"path"`
	Watch bool   `koanf:"watch"`
}

// Replacement is one ordered text substitution applied after normalization.
type Replacement struct {
	From string `koanf:"from"`
	To   string `koanf:"to"`
}

// NormalizeConfig holds the preprocessing substitutions. A nil list keeps
// the built-in defaults; an empty list disables substitution.
type NormalizeConfig struct {
	Replacements []Replacement `koanf:"replacements"`
}

// ExtractionConfig bounds batch analysis concurrency.
type ExtractionConfig struct {
	Workers int `koanf:"workers"`
}

// LoggingConfig selects the log level and encoder.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	Enabled        bool    `koanf:"enabled"`
	Endpoint       string  `koanf:"endpoint"`
	Protocol       string  `koanf:"protocol"`
	Insecure       bool    `koanf:"insecure"`
	ServiceName    string  `koanf:"service_name"`
	ServiceVersion string  `koanf:"service_version"`
	SampleRate     float64 `koanf:"sample_rate"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            5000,
			ShutdownTimeout: Duration(10 * time.Second),
			QueryKey:        "text",
			Journal: JournalConfig{
				Path: "logs.txt",
			},
		},
		Parser: ParserConfig{
			BaseURL:    "http://localhost:8080",
			Timeout:    Duration(10 * time.Second),
			CacheSize:  1024,
			Burst:      8,
			MaxRetries: 2,
		},
		Templates: TemplatesConfig{
			Path: "configs/contexts.json",
		},
		Extraction: ExtractionConfig{
			Workers: 4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Telemetry: TelemetryConfig{
			Endpoint:       "localhost:4317",
			Protocol:       "grpc",
			Insecure:       true,
			ServiceName:    "factd",
			ServiceVersion: "0.1.0",
			SampleRate:     1.0,
		},
	}
}

var (
	validLevels    = []string{"trace", "debug", "info", "warn", "error"}
	validFormats   = []string{"json", "console"}
	validProtocols = []string{"grpc", "http/protobuf"}
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("shutdown timeout must be positive")
	}
	if strings.TrimSpace(c.Server.QueryKey) == "" {
		return errors.New("server query_key is required")
	}
	if c.Server.Journal.Enabled && c.Server.Journal.Path == "" {
		return errors.New("server journal path is required when the journal is enabled")
	}

	u, err := url.Parse(c.Parser.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid parser base_url: %q (must be http or https)", c.Parser.BaseURL)
	}
	if c.Parser.Timeout <= 0 {
		return errors.New("parser timeout must be positive")
	}
	if c.Parser.CacheSize < 0 {
		return fmt.Errorf("invalid parser cache_size: %d", c.Parser.CacheSize)
	}
	if c.Parser.RateLimit < 0 {
		return fmt.Errorf("invalid parser rate_limit: %v", c.Parser.RateLimit)
	}
	if c.Parser.MaxRetries < 0 {
		return fmt.Errorf("invalid parser max_retries: %d", c.Parser.MaxRetries)
	}

	if c.Templates.Path == "" {
		return errors.New("templates path is required")
	}
	for i, r := range c.Normalize.Replacements {
		if r.From == "" {
			return fmt.Errorf("normalize replacement %d: from is empty", i)
		}
	}
	if c.Extraction.Workers < 1 {
		return fmt.Errorf("invalid extraction workers: %d (must be at least 1)", c.Extraction.Workers)
	}

	if !oneOf(strings.ToLower(c.Logging.Level), validLevels) {
		return fmt.Errorf("invalid logging level: %q", c.Logging.Level)
	}
	if !oneOf(c.Logging.Format, validFormats) {
		return fmt.Errorf("invalid logging format: %q (must be json or console)", c.Logging.Format)
	}

	if c.Telemetry.Enabled {
		if c.Telemetry.Endpoint == "" {
			return errors.New("telemetry endpoint is required when telemetry is enabled")
		}
		if c.Telemetry.ServiceName == "" {
			return errors.New("service name required when telemetry is enabled")
		}
		if !oneOf(c.Telemetry.Protocol, validProtocols) {
			return fmt.Errorf("invalid telemetry protocol: %q", c.Telemetry.Protocol)
		}
		if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
			return fmt.Errorf("telemetry sample_rate must be between 0 and 1, got %v", c.Telemetry.SampleRate)
		}
	}

	return nil
}

// Addr returns the server listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
