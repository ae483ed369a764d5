package telemetry

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/fyrsmithlabs/factd/internal/config"
)

// Config holds telemetry settings.
type Config struct {
	Enabled        bool
	Endpoint       string
	Protocol       string // "grpc" or "http/protobuf"
	Insecure       bool
	ServiceName    string
	ServiceVersion string
	// SampleRate is the head sampling ratio in [0, 1].
	SampleRate      float64
	MetricsInterval time.Duration
	ShutdownTimeout time.Duration
}

const (
	defaultMetricsInterval = 15 * time.Second
	defaultShutdownTimeout = 5 * time.Second
)

// NewDefaultConfig returns disabled telemetry pointed at a local collector.
func NewDefaultConfig() *Config {
	return &Config{
		Endpoint:        "localhost:4317",
		Protocol:        "grpc",
		Insecure:        true,
		ServiceName:     "factd",
		ServiceVersion:  "0.1.0",
		SampleRate:      1.0,
		MetricsInterval: defaultMetricsInterval,
		ShutdownTimeout: defaultShutdownTimeout,
	}
}

// FromConfig converts the telemetry section of the service configuration.
func FromConfig(c config.TelemetryConfig) *Config {
	cfg := NewDefaultConfig()
	cfg.Enabled = c.Enabled
	cfg.Endpoint = c.Endpoint
	cfg.Protocol = c.Protocol
	cfg.Insecure = c.Insecure
	cfg.SampleRate = c.SampleRate
	if c.ServiceName != "" {
		cfg.ServiceName = c.ServiceName
	}
	if c.ServiceVersion != "" {
		cfg.ServiceVersion = c.ServiceVersion
	}
	return cfg
}

// Validate checks configuration for errors. A disabled config is always valid.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.Endpoint == "" {
		return errors.New("endpoint is required when telemetry is enabled")
	}
	if c.ServiceName == "" {
		return errors.New("service_name is required when telemetry is enabled")
	}
	switch c.Protocol {
	case "", "grpc", "http/protobuf":
	default:
		return fmt.Errorf("unsupported protocol %q", c.Protocol)
	}

	// Plaintext export is only allowed to a collector on this host.
	if c.Insecure && !c.isLocalEndpoint() {
		return fmt.Errorf("insecure export to remote endpoint %q is not allowed; disable insecure or use a local collector", c.Endpoint)
	}

	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("sample_rate must be between 0 and 1, got %f", c.SampleRate)
	}
	if c.MetricsInterval <= 0 {
		return errors.New("metrics interval must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("shutdown timeout must be positive")
	}
	return nil
}

func (c *Config) isLocalEndpoint() bool {
	host := stripScheme(c.Endpoint)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.Trim(host, "[]")

	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
