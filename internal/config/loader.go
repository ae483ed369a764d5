package config

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "FACTD_"

	maxConfigFileSize = 1024 * 1024 // 1MB
)

// nestedSections lists second-level sections whose env names need an extra
// delimiter, e.g. FACTD_SERVER_JOURNAL_PATH -> server.journal.path.
var nestedSections = map[string][]string{
	"server": {"journal"},
}

// Load builds the configuration from defaults, the YAML file at configPath
// (skipped when empty) and FACTD_* environment variables, in increasing
// precedence, and validates the result.
//
// Environment variables map to keys by stripping the prefix, lowercasing and
// splitting section from field at the first underscore:
//
//	FACTD_SERVER_PORT            -> server.port
//	FACTD_PARSER_BASE_URL        -> parser.base_url
//	FACTD_SERVER_JOURNAL_ENABLED -> server.journal.enabled
//
// The file must be a regular file no larger than 1MB and must not be world
// writable.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath != "" {
		content, err := readConfigFile(configPath)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}

	section, field := parts[0], parts[1]
	for _, nested := range nestedSections[section] {
		if strings.HasPrefix(field, nested+"_") {
			return section + "." + nested + "." + strings.TrimPrefix(field, nested+"_")
		}
	}
	return section + "." + field
}

// readConfigFile opens path once and validates the open descriptor so the
// checked file is the one read.
func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if err := validateConfigFileProperties(info); err != nil {
		return nil, fmt.Errorf("config file validation failed: %w", err)
	}

	content, err := io.ReadAll(io.LimitReader(f, maxConfigFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if len(content) > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: more than %d bytes", maxConfigFileSize)
	}
	return content, nil
}

func validateConfigFileProperties(info os.FileInfo) error {
	if !info.Mode().IsRegular() {
		return fmt.Errorf("config path is not a regular file")
	}

	// Skip on Windows (different permission model)
	if runtime.GOOS != "windows" {
		if perm := info.Mode().Perm(); perm&0o002 != 0 {
			return fmt.Errorf("insecure config file permissions: %v (world writable)", perm)
		}
	}

	if info.Size() > maxConfigFileSize {
		return fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}
	return nil
}
