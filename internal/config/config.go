// Package config loads command line tool settings from flags, environment
// variables and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment keys.
const (
	EnvLogLevel     = "AUDIOPROBE_LOG_LEVEL"
	EnvLogFormat    = "AUDIOPROBE_LOG_FORMAT"
	EnvProbeTimeout = "AUDIOPROBE_PROBE_TIMEOUT"
	EnvFFprobe      = "AUDIOPROBE_FFPROBE"
	EnvCatalog      = "AUDIOPROBE_CATALOG"
)

const (
	defaultLogLevel     = "info"
	defaultLogFormat    = "auto"
	defaultProbeTimeout = 30 * time.Second
	defaultFFprobe      = "ffprobe"
)

// Config holds the tool configuration.
type Config struct {
	Logger  LoggerConfig
	Probe   ProbeConfig
	Catalog CatalogConfig
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level  string
	Format string // json, text or auto
}

// ProbeConfig holds generic probe configuration.
type ProbeConfig struct {
	Timeout     time.Duration // 0 disables the per-file timeout
	FFprobePath string
}

// CatalogConfig holds catalog storage configuration.
type CatalogConfig struct {
	Path string // empty disables the catalog
}

// Flags are the raw command line values. Empty strings mean "not given".
type Flags struct {
	EnvFile      string
	LogLevel     string
	LogFormat    string
	ProbeTimeout string
	FFprobe      string
	Catalog      string
}

// Load resolves each setting with priority flag > environment > .env > default.
// A missing .env file is not an error.
func Load(flags Flags) (*Config, error) {
	envFile := flags.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	// godotenv never overrides variables that are already set.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	cfg := &Config{
		Logger: LoggerConfig{
			Level:  strings.ToLower(getConfigValue(flags.LogLevel, EnvLogLevel, defaultLogLevel)),
			Format: strings.ToLower(getConfigValue(flags.LogFormat, EnvLogFormat, defaultLogFormat)),
		},
		Probe: ProbeConfig{
			FFprobePath: getConfigValue(flags.FFprobe, EnvFFprobe, defaultFFprobe),
		},
	}

	timeout, err := getDurationConfigValue(flags.ProbeTimeout, EnvProbeTimeout, defaultProbeTimeout)
	if err != nil {
		return nil, err
	}
	cfg.Probe.Timeout = timeout

	catalog, err := expandPath(getConfigValue(flags.Catalog, EnvCatalog, ""))
	if err != nil {
		return nil, err
	}
	cfg.Catalog.Path = catalog

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all config values are valid.
func (c *Config) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	validFormats := map[string]bool{
		"json": true,
		"text": true,
		"auto": true,
	}
	if !validFormats[c.Logger.Format] {
		return fmt.Errorf("invalid log format: %s (must be json, text, or auto)", c.Logger.Format)
	}

	if c.Probe.Timeout < 0 {
		return errors.New("probe timeout cannot be negative")
	}

	if c.Probe.FFprobePath == "" {
		return errors.New("ffprobe path cannot be empty")
	}

	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getDurationConfigValue returns a duration from flag, env var, or default.
func getDurationConfigValue(flagValue, envKey string, defaultValue time.Duration) (time.Duration, error) {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(strValue)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, strValue, err)
	}
	return d, nil
}

// expandPath expands ~ and makes the path absolute. Empty stays empty.
func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}
