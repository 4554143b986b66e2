// Package config loads client settings from defaults, an optional YAML
// file, a .env file and TETSUNAVI_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvConfig     = "TETSUNAVI_CONFIG"
	EnvAPIURL     = "TETSUNAVI_API_URL"
	EnvDB         = "TETSUNAVI_DB"
	EnvTimeoutMs  = "TETSUNAVI_TIMEOUT_MS"
	EnvMaxRetries = "TETSUNAVI_MAX_RETRIES"
	EnvLogCalls   = "TETSUNAVI_LOG_CALLS"
	EnvLogLevel   = "TETSUNAVI_LOG_LEVEL"
	EnvExportDir  = "TETSUNAVI_EXPORT_DIR"
)

// Config holds every client setting.
type Config struct {
	APIURL             string `yaml:"api_url"`
	DBPath             string `yaml:"db_path"`
	TimeoutMs          int    `yaml:"timeout_ms"`
	MaxRetries         int    `yaml:"max_retries"`
	LogCalls           bool   `yaml:"log_calls"`
	LogLevel           string `yaml:"log_level"`
	ExportDir          string `yaml:"export_dir"`
	RefetchOnReconnect bool   `yaml:"refetch_on_reconnect"`
	RefetchOnFocus     bool   `yaml:"refetch_on_focus"`
}

// Dir is where the config file and bookmark database live by default.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tetsunavi"
	}
	return filepath.Join(home, ".tetsunavi")
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		APIURL:             "http://localhost:8000/api",
		DBPath:             filepath.Join(Dir(), "tetsunavi.db"),
		TimeoutMs:          30000,
		MaxRetries:         3,
		LogLevel:           "warn",
		ExportDir:          ".",
		RefetchOnReconnect: true,
	}
}

// Timeout is TimeoutMs as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// Level parses LogLevel, defaulting to warn.
func (c Config) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelWarn
	}
	return lvl
}

// Validate rejects settings the client cannot run with.
func (c Config) Validate() error {
	var errs []string
	if strings.TrimSpace(c.APIURL) == "" {
		errs = append(errs, "api_url is required")
	} else if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		errs = append(errs, "api_url must start with http:// or https://")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, "db_path is required")
	}
	if c.TimeoutMs <= 0 {
		errs = append(errs, "timeout_ms must be positive")
	}
	if c.MaxRetries < 0 {
		errs = append(errs, "max_retries must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// LookupFunc reads one environment variable.
type LookupFunc func(key string) (string, bool)

// Load reads configuration from the process environment and ./.env.
func Load() (Config, error) {
	return LoadFrom(os.LookupEnv, ".env")
}

// LoadFrom layers defaults, the YAML file, dotenvPath and lookup. Values in
// the real environment win over the .env file. A missing default config
// file or .env file is not an error; a missing file named by
// TETSUNAVI_CONFIG is.
func LoadFrom(lookup LookupFunc, dotenvPath string) (Config, error) {
	cfg := DefaultConfig()

	dotenv := map[string]string{}
	if dotenvPath != "" {
		m, err := godotenv.Read(dotenvPath)
		switch {
		case err == nil:
			dotenv = m
		case errors.Is(err, fs.ErrNotExist):
		default:
			return cfg, fmt.Errorf("config: read %s: %w", dotenvPath, err)
		}
	}
	get := func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}

	path, explicit := get(EnvConfig)
	if !explicit {
		path = filepath.Join(Dir(), "config.yaml")
	}
	if err := cfg.mergeFile(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return cfg, err
		}
	}

	if err := cfg.applyEnv(get); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// mergeFile overlays the YAML file at path. Keys absent from the file keep
// their current values.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(get LookupFunc) error {
	if v, ok := get(EnvAPIURL); ok && v != "" {
		c.APIURL = v
	}
	if v, ok := get(EnvDB); ok && v != "" {
		c.DBPath = v
	}
	if v, ok := get(EnvExportDir); ok && v != "" {
		c.ExportDir = v
	}
	if v, ok := get(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := get(EnvLogCalls); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvLogCalls, err)
		}
		c.LogCalls = b
	}
	if v, ok := get(EnvTimeoutMs); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvTimeoutMs, err)
		}
		c.TimeoutMs = n
	}
	if v, ok := get(EnvMaxRetries); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvMaxRetries, err)
		}
		c.MaxRetries = n
	}
	return nil
}
