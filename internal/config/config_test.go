package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) LookupFunc {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.True(t, cfg.RefetchOnReconnect)
	assert.False(t, cfg.RefetchOnFocus)
	assert.Equal(t, slog.LevelWarn, cfg.Level())
	assert.NoError(t, cfg.Validate())
}

func TestLoadFrom_NoSourcesUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadFrom(envMap(map[string]string{EnvConfig: writeFile(t, dir, "empty.yaml", "")}), filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().APIURL, cfg.APIURL)
}

func TestLoadFrom_LayersInOrder(t *testing.T) {
	dir := t.TempDir()
	yamlPath := writeFile(t, dir, "config.yaml", `
api_url: https://file.example/api
timeout_ms: 5000
log_level: info
refetch_on_focus: true
`)
	dotenv := writeFile(t, dir, ".env", "TETSUNAVI_TIMEOUT_MS=7000\nTETSUNAVI_EXPORT_DIR=/tmp/dotenv\nTETSUNAVI_LOG_CALLS=true\n")

	cfg, err := LoadFrom(envMap(map[string]string{
		EnvConfig:    yamlPath,
		EnvExportDir: "/tmp/env",
	}), dotenv)
	require.NoError(t, err)

	assert.Equal(t, "https://file.example/api", cfg.APIURL, "from yaml")
	assert.Equal(t, 7000, cfg.TimeoutMs, ".env overrides yaml")
	assert.Equal(t, "/tmp/env", cfg.ExportDir, "environment overrides .env")
	assert.True(t, cfg.LogCalls)
	assert.True(t, cfg.RefetchOnFocus)
	assert.True(t, cfg.RefetchOnReconnect, "keys missing from yaml keep defaults")
	assert.Equal(t, slog.LevelInfo, cfg.Level())
}

func TestLoadFrom_ExplicitConfigMustExist(t *testing.T) {
	_, err := LoadFrom(envMap(map[string]string{EnvConfig: filepath.Join(t.TempDir(), "nope.yaml")}), "")
	assert.Error(t, err)
}

func TestLoadFrom_BadYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", "api_url: [unterminated")
	_, err := LoadFrom(envMap(map[string]string{EnvConfig: path}), "")
	assert.Error(t, err)
}

func TestLoadFrom_BadEnvValues(t *testing.T) {
	empty := writeFile(t, t.TempDir(), "config.yaml", "")
	for _, key := range []string{EnvTimeoutMs, EnvMaxRetries, EnvLogCalls} {
		_, err := LoadFrom(envMap(map[string]string{EnvConfig: empty, key: "not-a-number"}), "")
		assert.Error(t, err, key)
	}
}

func TestLoadFrom_ValidatesResult(t *testing.T) {
	empty := writeFile(t, t.TempDir(), "config.yaml", "")
	_, err := LoadFrom(envMap(map[string]string{EnvConfig: empty, EnvTimeoutMs: "0"}), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout_ms")
}

func TestLoad_ReadsProcessEnvironment(t *testing.T) {
	t.Setenv(EnvConfig, writeFile(t, t.TempDir(), "config.yaml", ""))
	t.Setenv(EnvAPIURL, "https://env.example/api")
	t.Setenv(EnvDB, filepath.Join(t.TempDir(), "b.db"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://env.example/api", cfg.APIURL)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.APIURL = "ftp://x"
	cfg.DBPath = " "
	cfg.MaxRetries = -1
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_url")
	assert.Contains(t, err.Error(), "db_path")
	assert.Contains(t, err.Error(), "max_retries")
}

func TestLevel_Unknown(t *testing.T) {
	cfg := Config{LogLevel: "loud"}
	assert.Equal(t, slog.LevelWarn, cfg.Level())
	cfg.LogLevel = "DEBUG"
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}
