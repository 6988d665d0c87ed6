package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PLANNERSMART_LISTEN", "PLANNERSMART_DB_PATH", "PLANNERSMART_JWT_SECRET", "JWT_SECRET",
		"PLANNERSMART_TOKEN_TTL", "PLANNERSMART_SERVER_URL", "PLANNERSMART_LOG_LEVEL",
		"PLANNERSMART_ALARM_SCHEDULE", "PLANNERSMART_LLM_MODEL", "PLANNERSMART_LLM_TIMEOUT_MS",
	} {
		t.Setenv(k, "")
	}
	t.Chdir(t.TempDir())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, DefaultListen, cfg.Listen)
	assert.Equal(t, DefaultTokenTTL, cfg.TokenTTL)
	assert.Equal(t, "gemini-1.5-flash", cfg.LLM.Model)
	assert.NoFileExists(t, path)
}

func TestLoad_PartialFileIsNormalized(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: \":9000\"\ntoken_ttl: 2h\nserver_url: http://example.test/\nllm:\n  model: gemini-2.0-flash\n"), 0o600))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Listen)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "http://example.test", cfg.ServerURL)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.Model)
	assert.Equal(t, 30000, cfg.LLM.TimeoutMs)
	assert.Equal(t, DefaultAlarmSchedule, cfg.AlarmSchedule)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PLANNERSMART_JWT_SECRET", "s3cret")
	t.Setenv("PLANNERSMART_TOKEN_TTL", "30m")
	t.Setenv("PLANNERSMART_LOG_LEVEL", "debug")
	t.Setenv("PLANNERSMART_LLM_TIMEOUT_MS", "5000")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))

	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5000, cfg.LLM.TimeoutMs)
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.WriteFile(".env", []byte("PLANNERSMART_JWT_SECRET=from-dotenv\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("PLANNERSMART_JWT_SECRET") })
	os.Unsetenv("PLANNERSMART_JWT_SECRET")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))

	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.JWTSecret)
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: [unclosed"), 0o600))

	_, err := Load(path)

	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.JWTSecret = "abc"
	cfg.TokenTTL = 90 * time.Minute

	require.NoError(t, Save(path, cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "abc", loaded.JWTSecret)
	assert.Equal(t, 90*time.Minute, loaded.TokenTTL)
}

func TestRequireServe(t *testing.T) {
	cfg := DefaultConfig()
	assert.ErrorIs(t, cfg.RequireServe(), ErrMissingJWTSecret)

	cfg.JWTSecret = "x"
	assert.NoError(t, cfg.RequireServe())
}

func TestLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.LogLevel = "warn"

	logger := cfg.Logger(&buf)
	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNormalize_BadLogLevel(t *testing.T) {
	cfg := &Config{LogLevel: "loud"}
	cfg.Normalize()
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
}
