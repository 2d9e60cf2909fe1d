package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SOCRP_API_URL", "http://env/api")
	t.Setenv("SOCRP_MEDIA_URL", "http://env")
	t.Setenv("SOCRP_SESSION_DB", "env.db")
	t.Setenv("SOCRP_REQUEST_TIMEOUT", "9s")
	t.Setenv("SOCRP_RPS", "1.5")
	t.Setenv("SOCRP_LOG_LEVEL", "error")

	cfg := &Config{}
	parseEnv(cfg)

	assert.Equal(t, &Config{
		APIBaseURL:        "http://env/api",
		MediaBaseURL:      "http://env",
		SessionDBPath:     "env.db",
		RequestTimeout:    9 * time.Second,
		RequestsPerSecond: 1.5,
		LogLevel:          "error",
	}, cfg)
}

func TestParseEnv_EmptyKeepsValues(t *testing.T) {
	clearEnv(t)

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	want := &Config{}
	want.LoadDefaults()
	assert.Equal(t, want, cfg)
}

func TestParseEnv_BadDurationPanics(t *testing.T) {
	clearEnv(t)
	t.Setenv("SOCRP_REQUEST_TIMEOUT", "soonish")

	require.Panics(t, func() { parseEnv(&Config{}) })
}

func TestLoadEnvFile(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("SOCRP_SESSION_DB=dotenv.db\n"), 0o600))

	t.Run("explicit file is exported", func(t *testing.T) {
		// godotenv does not override set variables, so unset it first
		require.NoError(t, os.Unsetenv("SOCRP_SESSION_DB"))
		os.Args = []string{"testbin", "-e", path}
		loadEnvFile()

		cfg := &Config{}
		parseEnv(cfg)
		assert.Equal(t, "dotenv.db", cfg.SessionDBPath)
	})

	t.Run("missing explicit file panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-env-file", filepath.Join(dir, "absent.env")}
		require.Panics(t, loadEnvFile)
	})

	t.Run("missing default file is ignored", func(t *testing.T) {
		os.Args = []string{"testbin"}
		require.NotPanics(t, loadEnvFile)
	})
}
