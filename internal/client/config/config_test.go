package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"SOCRP_API_URL", "SOCRP_MEDIA_URL", "SOCRP_SESSION_DB", "SOCRP_REQUEST_TIMEOUT", "SOCRP_RPS", "SOCRP_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8000/api", c.APIBaseURL)
	assert.Equal(t, "http://127.0.0.1:8000", c.MediaBaseURL)
	assert.Equal(t, "session.db", c.SessionDBPath)
	assert.Equal(t, 15*time.Second, c.RequestTimeout)
	assert.Zero(t, c.RequestsPerSecond)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	clearEnv(t)
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://127.0.0.1:8000/api", cfg.APIBaseURL)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
}

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SOCRP_API_URL", "http://from-env/api")
	t.Setenv("SOCRP_LOG_LEVEL", "debug")

	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin", "-a", "http://from-flag/api"}

	cfg := LoadConfig()

	assert.Equal(t, "http://from-flag/api", cfg.APIBaseURL)
	assert.Equal(t, "debug", cfg.LogLevel)
}
