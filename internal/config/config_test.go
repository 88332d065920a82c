package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gadgetloop/storefront/internal/errors"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, cfg.APIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"api_base_url: http://localhost:9090\ntimeout_seconds: 5\nlog_level: debug\n"), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9090", cfg.APIBaseURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout())
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_base_url: http://from-file:1\n"), 0600))
	t.Setenv("GADGETLOOP_API_URL", "http://from-env:2")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://from-env:2", cfg.APIBaseURL)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_base_url: [unclosed\n"), 0600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeConfigUnmarshal, errors.CodeOf(err))
}

func TestLoadRejectsEmptyBaseURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`api_base_url: ""`+"\n"), 0600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeConfigInvalid, errors.CodeOf(err))
}

func TestNonPositiveTimeoutFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timeout_seconds: -1\n"), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
}
