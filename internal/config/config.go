// Package config loads the CLI configuration.
//
// Resolution order (highest to lowest precedence):
// 1. GADGETLOOP_* environment variables
// 2. The config file (~/.gadgetloop/config.yaml by default)
// 3. Built-in defaults
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/gadgetloop/storefront/internal/errors"
)

// DefaultBaseURL is the production storefront backend.
const DefaultBaseURL = "https://deploy-7fn8.onrender.com"

// Config holds all CLI settings.
type Config struct {
	// APIBaseURL is the storefront backend base URL.
	APIBaseURL string `yaml:"api_base_url" env:"GADGETLOOP_API_URL"`

	// TimeoutSeconds is the HTTP transport timeout.
	TimeoutSeconds int `yaml:"timeout_seconds" env:"GADGETLOOP_TIMEOUT_SECONDS"`

	// CredentialsPath overrides where the bearer credential is persisted.
	CredentialsPath string `yaml:"credentials_path" env:"GADGETLOOP_CREDENTIALS_PATH"`

	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string `yaml:"log_level" env:"GADGETLOOP_LOG_LEVEL"`

	// LogFormat is the log output format (text or json).
	LogFormat string `yaml:"log_format" env:"GADGETLOOP_LOG_FORMAT"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIBaseURL:     DefaultBaseURL,
		TimeoutSeconds: 30,
		LogLevel:       "warn",
		LogFormat:      "text",
	}
}

// DefaultPath returns the standard config file location,
// ~/.gadgetloop/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeConfigInvalid, "cannot resolve home directory", err)
	}
	return filepath.Join(home, ".gadgetloop", "config.yaml"), nil
}

// Load reads configuration from path, layering environment variables on top.
// A missing file is not an error; defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, errors.Wrap(errors.ErrCodeConfigUnmarshal, "cannot parse config file "+path, err).
					WithSuggestion("Check the YAML syntax of the file")
			}
		case !os.IsNotExist(err):
			return Config{}, errors.Wrap(errors.ErrCodeConfigInvalid, "cannot read config file "+path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeConfigInvalid, "cannot parse environment overrides", err)
	}

	if cfg.APIBaseURL == "" {
		return Config{}, errors.New(errors.ErrCodeConfigInvalid, "api_base_url must not be empty")
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = Default().TimeoutSeconds
	}

	return cfg, nil
}

// Timeout returns the transport timeout as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
