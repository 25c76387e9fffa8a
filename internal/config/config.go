// Package config provides Viper-based configuration for the client core.
// Everything is overridable from the environment under the MOBILEARN_
// prefix; defaults target local development against the mock backend.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the composition root needs to wire the stores.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Storage StorageConfig `mapstructure:"storage"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig locates the platform backend. Endpoint paths are composed
// from BaseURL and Version, e.g. {base}/auth/v1/login.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Version string        `mapstructure:"version"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// StorageConfig locates the on-device database.
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Load builds the configuration from defaults and environment variables:
// MOBILEARN_API_BASE_URL, MOBILEARN_API_VERSION, MOBILEARN_API_TIMEOUT,
// MOBILEARN_STORAGE_PATH, MOBILEARN_LOGGING_LEVEL.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("api.base_url", "http://localhost:8080")
	v.SetDefault("api.version", "v1")
	v.SetDefault("api.timeout", 15*time.Second)
	v.SetDefault("storage.path", "data/mobilearn.db")
	v.SetDefault("logging.level", "info")

	v.SetEnvPrefix("MOBILEARN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshaling: %w", err)
	}
	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("config: api base URL must not be empty")
	}
	return &cfg, nil
}
