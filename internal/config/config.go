// Package config loads startup configuration.
//
// Everything is overridable from the environment with a SANDBOX_ prefix
// (SANDBOX_PORT, SANDBOX_MAX_TIMEOUT_SECONDS, ...), and an optional
// sandbox.yaml in the working directory can set the same keys. Configuration
// is read once at startup; nothing reloads at runtime.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Host                  string `mapstructure:"host"`
	Port                  int    `mapstructure:"port"`
	DefaultTimeoutSeconds int    `mapstructure:"default_timeout_seconds"`
	MaxTimeoutSeconds     int    `mapstructure:"max_timeout_seconds"`
	WorkspaceRoot         string `mapstructure:"workspace_root"`
	PythonBin             string `mapstructure:"python_bin"`
	LogLevel              string `mapstructure:"log_level"`
}

// Load reads configuration from the environment and an optional config file.
// A missing config file is fine; a malformed one is not.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("sandbox")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("SANDBOX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8000)
	v.SetDefault("default_timeout_seconds", 30)
	v.SetDefault("max_timeout_seconds", 60)
	v.SetDefault("workspace_root", "/tmp/sandbox")
	v.SetDefault("python_bin", "python3")
	v.SetDefault("log_level", "info")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.DefaultTimeoutSeconds <= 0 {
		return fmt.Errorf("default_timeout_seconds must be positive, got %d", c.DefaultTimeoutSeconds)
	}
	if c.MaxTimeoutSeconds < c.DefaultTimeoutSeconds {
		return fmt.Errorf("max_timeout_seconds (%d) must be >= default_timeout_seconds (%d)",
			c.MaxTimeoutSeconds, c.DefaultTimeoutSeconds)
	}
	if c.WorkspaceRoot == "" {
		return fmt.Errorf("workspace_root must not be empty")
	}
	if c.PythonBin == "" {
		return fmt.Errorf("python_bin must not be empty")
	}
	return nil
}
