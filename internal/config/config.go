// Package config resolves application settings from an optional config file,
// environment variables, and defaults, in that order of precedence
// (env over file over default).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/gravityplanner/gravity/internal/constants"
)

// Config is the resolved application configuration.
type Config struct {
	// DataDir holds the local state mirror and log files.
	DataDir string `mapstructure:"data_dir"`

	// RemoteDSN connects the sync layer to the remote store. Usually empty
	// here and read from the OS keyring instead; a value in config or env
	// overrides the keyring.
	RemoteDSN string `mapstructure:"remote_dsn"`

	// Principal scopes remote rows to this installation's account.
	Principal string `mapstructure:"principal"`

	// Debug enables verbose logging to stderr.
	Debug bool `mapstructure:"debug"`
}

// Load reads ~/.gravity.yaml (or $GRAVITY_CONFIG_PATH) and the GRAVITY_*
// environment, falling back to defaults. A missing config file is not an
// error.
func Load() (*Config, error) {
	v := viper.New()

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	v.SetDefault("data_dir", filepath.Join(home, "."+constants.AppName))
	v.SetDefault("remote_dsn", "")
	v.SetDefault("principal", "default")
	v.SetDefault("debug", false)

	v.SetConfigName("." + constants.AppName)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("GRAVITY")
	v.AutomaticEnv()

	if override := os.Getenv("GRAVITY_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath(home)
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	return &cfg, nil
}
