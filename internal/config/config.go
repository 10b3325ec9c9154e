// Package config provides Viper-based hierarchical configuration:
// defaults, then an optional config file, then STMT_* environment
// variables.
package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config is the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Store struct {
		// Path of the SQLite database. Empty selects the in-memory store,
		// useful for dry runs.
		Path string `mapstructure:"path" yaml:"path"`
	} `mapstructure:"store" yaml:"store"`

	Owner string `mapstructure:"owner" yaml:"owner"`

	Category struct {
		SystemName string `mapstructure:"system_name" yaml:"system_name"`
		SeedFile   string `mapstructure:"seed_file" yaml:"seed_file"`
	} `mapstructure:"category" yaml:"category"`
}

// Delimiter returns the configured CSV delimiter as a rune.
func (c *Config) Delimiter() rune {
	return []rune(c.CSV.Delimiter)[0]
}

// Load initializes Viper configuration with hierarchical loading.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.statement-csv")
	v.AddConfigPath(".statement-csv")
	v.AddConfigPath(".")

	v.SetEnvPrefix("STMT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// A malformed file should not be silently ignored; a missing
			// one is fine, defaults and env vars cover it.
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("csv.delimiter", ",")
	v.SetDefault("store.path", "statements.db")
	v.SetDefault("owner", "default")
	v.SetDefault("category.system_name", "Uncategorized")
	v.SetDefault("category.seed_file", "")
}

func validate(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}
	if len(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}
	if strings.TrimSpace(config.Owner) == "" {
		return fmt.Errorf("owner must not be empty")
	}
	if strings.TrimSpace(config.Category.SystemName) == "" {
		return fmt.Errorf("category.system_name must not be empty")
	}
	return nil
}
