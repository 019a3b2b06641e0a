package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the CLI settings, loaded from a YAML file with
// environment overrides under the FHAWK_ prefix.
type Config struct {
	UserAgent string        `mapstructure:"user_agent"`
	Rate      float64       `mapstructure:"rate"`
	Burst     int           `mapstructure:"burst"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Output    string        `mapstructure:"output"`
	Logging   LoggingConfig `mapstructure:"logging"`
	Endpoints Endpoints     `mapstructure:"endpoints"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Endpoints overrides the upstream base URLs; empty fields keep the
// production defaults.
type Endpoints struct {
	Archives string `mapstructure:"archives"`
	Data     string `mapstructure:"data"`
	Files    string `mapstructure:"files"`
	Search   string `mapstructure:"search"`
	Browse   string `mapstructure:"browse"`
	News     string `mapstructure:"news"`
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults. Every key needs one registered so environment
	// overrides reach Unmarshal.
	v.SetDefault("user_agent", "")
	v.SetDefault("rate", 10.0)
	v.SetDefault("burst", 10)
	v.SetDefault("timeout", "30s")
	v.SetDefault("output", "table")
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "text")

	// Read config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.fhawk")
	}

	// Environment variables override
	v.SetEnvPrefix("FHAWK")
	v.AutomaticEnv()

	// Read config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
