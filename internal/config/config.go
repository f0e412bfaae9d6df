// Package config reads LostMate settings from LOSTMATE_* environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is the environment variable prefix.
const Prefix = "LOSTMATE"

// Database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds the settings for the lostmate command.
type Config struct {
	DBDriver     string        `envconfig:"DB_DRIVER" default:"sqlite"`
	DBPath       string        `envconfig:"DB_PATH" default:"lostmate.sqlite3"`
	PostgresDSN  string        `envconfig:"POSTGRES_DSN" default:""`
	Addr         string        `envconfig:"ADDR" default:":8080"`
	Latency      time.Duration `envconfig:"LATENCY" default:"0s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"5s"`
	LogLevel     string        `envconfig:"LOG_LEVEL" default:"info"`
}

// Load parses the environment, applies overrides in order and validates the
// result. Command line flags are passed as overrides.
func Load(overrides ...func(*Config)) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	for _, override := range overrides {
		override(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that envconfig cannot.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("%s_DB_PATH is required for the sqlite driver", Prefix)
		}
	case DriverPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("%s_POSTGRES_DSN is required for the postgres driver", Prefix)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %q", c.DBDriver)
	}
	if c.Latency < 0 {
		return fmt.Errorf("LATENCY must not be negative, got %s", c.Latency)
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("WRITE_TIMEOUT must be positive, got %s", c.WriteTimeout)
	}
	return nil
}
