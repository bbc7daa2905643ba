package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Config holds the configuration for the memories service.
// Environment variables are parsed from the MEMORIES_ prefix,
// e.g. MEMORIES_HTTP_PORT, MEMORIES_POSTGRES_DSN.
type Config struct {
	// DBDriver selects the store backend: postgres, sqlite, or auto.
	// auto picks postgres when a DSN is configured, sqlite otherwise.
	DBDriver string `envconfig:"DB_DRIVER" default:"auto"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Postgres Configuration
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`

	// SQLite Configuration (server local mode)
	SQLitePath string `envconfig:"SQLITE_PATH" default:"memories.db"`

	// Feed Configuration
	ListLimit int `envconfig:"LIST_LIMIT" default:"100"`
}

// ResolveDefaults derives DBDriver when set to "auto" and validates the result.
func (c *Config) ResolveDefaults() error {
	if c.DBDriver == "" || c.DBDriver == "auto" {
		if c.PostgresDSN != "" {
			c.DBDriver = "postgres"
		} else {
			c.DBDriver = "sqlite"
		}
	}
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	if c.ListLimit <= 0 {
		return fmt.Errorf("LIST_LIMIT must be positive, got %d", c.ListLimit)
	}
	return nil
}

// New creates a Config by parsing environment variables.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("MEMORIES", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Int("list_limit", cfg.ListLimit).
		Bool("postgres_dsn_present", cfg.PostgresDSN != "").
		Msg("Configuration loaded")

	return &cfg, nil
}

// GetHTTPAddr returns the HTTP server address.
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
