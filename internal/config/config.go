// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the server settings.
type Config struct {
	Addr            string        `env:"CHESS_ADDR" envDefault:":3000"`
	AllowOrigins    []string      `env:"CHESS_ALLOW_ORIGINS" envDefault:"http://localhost:5173" envSeparator:","`
	DBPath          string        `env:"CHESS_DB_PATH"`
	OTelEndpoint    string        `env:"CHESS_OTEL_ENDPOINT"`
	ShutdownTimeout time.Duration `env:"CHESS_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// Load reads Config from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.ShutdownTimeout <= 0 {
		return Config{}, fmt.Errorf("CHESS_SHUTDOWN_TIMEOUT must be positive, got %s", cfg.ShutdownTimeout)
	}
	return cfg, nil
}

// Origins returns AllowOrigins in the comma-separated form fiber's cors middleware expects.
func (c Config) Origins() string {
	return strings.Join(c.AllowOrigins, ",")
}

// InMemory reports whether no database path was configured.
func (c Config) InMemory() bool {
	return strings.TrimSpace(c.DBPath) == ""
}
