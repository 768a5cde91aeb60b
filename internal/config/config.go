// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the server settings.
type Config struct {
	Port   int    `env:"GAMEMATE_PORT" envDefault:"8080"`
	DBPath string `env:"GAMEMATE_DB_PATH" envDefault:"./data/gamemate.db"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"GAMEMATE_LOG_FORMAT" envDefault:"text"`

	JWTSecret string        `env:"GAMEMATE_JWT_SECRET"`
	TokenTTL  time.Duration `env:"GAMEMATE_TOKEN_TTL" envDefault:"24h"`

	// Timezone interprets event dates and times.
	Timezone string `env:"GAMEMATE_TIMEZONE" envDefault:"UTC"`

	// SweepInterval enables a background completion sweep. 0 disables it.
	SweepInterval time.Duration `env:"GAMEMATE_SWEEP_INTERVAL" envDefault:"0"`

	// OTelEndpoint is the OTLP/HTTP traces URL. Tracing is off when empty.
	OTelEndpoint string `env:"GAMEMATE_OTEL_ENDPOINT"`
}

// Load reads an optional .env file from the working directory, then parses
// the environment. Variables already set take precedence over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return Parse()
}

// Parse reads the configuration from the environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that have no usable default.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("GAMEMATE_JWT_SECRET is required")
	}
	if len(c.JWTSecret) < 16 {
		return errors.New("GAMEMATE_JWT_SECRET must be at least 16 characters")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("GAMEMATE_PORT %d out of range", c.Port)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("GAMEMATE_TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	if c.SweepInterval < 0 {
		return fmt.Errorf("GAMEMATE_SWEEP_INTERVAL must not be negative, got %s", c.SweepInterval)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("GAMEMATE_LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid GAMEMATE_TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
