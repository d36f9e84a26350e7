package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the process settings read from the environment.
type Config struct {
	Addr         string        `env:"TOMBOLA_ADDR" envDefault:":5000"`
	DataFile     string        `env:"TOMBOLA_DATA_FILE" envDefault:"tombola_data.json"`
	DatabaseURL  string        `env:"DATABASE_URL"`
	Debug        bool          `env:"TOMBOLA_DEBUG"`
	Heartbeat    time.Duration `env:"TOMBOLA_HEARTBEAT" envDefault:"15s"`
	WriteTimeout time.Duration `env:"TOMBOLA_WRITE_TIMEOUT" envDefault:"10s"`
}

// Load reads the optional .env files, then parses the environment.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Heartbeat <= 0 {
		return Config{}, fmt.Errorf("TOMBOLA_HEARTBEAT must be positive, got %s", cfg.Heartbeat)
	}
	if cfg.WriteTimeout <= 0 {
		return Config{}, fmt.Errorf("TOMBOLA_WRITE_TIMEOUT must be positive, got %s", cfg.WriteTimeout)
	}
	return cfg, nil
}

// UseDatabase reports whether state is kept in a database rather than the data file.
func (c Config) UseDatabase() bool {
	return c.DatabaseURL != ""
}
