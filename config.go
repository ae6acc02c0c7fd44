// config.go
//
// Typed process configuration, parsed from the environment. godotenv fills
// the environment from a .env file in development; caarlos0/env maps it
// onto the struct.

package main

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every tunable the process reads at boot.
type Config struct {
	Port         string        `env:"PORT" envDefault:"5175"`
	LogLevel     string        `env:"LOG_LEVEL" envDefault:"info"`
	ClientOrigin string        `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	CookieSecret string        `env:"COOKIE_SECRET" envDefault:"dev_secret_change_me"`
	WordsFile    string        `env:"WORDS_FILE"` // empty selects the embedded list
	GameTTL      time.Duration `env:"GAME_TTL" envDefault:"1h"`
	SweepEvery   time.Duration `env:"SWEEP_INTERVAL" envDefault:"1s"`
}

// loadConfig reads .env (if present) and parses the environment.
func loadConfig() (Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
