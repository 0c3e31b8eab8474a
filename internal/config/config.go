// Package config loads application settings from the environment, with
// optional .env support for local development.
package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	// GeminiAPIKey may be empty; the stored credential file is the
	// fallback, and the TUI prompts when neither is set.
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	Model        string `env:"CRYPTO_GAME_MODEL" envDefault:"gemini-2.5-flash"`
	SaveDir      string `env:"CRYPTO_GAME_SAVE_DIR" envDefault:".saves"`
	Language     string `env:"CRYPTO_GAME_LANG" envDefault:"English"`
}

// Load reads .env if present, then parses the environment.
func Load() (*Config, error) {
	_ = godotenv.Load() // missing .env is fine

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
