// Package config loads the runtime settings of the akka tools from the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every setting read from the environment. Command line flags
// override individual fields.
type Config struct {
	BaseCurrency  string        `env:"AKKA_BASE_CURRENCY" envDefault:"EUR"`
	SessionDir    string        `env:"AKKA_SESSION_DIR" envDefault:".akka"`
	SessionID     string        `env:"AKKA_SESSION_ID" envDefault:"default"`
	SessionTTL    time.Duration `env:"AKKA_SESSION_TTL"`
	RedisURL      string        `env:"AKKA_REDIS_URL"`
	HTTPAddr      string        `env:"AKKA_HTTP_ADDR" envDefault:"localhost:8080"`
	Passcode      string        `env:"AKKA_PASSCODE"`
	QuoteSchedule string        `env:"AKKA_QUOTE_SCHEDULE" envDefault:"@every 30s"`
	CMCAPIKey     string        `env:"COINMARKETCAP_API_KEY"`
	CMCRate       float64       `env:"AKKA_CMC_RPS" envDefault:"0.5"`
	GeminiModel   string        `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	LogLevel      string        `env:"AKKA_LOG_LEVEL" envDefault:"info"`
}

// Load reads the optional dotenv files, then parses the environment.
// Variables already set in the environment win over the files.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return Parse()
}

// Parse reads the configuration from the environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.CMCRate <= 0 {
		return Config{}, fmt.Errorf("AKKA_CMC_RPS must be positive, got %v", cfg.CMCRate)
	}
	return cfg, nil
}
