// /internal/config/config.go
package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Load .env before anything reads the environment. A missing file is normal in
// containers, so the error is recorded instead of logged here (logging is not
// configured yet).
var dotenvErr = godotenv.Load()

// DotenvLoaded reports whether a .env file was found at startup.
func DotenvLoaded() bool {
	return dotenvErr == nil
}

type Config struct {
	// Loop
	Interval       time.Duration `env:"INTERVAL" envDefault:"12s"`
	DreamDuration  time.Duration `env:"DREAM_DURATION" envDefault:"8s"`
	MaxAttempts    int           `env:"MAX_ATTEMPTS" envDefault:"3"`
	Composer       string        `env:"COMPOSER" envDefault:"monologue"`
	NormalizeMoods bool          `env:"NORMALIZE_EMOTIONS" envDefault:"true"`
	GraphCapacity  int           `env:"GRAPH_CAPACITY" envDefault:"400"`
	Seed           int64         `env:"SEED" envDefault:"0"`

	// Text generation
	Provider       string        `env:"AI_PROVIDER" envDefault:"pollinations"`
	Model          string        `env:"AI_MODEL" envDefault:"openai"`
	BaseURL        string        `env:"AI_BASE_URL"`
	APIKey         string        `env:"AI_API_KEY"`
	RequestTimeout time.Duration `env:"AI_TIMEOUT" envDefault:"8s"`
	RatePerSecond  float64       `env:"AI_RATE" envDefault:"1"`

	// Encyclopedia
	WikipediaURL string `env:"WIKIPEDIA_URL" envDefault:"https://en.wikipedia.org/api/rest_v1"`

	// Storage
	DataDir       string `env:"DATA_DIR" envDefault:"data"`
	SnapshotFile  string `env:"SNAPSHOT_FILE"`
	ArchiveDriver string `env:"ARCHIVE_DRIVER" envDefault:"sqlite"`
	ArchiveDSN    string `env:"ARCHIVE_DSN"`

	// Presentation
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8787"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`
}

// New parses V0ID_* environment variables into a Config and fills derived paths.
func New() (*Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Prefix: "V0ID_"})
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.SnapshotFile == "" {
		cfg.SnapshotFile = filepath.Join(cfg.DataDir, "mind.json")
	}
	if cfg.ArchiveDSN == "" && cfg.ArchiveDriver == "sqlite" {
		cfg.ArchiveDSN = filepath.Join(cfg.DataDir, "thoughts.db")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the loop cannot run with.
func (c *Config) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("V0ID_INTERVAL must be positive, got %s", c.Interval)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("V0ID_AI_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("V0ID_MAX_ATTEMPTS must be at least 1, got %d", c.MaxAttempts)
	}
	if c.GraphCapacity < 16 {
		return fmt.Errorf("V0ID_GRAPH_CAPACITY must be at least 16, got %d", c.GraphCapacity)
	}
	switch c.Provider {
	case "pollinations", "g4f", "huggingface", "openai", "offline":
	default:
		return fmt.Errorf("unsupported V0ID_AI_PROVIDER: %s", c.Provider)
	}
	switch c.Composer {
	case "monologue", "plain":
	default:
		return fmt.Errorf("unsupported V0ID_COMPOSER: %s", c.Composer)
	}
	switch c.ArchiveDriver {
	case "sqlite", "none":
	case "postgres":
		if c.ArchiveDSN == "" {
			return fmt.Errorf("V0ID_ARCHIVE_DSN is required for the postgres archive")
		}
	default:
		return fmt.Errorf("unsupported V0ID_ARCHIVE_DRIVER: %s", c.ArchiveDriver)
	}
	if c.Provider == "openai" && c.APIKey == "" {
		return fmt.Errorf("V0ID_AI_API_KEY is required for the openai provider")
	}
	return nil
}
