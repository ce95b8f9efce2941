package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestNewDefaults(t *testing.T) {
	t.Setenv("V0ID_DATA_DIR", "/tmp/v0id")

	cfg, err := New()
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if cfg.Interval != 12*time.Second {
		t.Fatalf("expected 12s interval, got %s", cfg.Interval)
	}
	if cfg.MaxAttempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", cfg.MaxAttempts)
	}
	if cfg.SnapshotFile != filepath.Join("/tmp/v0id", "mind.json") {
		t.Fatalf("unexpected snapshot file %q", cfg.SnapshotFile)
	}
	if cfg.ArchiveDSN != filepath.Join("/tmp/v0id", "thoughts.db") {
		t.Fatalf("unexpected archive dsn %q", cfg.ArchiveDSN)
	}
	if !cfg.NormalizeMoods {
		t.Fatal("expected emotion normalisation on by default")
	}
}

func TestNewOverrides(t *testing.T) {
	t.Setenv("V0ID_INTERVAL", "3s")
	t.Setenv("V0ID_AI_PROVIDER", "offline")
	t.Setenv("V0ID_COMPOSER", "plain")

	cfg, err := New()
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if cfg.Interval != 3*time.Second || cfg.Provider != "offline" || cfg.Composer != "plain" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(c *Config){
		"provider":  func(c *Config) { c.Provider = "carrier-pigeon" },
		"composer":  func(c *Config) { c.Composer = "sonnet" },
		"attempts":  func(c *Config) { c.MaxAttempts = 0 },
		"interval":  func(c *Config) { c.Interval = 0 },
		"graph":     func(c *Config) { c.GraphCapacity = 2 },
		"postgres":  func(c *Config) { c.ArchiveDriver = "postgres"; c.ArchiveDSN = "" },
		"openaiKey": func(c *Config) { c.Provider = "openai"; c.APIKey = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := validConfig()
			mutate(&c)
			if err := c.Validate(); err == nil {
				t.Fatalf("expected validation error for %s", name)
			}
		})
	}
}

func validConfig() Config {
	return Config{
		Interval:       time.Second,
		RequestTimeout: time.Second,
		MaxAttempts:    3,
		GraphCapacity:  100,
		Provider:       "pollinations",
		Composer:       "monologue",
		ArchiveDriver:  "sqlite",
	}
}
