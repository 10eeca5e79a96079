// Package config loads engine configuration from the environment. A local
// .env file is honored when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the binaries need. All fields have working
// defaults; a bare environment yields a rule-based-only engine.
type Config struct {
	// HTTP server
	Port string

	// Batch handling
	BatchCap int // max messages per scan request
	Workers  int // per-message parallelism inside a batch

	// Job queue
	QueueSize    int
	QueueWorkers int

	// Enrichment
	EnrichMode    string // off, fallback, always
	EnrichModel   string
	EnrichTimeout time.Duration
}

// Load reads configuration, first from .env if one exists, then from the
// process environment.
func Load() (*Config, error) {
	// Missing .env is the normal case outside local dev.
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		BatchCap:      getEnvInt("BATCH_CAP", 200),
		Workers:       getEnvInt("SCAN_WORKERS", 4),
		QueueSize:     getEnvInt("QUEUE_SIZE", 100),
		QueueWorkers:  getEnvInt("QUEUE_WORKERS", 2),
		EnrichMode:    getEnv("ENRICH_MODE", "off"),
		EnrichModel:   getEnv("ENRICH_MODEL", ""),
		EnrichTimeout: getEnvDuration("ENRICH_TIMEOUT", 10*time.Second),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("config: invalid port %q", c.Port)
	}
	switch c.EnrichMode {
	case "off", "fallback", "always":
	default:
		return fmt.Errorf("config: invalid ENRICH_MODE %q (want off, fallback or always)", c.EnrichMode)
	}
	if c.BatchCap < 1 {
		return fmt.Errorf("config: BATCH_CAP must be positive, got %d", c.BatchCap)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
