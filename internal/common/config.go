// Package common provides shared utilities for the marketcore service
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for marketcore
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Cache       CacheConfig   `toml:"cache"`
	Clients     ClientsConfig `toml:"clients"`
	Scanner     ScannerConfig `toml:"scanner"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// CacheConfig holds cache backend configuration.
// An empty RedisURL selects the in-process backend.
type CacheConfig struct {
	RedisURL      string         `toml:"redis_url"`
	SweepInterval string         `toml:"sweep_interval"`
	TTL           map[string]int `toml:"ttl"` // per-domain TTL overrides, seconds
}

// GetSweepInterval parses and returns the memory-backend sweep interval.
// Zero disables the background sweep; lazy eviction still applies.
func (c *CacheConfig) GetSweepInterval() time.Duration {
	d, err := time.ParseDuration(c.SweepInterval)
	if err != nil {
		return 5 * time.Minute
	}
	return d
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Finnhub FinnhubConfig `toml:"finnhub"`
}

// FinnhubConfig holds upstream market-data API configuration
type FinnhubConfig struct {
	BaseURL     string `toml:"base_url"`
	APIKey      string `toml:"api_key"`
	MinInterval string `toml:"min_interval"` // minimum delay between requests
	Timeout     string `toml:"timeout"`
}

// GetMinInterval parses and returns the minimum inter-request delay
func (c *FinnhubConfig) GetMinInterval() time.Duration {
	d, err := time.ParseDuration(c.MinInterval)
	if err != nil {
		return 500 * time.Millisecond
	}
	return d
}

// GetTimeout parses and returns the HTTP timeout duration
func (c *FinnhubConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// ScannerConfig holds scanner engine configuration
type ScannerConfig struct {
	Source        string   `toml:"source"`         // "static" or "screener"
	Universe      []string `toml:"universe"`       // candidate symbols for the static source
	MaxCandidates int      `toml:"max_candidates"` // universe size bound
	Concurrency   int      `toml:"concurrency"`    // parallel candidate evaluations
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
}

// defaultUniverse is the static candidate list used when no universe is
// configured. Mirrors the actively traded US symbols the scanners were
// tuned against.
var defaultUniverse = []string{
	"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA", "META", "NVDA", "NFLX",
	"AMD", "INTC", "CRM", "ORCL", "ADBE", "PYPL", "UBER", "LYFT",
	"SNAP", "SQ", "ROKU", "ZM", "PTON", "DOCU", "SHOP",
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Cache: CacheConfig{
			RedisURL:      "",
			SweepInterval: "5m",
			TTL:           map[string]int{},
		},
		Clients: ClientsConfig{
			Finnhub: FinnhubConfig{
				BaseURL:     "https://finnhub.io/api/v1",
				MinInterval: "500ms",
				Timeout:     "30s",
			},
		},
		Scanner: ScannerConfig{
			Source:        "static",
			Universe:      defaultUniverse,
			MaxCandidates: 100,
			Concurrency:   4,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("MARKETCORE_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("MARKETCORE_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("MARKETCORE_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("MARKETCORE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if url := os.Getenv("REDIS_URL"); url != "" {
		config.Cache.RedisURL = url
	}

	for _, name := range []string{"FINNHUB_API_KEY", "MARKETCORE_FINNHUB_API_KEY"} {
		if key := os.Getenv(name); key != "" {
			config.Clients.Finnhub.APIKey = key
			break
		}
	}

	if base := os.Getenv("MARKETCORE_FINNHUB_BASE_URL"); base != "" {
		config.Clients.Finnhub.BaseURL = base
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
