package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jaminalder/tictactoe-ai/internal/domain"
	"gopkg.in/yaml.v2"
)

// Config holds the server settings.
type Config struct {
	Addr        string        `yaml:"addr"`
	StatsPath   string        `yaml:"stats_path"`
	DefaultTier string        `yaml:"default_tier"`
	LogLevel    string        `yaml:"log_level"`
	Heartbeat   time.Duration `yaml:"heartbeat"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Addr:        ":8080",
		StatsPath:   "tttdata.json",
		DefaultTier: domain.Easy.String(),
		LogLevel:    "info",
		Heartbeat:   15 * time.Second,
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.UnmarshalStrict(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if port, ok := os.LookupEnv("PORT"); ok && port != "" {
		cfg.Addr = ":" + port
	}
	cfg.StatsPath = getEnvOrDefault("TTT_STATS_PATH", cfg.StatsPath)
	cfg.LogLevel = getEnvOrDefault("TTT_LOG_LEVEL", cfg.LogLevel)
	return cfg, cfg.Validate()
}

// Tier returns the parsed default tier.
func (c Config) Tier() domain.Tier {
	t, err := domain.ParseTier(c.DefaultTier)
	if err != nil {
		return domain.Easy
	}
	return t
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("config: addr is required")
	}
	if _, err := domain.ParseTier(c.DefaultTier); err != nil {
		return fmt.Errorf("config: default_tier %q: %w", c.DefaultTier, err)
	}
	if c.Heartbeat <= 0 {
		return fmt.Errorf("config: heartbeat must be positive, got %s", c.Heartbeat)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log_level %q", c.LogLevel)
	}
	return nil
}

// getEnvOrDefault returns the environment variable key, or def when unset.
func getEnvOrDefault(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}
