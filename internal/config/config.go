// Package config loads service configuration from an optional YAML file with
// environment variable overrides.
package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr        string `yaml:"addr"`
	DatabaseURL string `yaml:"databaseUrl"`
	RedisURL    string `yaml:"redisUrl"`
	ExportDir   string `yaml:"exportDir"`

	RateLimitRPS   float64 `yaml:"rateLimitRps"`
	RateLimitBurst int     `yaml:"rateLimitBurst"`
}

func Default() Config {
	return Config{
		Addr:           ":8080",
		ExportDir:      "exports",
		RateLimitRPS:   50,
		RateLimitBurst: 100,
	}
}

// Load reads the config file at path (if non-empty and present), then applies
// environment overrides on top of defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, err
			}
		} else if !os.IsNotExist(err) {
			return cfg, err
		}
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Addr = ":" + v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("EXPORT_DIR"); v != "" {
		cfg.ExportDir = v
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.RateLimitRPS = f
		}
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RateLimitBurst = n
		}
	}
	return cfg, nil
}
