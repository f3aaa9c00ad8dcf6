// Package config loads the settings shared by the catalog and registry services.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

type Config struct {
	// Catalog service.
	Port       string `mapstructure:"PORT"`
	CatalogDir string `mapstructure:"CATALOG_DIR"`

	// Registry service storage.
	RegistryStore  string `mapstructure:"REGISTRY_STORE"`
	DatabaseURL    string `mapstructure:"DATABASE_URL"`
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisKeyPrefix string `mapstructure:"REDIS_KEY_PREFIX"`

	// Per-client rate limiting, off when RateLimitRPS is 0.
	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST"`
}

var defaults = map[string]any{
	"PORT":             "3000",
	"CATALOG_DIR":      "web/catalog",
	"REGISTRY_STORE":   StoreMemory,
	"DATABASE_URL":     "",
	"REDIS_ADDR":       "localhost:6379",
	"REDIS_KEY_PREFIX": "registry",
	"RATE_LIMIT_RPS":   0.0,
	"RATE_LIMIT_BURST": 3,
}

// Load reads the configuration from the environment, falling back to defaults.
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	switch config.RegistryStore {
	case StoreMemory, StorePostgres, StoreRedis:
	default:
		return nil, fmt.Errorf("unknown REGISTRY_STORE %q (want memory, postgres or redis)", config.RegistryStore)
	}
	if config.RateLimitRPS < 0 {
		return nil, fmt.Errorf("RATE_LIMIT_RPS must not be negative, got %v", config.RateLimitRPS)
	}

	return &config, nil
}
