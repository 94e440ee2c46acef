// Package config loads service configuration: an optional .env file, an
// optional YAML file, then environment-variable overrides, in that order.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full service configuration.
type Config struct {
	Port           string        `yaml:"port"`
	DatabaseURL    string        `yaml:"database_url"`
	RedisAddr      string        `yaml:"redis_addr"`
	PreviewBackend string        `yaml:"preview_backend"` // memory | postgres | redis
	GenTimeout     time.Duration `yaml:"-"`
	GenTimeoutSecs int           `yaml:"generation_timeout_seconds"`
	CacheTTLSecs   int           `yaml:"access_cache_ttl_seconds"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Port:           "8080",
		PreviewBackend: "memory",
		GenTimeoutSecs: 20,
		CacheTTLSecs:   60,
	}
}

// Load reads configuration. A missing .env or YAML file is not an error;
// environment variables always win over file values.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("PREVIEW_BACKEND"); v != "" {
		cfg.PreviewBackend = v
	}
	if v := os.Getenv("GENERATION_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.GenTimeoutSecs = n
		}
	}
	if v := os.Getenv("ACCESS_CACHE_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.CacheTTLSecs = n
		}
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}

	cfg.GenTimeout = time.Duration(cfg.GenTimeoutSecs) * time.Second
	return cfg, nil
}

func (c Config) validate() error {
	switch c.PreviewBackend {
	case "memory":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("preview_backend postgres requires DATABASE_URL")
		}
	case "redis":
		if c.RedisAddr == "" {
			return fmt.Errorf("preview_backend redis requires REDIS_ADDR")
		}
	default:
		return fmt.Errorf("unknown preview_backend %q (use memory, postgres, or redis)", c.PreviewBackend)
	}
	return nil
}
