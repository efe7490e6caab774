package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/goccy/go-yaml"
)

// Config holds everything the server needs at startup. Values come from an
// optional YAML file (CONFIG_PATH) overridden by environment variables, so
// deployments can ship a defaults file and tweak per-environment with env vars.
type Config struct {
	Port        string `yaml:"port"`
	DatabaseURL string `yaml:"database_url"`

	JWT struct {
		Secret        string `yaml:"secret"`
		AccessMinutes int    `yaml:"access_minutes"`
		RefreshDays   int    `yaml:"refresh_days"`
	} `yaml:"jwt"`

	// CookieSecure is off for local dev over plain HTTP.
	CookieSecure bool `yaml:"cookie_secure"`
}

func (c *Config) AccessTTL() time.Duration {
	return time.Duration(c.JWT.AccessMinutes) * time.Minute
}

func (c *Config) RefreshTTL() time.Duration {
	return time.Duration(c.JWT.RefreshDays) * 24 * time.Hour
}

// Load reads the YAML file named by CONFIG_PATH (if any), applies environment
// overrides, and validates required fields.
func Load() (*Config, error) {
	cfg := &Config{
		Port:         "5050",
		CookieSecure: true,
	}
	cfg.JWT.AccessMinutes = 30
	cfg.JWT.RefreshDays = 30

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("JWT_ACCESS_EXPIRATION_MINUTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("JWT_ACCESS_EXPIRATION_MINUTES: %w", err)
		}
		cfg.JWT.AccessMinutes = n
	}
	if v := os.Getenv("JWT_REFRESH_EXPIRATION_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("JWT_REFRESH_EXPIRATION_DAYS: %w", err)
		}
		cfg.JWT.RefreshDays = n
	}
	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("COOKIE_SECURE: %w", err)
		}
		cfg.CookieSecure = b
	}

	if cfg.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is empty")
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is empty")
	}
	return cfg, nil
}
