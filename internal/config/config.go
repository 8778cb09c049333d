// Package config loads settings from defaults, a TOML file and the
// environment, in that order.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

const (
	DefaultHTTPAddr        = ":8080"
	DefaultDSN             = "root:123456@tcp(127.0.0.1:3306)/todoapp?parseTime=true"
	DefaultServerURL       = "http://127.0.0.1:8080"
	DefaultLogLevel        = "info"
	DefaultCacheTTLSeconds = 5
)

type Config struct {
	HTTPAddr        string `toml:"http_addr"`
	DSN             string `toml:"dsn"`
	ServerURL       string `toml:"server_url"`
	LogLevel        string `toml:"log_level"`
	CacheTTLSeconds int    `toml:"cache_ttl_seconds"`
}

// Load builds the config in priority order: defaults, then the config
// file (todoapp.toml in the working directory, or the path named by
// TODOAPP_CONFIG), then TODOAPP_* environment variables. CLI flags are
// applied afterwards by the caller.
func Load() (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	path := configFile()
	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	loadFromEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.HTTPAddr = DefaultHTTPAddr
	cfg.DSN = DefaultDSN
	cfg.ServerURL = DefaultServerURL
	cfg.LogLevel = DefaultLogLevel
	cfg.CacheTTLSeconds = DefaultCacheTTLSeconds
}

func configFile() string {
	if p := os.Getenv("TODOAPP_CONFIG"); p != "" {
		return p
	}
	if _, err := os.Stat("todoapp.toml"); err == nil {
		return "todoapp.toml"
	}
	return ""
}

func loadFile(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	return err
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TODOAPP_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("TODOAPP_DSN"); v != "" {
		cfg.DSN = v
	}
	if v := os.Getenv("TODOAPP_SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("TODOAPP_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TODOAPP_CACHE_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.CacheTTLSeconds = n
		}
	}
}

func (c *Config) validate() error {
	if c.CacheTTLSeconds < 0 {
		return fmt.Errorf("cache_ttl_seconds must not be negative, got %d", c.CacheTTLSeconds)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}
