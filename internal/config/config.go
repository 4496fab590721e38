package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// SourceFeed and SourcePostgres name the supported occurrence sources.
const (
	SourceFeed     = "feed"
	SourcePostgres = "postgres"
)

// Config captures the settings required to boot the occurrence engine.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Source    string          `yaml:"source"`
	Feed      FeedConfig      `yaml:"feed"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Baselines BaselinesConfig `yaml:"baselines"`
	Logging   LoggingConfig   `yaml:"logging"`
	Cache     CacheConfig     `yaml:"cache"`
}

// ServerConfig controls HTTP listener behaviour.
type ServerConfig struct {
	Address         string        `yaml:"address"`
	MetricsAddress  string        `yaml:"metricsAddress"`
	GracefulTimeout time.Duration `yaml:"gracefulTimeout"`
}

// FeedConfig configures the upstream occurrence feed client.
type FeedConfig struct {
	BaseURL         string        `yaml:"baseURL"`
	Path            string        `yaml:"path"`
	Timeout         time.Duration `yaml:"timeout"`
	RefreshInterval time.Duration `yaml:"refreshInterval"`
}

// PostgresConfig configures the Postgres occurrence mirror.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// BaselinesConfig points at the equipment baseline table.
type BaselinesConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// CacheConfig controls Valkey-backed caching of feed responses and memoized views.
type CacheConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Addr         string        `yaml:"addr"`
	Username     string        `yaml:"username"`
	Password     string        `yaml:"password"`
	DB           int           `yaml:"db"`
	DialTimeout  time.Duration `yaml:"dialTimeout"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	MaxRetries   int           `yaml:"maxRetries"`
	TLS          bool          `yaml:"tls"`
	FeedTTL      time.Duration `yaml:"feedTTL"`
	ViewTTL      time.Duration `yaml:"viewTTL"`
}

// Load initialises Config from a YAML file and optional environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("OCCURRENCE_ENGINE_CONFIG")
	}

	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(&cfg)

	if cfg.Source != SourceFeed && cfg.Source != SourcePostgres {
		return nil, fmt.Errorf("unknown source %q", cfg.Source)
	}
	return &cfg, nil
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Address:         ":8080",
			MetricsAddress:  ":2112",
			GracefulTimeout: 10 * time.Second,
		},
		Source: SourceFeed,
		Feed: FeedConfig{
			Path:            "/api/v1/occurrences",
			Timeout:         5 * time.Second,
			RefreshInterval: time.Minute,
		},
		Baselines: BaselinesConfig{Path: "configs/baselines.yaml"},
		Logging:   LoggingConfig{Level: "info", JSON: false},
		Cache: CacheConfig{
			Enabled:      false,
			FeedTTL:      30 * time.Second,
			ViewTTL:      2 * time.Minute,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
			MaxRetries:   2,
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OCCURRENCE_ENGINE_SERVER_ADDRESS"); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv("OCCURRENCE_ENGINE_METRICS_ADDRESS"); v != "" {
		cfg.Server.MetricsAddress = v
	}
	if v := os.Getenv("OCCURRENCE_ENGINE_SOURCE"); v != "" {
		cfg.Source = v
	}
	if v := os.Getenv("OCCURRENCE_FEED_BASE_URL"); v != "" {
		cfg.Feed.BaseURL = v
	}
	if v := os.Getenv("OCCURRENCE_FEED_PATH"); v != "" {
		cfg.Feed.Path = v
	}
	if v := os.Getenv("OCCURRENCE_FEED_REFRESH_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Feed.RefreshInterval = d
		}
	}
	if v := os.Getenv("OCCURRENCE_ENGINE_POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("OCCURRENCE_ENGINE_BASELINES_PATH"); v != "" {
		cfg.Baselines.Path = v
	}
	if v := os.Getenv("OCCURRENCE_ENGINE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("OCCURRENCE_ENGINE_LOG_FORMAT"); v == "json" {
		cfg.Logging.JSON = true
	}
	if v := os.Getenv("OCCURRENCE_ENGINE_CACHE_ADDR"); v != "" {
		cfg.Cache.Addr = v
	}
	if v := os.Getenv("OCCURRENCE_ENGINE_CACHE_ENABLED"); v != "" {
		cfg.Cache.Enabled = strings.EqualFold(v, "true") || strings.EqualFold(v, "1")
	}
	if v := os.Getenv("OCCURRENCE_ENGINE_CACHE_USERNAME"); v != "" {
		cfg.Cache.Username = v
	}
	if v := os.Getenv("OCCURRENCE_ENGINE_CACHE_PASSWORD"); v != "" {
		cfg.Cache.Password = v
	}
	if v := os.Getenv("OCCURRENCE_ENGINE_CACHE_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Cache.DB = db
		}
	}
	if v := os.Getenv("OCCURRENCE_ENGINE_CACHE_TLS"); strings.EqualFold(v, "true") || strings.EqualFold(v, "1") {
		cfg.Cache.TLS = true
	}
	if v := os.Getenv("OCCURRENCE_ENGINE_CACHE_FEED_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Cache.FeedTTL = d
		}
	}
	if v := os.Getenv("OCCURRENCE_ENGINE_CACHE_VIEW_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Cache.ViewTTL = d
		}
	}
}
