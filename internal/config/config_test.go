package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Address != ":8080" {
		t.Fatalf("address = %s", cfg.Server.Address)
	}
	if cfg.Source != SourceFeed {
		t.Fatalf("source = %s", cfg.Source)
	}
	if cfg.Feed.RefreshInterval != time.Minute {
		t.Fatalf("refresh interval = %s", cfg.Feed.RefreshInterval)
	}
	if cfg.Cache.ViewTTL != 2*time.Minute {
		t.Fatalf("view ttl = %s", cfg.Cache.ViewTTL)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
server:
  address: ":9000"
source: postgres
postgres:
  dsn: "postgres://localhost/occurrences?sslmode=disable"
logging:
  level: debug
  json: true
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Address != ":9000" {
		t.Fatalf("address = %s", cfg.Server.Address)
	}
	if cfg.Source != SourcePostgres {
		t.Fatalf("source = %s", cfg.Source)
	}
	if !cfg.Logging.JSON || cfg.Logging.Level != "debug" {
		t.Fatalf("logging = %+v", cfg.Logging)
	}
	// Values absent from the file keep their defaults.
	if cfg.Server.MetricsAddress != ":2112" {
		t.Fatalf("metrics address = %s", cfg.Server.MetricsAddress)
	}
}

func TestLoadRejectsUnknownSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("source: kafka\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown source")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("OCCURRENCE_FEED_BASE_URL", "http://feed.internal:9090")
	t.Setenv("OCCURRENCE_ENGINE_LOG_FORMAT", "json")
	t.Setenv("OCCURRENCE_ENGINE_CACHE_ENABLED", "true")
	t.Setenv("OCCURRENCE_ENGINE_CACHE_ADDR", "valkey:6379")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Feed.BaseURL != "http://feed.internal:9090" {
		t.Fatalf("base url = %s", cfg.Feed.BaseURL)
	}
	if !cfg.Logging.JSON {
		t.Fatal("log format override lost")
	}
	if !cfg.Cache.Enabled || cfg.Cache.Addr != "valkey:6379" {
		t.Fatalf("cache = %+v", cfg.Cache)
	}
}
