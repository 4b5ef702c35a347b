package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Scraper.NumPages != 1 {
		t.Fatalf("expected default num_pages 1, got %d", cfg.Scraper.NumPages)
	}
	if cfg.Scraper.Method != "daily" {
		t.Fatalf("expected default method daily, got %q", cfg.Scraper.Method)
	}
	if cfg.Scraper.Concurrency != 5 {
		t.Fatalf("expected default concurrency 5, got %d", cfg.Scraper.Concurrency)
	}
	if cfg.Storage.Provider != "local" {
		t.Fatalf("expected default provider local, got %q", cfg.Storage.Provider)
	}
	if got := cfg.Timeout(); got != 30*time.Second {
		t.Fatalf("expected default transport timeout 30s, got %v", got)
	}
}

func TestLoadWithFileOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	configYAML := `
scraper:
  num_pages: 3
  max_batch: 10
  delay_seconds: 1.5
  min_sleep: 1
  max_sleep: 3
  method: weekly
  concurrency: 8
transport:
  timeout_seconds: 45
  domain_rps: 2
  domain_burst: 4
  browser: true
storage:
  provider: gcs
  bucket: news-harvest
  root_dir: runs
metrics:
  enabled: true
  port: 9191
logging:
  development: false
`
	if err := os.WriteFile(path, []byte(configYAML), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Scraper.NumPages != 3 || cfg.Scraper.MaxBatch != 10 {
		t.Fatalf("expected scraper overrides to apply: %+v", cfg.Scraper)
	}
	if cfg.Scraper.Method != "weekly" {
		t.Fatalf("expected method weekly, got %q", cfg.Scraper.Method)
	}
	if !cfg.Transport.Browser || cfg.Transport.DomainBurst != 4 {
		t.Fatalf("expected transport overrides to apply: %+v", cfg.Transport)
	}
	if cfg.Storage.Provider != "gcs" || cfg.Storage.Bucket != "news-harvest" {
		t.Fatalf("expected storage overrides to apply: %+v", cfg.Storage)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Port != 9191 {
		t.Fatalf("expected metrics overrides to apply: %+v", cfg.Metrics)
	}
	if got := cfg.Delay(); got != 1500*time.Millisecond {
		t.Fatalf("expected delay 1.5s, got %v", got)
	}
	if got := cfg.Timeout(); got != 45*time.Second {
		t.Fatalf("expected timeout 45s, got %v", got)
	}
}

func TestLoadBadMethodFailsFast(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("scraper:\n  method: hourly\n"), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "scraper.method") {
		t.Fatalf("expected method validation error, got %v", err)
	}
}

func TestConfigValidateErrors(t *testing.T) {
	t.Parallel()

	base := Config{
		Scraper: ScraperConfig{
			NumPages:    1,
			MinSleep:    1,
			MaxSleep:    3,
			Method:      "daily",
			Concurrency: 5,
		},
		Transport: TransportConfig{TimeoutSeconds: 30, DomainRPS: 1},
		Storage:   StorageConfig{Provider: "memory"},
	}

	tests := []struct {
		name string
		mut  func(*Config)
		want string
	}{
		{"invalid num pages", func(c *Config) { c.Scraper.NumPages = 0 }, "scraper.num_pages"},
		{"invalid concurrency", func(c *Config) { c.Scraper.Concurrency = 0 }, "scraper.concurrency"},
		{"inverted sleep bounds", func(c *Config) { c.Scraper.MinSleep = 5; c.Scraper.MaxSleep = 1 }, "min_sleep"},
		{"bad method", func(c *Config) { c.Scraper.Method = "hourly" }, "scraper.method"},
		{"invalid timeout", func(c *Config) { c.Transport.TimeoutSeconds = 0 }, "transport.timeout_seconds"},
		{"invalid rps", func(c *Config) { c.Transport.DomainRPS = 0 }, "transport.domain_rps"},
		{"local without base dir", func(c *Config) { c.Storage.Provider = "local" }, "storage.base_dir"},
		{"gcs without bucket", func(c *Config) { c.Storage.Provider = "gcs" }, "storage.bucket"},
		{"unknown provider", func(c *Config) { c.Storage.Provider = "s3" }, "storage.provider"},
		{"metrics without port", func(c *Config) { c.Metrics.Enabled = true; c.Metrics.Port = 0 }, "metrics.port"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := base
			tt.mut(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
