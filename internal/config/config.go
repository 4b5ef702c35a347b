// Package config loads and validates scraper configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Engineering-Geek/Scraper/internal/scrape"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Scraper   ScraperConfig   `mapstructure:"scraper"`
	Transport TransportConfig `mapstructure:"transport"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ScraperConfig governs search pagination, batching, and politeness.
type ScraperConfig struct {
	NumPages       int     `mapstructure:"num_pages"`
	MaxBatch       int     `mapstructure:"max_batch"`
	DelaySeconds   float64 `mapstructure:"delay_seconds"`
	MinSleep       float64 `mapstructure:"min_sleep"`
	MaxSleep       float64 `mapstructure:"max_sleep"`
	Method         string  `mapstructure:"method"`
	Concurrency    int     `mapstructure:"concurrency"`
	UserAgentsPath string  `mapstructure:"user_agents_path"`
}

// TransportConfig configures the HTTP and browser transports.
type TransportConfig struct {
	TimeoutSeconds int      `mapstructure:"timeout_seconds"`
	Proxies        []string `mapstructure:"proxies"`
	Browser        bool     `mapstructure:"browser"`
	DomainRPS      float64  `mapstructure:"domain_rps"`
	DomainBurst    int      `mapstructure:"domain_burst"`
}

// StorageConfig selects and parameterizes the blob store backend.
type StorageConfig struct {
	Provider string `mapstructure:"provider"`
	Bucket   string `mapstructure:"bucket"`
	BaseDir  string `mapstructure:"base_dir"`
	RootDir  string `mapstructure:"root_dir"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// LoggingConfig toggles zap development features and the optional log file.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	FilePath    string `mapstructure:"file_path"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SCRAPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("scraper.num_pages", 1)
	v.SetDefault("scraper.max_batch", 0)
	v.SetDefault("scraper.delay_seconds", 2)
	v.SetDefault("scraper.min_sleep", 5)
	v.SetDefault("scraper.max_sleep", 10)
	v.SetDefault("scraper.method", scrape.MethodDaily)
	v.SetDefault("scraper.concurrency", 5)
	v.SetDefault("transport.timeout_seconds", 30)
	v.SetDefault("transport.browser", false)
	v.SetDefault("transport.domain_rps", 1)
	v.SetDefault("transport.domain_burst", 1)
	v.SetDefault("storage.provider", "local")
	v.SetDefault("storage.base_dir", "data")
	v.SetDefault("storage.root_dir", "harvest")
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Scraper.NumPages <= 0 {
		return fmt.Errorf("scraper.num_pages must be > 0")
	}
	if c.Scraper.Concurrency <= 0 {
		return fmt.Errorf("scraper.concurrency must be > 0")
	}
	if c.Scraper.MinSleep < 0 || c.Scraper.MaxSleep < c.Scraper.MinSleep {
		return fmt.Errorf("scraper sleep bounds must satisfy 0 <= min_sleep <= max_sleep")
	}
	if c.Scraper.Method != scrape.MethodDaily && c.Scraper.Method != scrape.MethodWeekly {
		return fmt.Errorf("scraper.method must be %q or %q", scrape.MethodDaily, scrape.MethodWeekly)
	}
	if c.Transport.TimeoutSeconds <= 0 {
		return fmt.Errorf("transport.timeout_seconds must be > 0")
	}
	if c.Transport.DomainRPS <= 0 {
		return fmt.Errorf("transport.domain_rps must be > 0")
	}
	switch c.Storage.Provider {
	case "local":
		if c.Storage.BaseDir == "" {
			return fmt.Errorf("storage.base_dir must be set for the local provider")
		}
	case "gcs":
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage.bucket must be set for the gcs provider")
		}
	case "memory":
	default:
		return fmt.Errorf("storage.provider must be one of local, gcs, memory")
	}
	if c.Metrics.Enabled && c.Metrics.Port <= 0 {
		return fmt.Errorf("metrics.port must be > 0 when metrics are enabled")
	}
	return nil
}

// Delay converts the inter-batch delay into a duration.
func (c Config) Delay() time.Duration {
	return time.Duration(c.Scraper.DelaySeconds * float64(time.Second))
}

// Timeout converts the transport timeout into a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.Transport.TimeoutSeconds) * time.Second
}
