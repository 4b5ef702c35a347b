package cmd

import (
	"context"
	"fmt"
	"time"

	gstorage "cloud.google.com/go/storage"
	"go.uber.org/zap"

	"github.com/Engineering-Geek/Scraper/internal/config"
	"github.com/Engineering-Geek/Scraper/internal/fetch"
	"github.com/Engineering-Geek/Scraper/internal/scrape"
	"github.com/Engineering-Geek/Scraper/internal/sites"
	"github.com/Engineering-Geek/Scraper/internal/storage/gcs"
	"github.com/Engineering-Geek/Scraper/internal/storage/local"
	"github.com/Engineering-Geek/Scraper/internal/storage/memory"
	"github.com/Engineering-Geek/Scraper/internal/telemetry"
)

// pipeline bundles the constructed harvester with the resources that
// need teardown after the run.
type pipeline struct {
	harvester *scrape.Harvester
	cleanup   func()
}

// buildPipeline wires the transport, site, stores, and engine stages
// from configuration.
func buildPipeline(ctx context.Context, cfg config.Config, siteName string, logger *zap.Logger) (*pipeline, error) {
	telemetry.Init()

	site, err := sites.ByName(siteName)
	if err != nil {
		return nil, err
	}

	agents, err := buildAgents(cfg, logger)
	if err != nil {
		return nil, err
	}

	proxies := validProxies(ctx, cfg, logger)
	transport, closeTransport, err := buildTransport(cfg, proxies, logger)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg, logger)
	if err != nil {
		closeTransport()
		return nil, err
	}

	var metricsServer *telemetry.Server
	if cfg.Metrics.Enabled {
		metricsServer = telemetry.NewServer(cfg.Metrics.Port, logger)
		metricsServer.Start()
	}

	useProxy := len(proxies) > 0
	unit := scrape.NewUnit(transport, site, agents, scrape.UnitConfig{
		MinSleep: seconds(cfg.Scraper.MinSleep),
		MaxSleep: seconds(cfg.Scraper.MaxSleep),
		UseProxy: useProxy,
		Site:     site.Name(),
	}, logger)

	scheduler := scrape.NewScheduler(site, unit, scrape.SchedulerConfig{
		NumPages:    cfg.Scraper.NumPages,
		Concurrency: cfg.Scraper.Concurrency,
	}, logger)

	enricher := scrape.NewEnricher(
		transport,
		sites.ReadabilityExtractor{},
		scrape.FrequencySummarizer{},
		agents,
		scrape.EnricherConfig{Delay: cfg.Delay(), UseProxy: useProxy},
		logger,
	)

	assembler := scrape.NewAssembler(store, logger)

	harvester := scrape.NewHarvester(scheduler, enricher, assembler, scrape.HarvesterConfig{
		Method:   cfg.Scraper.Method,
		MaxBatch: cfg.Scraper.MaxBatch,
		RootDir:  cfg.Storage.RootDir,
	}, logger)

	cleanup := func() {
		if metricsServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Warn("metrics server shutdown failed", zap.Error(err))
			}
		}
		closeTransport()
	}
	return &pipeline{harvester: harvester, cleanup: cleanup}, nil
}

func buildAgents(cfg config.Config, logger *zap.Logger) (*fetch.AgentPool, error) {
	if cfg.Scraper.UserAgentsPath == "" {
		return fetch.DefaultAgentPool(), nil
	}
	pool, err := fetch.LoadAgentPool(cfg.Scraper.UserAgentsPath)
	if err != nil {
		return nil, fmt.Errorf("load user agents: %w", err)
	}
	logger.Info("loaded user agent pool",
		zap.String("path", cfg.Scraper.UserAgentsPath),
		zap.Int("agents", pool.Size()),
	)
	return pool, nil
}

// validProxies probes each configured proxy and keeps the ones that can
// reach the outside world.
func validProxies(ctx context.Context, cfg config.Config, logger *zap.Logger) []string {
	if len(cfg.Transport.Proxies) == 0 {
		return nil
	}
	validator := fetch.NewProbeValidator("", 0, logger)
	valid := fetch.FilterValid(ctx, validator, cfg.Transport.Proxies)
	logger.Info("validated proxy pool",
		zap.Int("configured", len(cfg.Transport.Proxies)),
		zap.Int("usable", len(valid)),
	)
	return valid
}

func buildTransport(cfg config.Config, proxies []string, logger *zap.Logger) (scrape.Transport, func(), error) {
	if cfg.Transport.Browser {
		browserCfg := fetch.BrowserConfig{
			MaxParallel:       cfg.Scraper.Concurrency,
			NavigationTimeout: cfg.Timeout(),
		}
		if len(proxies) > 0 {
			browserCfg.ProxyURL = proxies[0]
		}
		browser, err := fetch.NewBrowserTransport(browserCfg, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("start browser transport: %w", err)
		}
		return browser, browser.Close, nil
	}

	limiter := fetch.NewDomainLimiter(fetch.LimiterConfig{
		RPS:   cfg.Transport.DomainRPS,
		Burst: cfg.Transport.DomainBurst,
	})
	transport := fetch.NewCollyTransport(
		fetch.TransportConfig{Timeout: cfg.Timeout()},
		limiter,
		fetch.NewStaticProxySource(proxies),
		logger,
	)
	return transport, func() {}, nil
}

func buildStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (scrape.BlobStore, error) {
	switch cfg.Storage.Provider {
	case "memory":
		return memory.NewBlobStore(), nil
	case "local":
		store, err := local.New(local.Config{BaseDir: cfg.Storage.BaseDir}, logger)
		if err != nil {
			return nil, fmt.Errorf("init local store: %w", err)
		}
		return store, nil
	case "gcs":
		client, err := gstorage.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("init storage client: %w", err)
		}
		store, err := gcs.New(client, gcs.Config{Bucket: cfg.Storage.Bucket}, logger)
		if err != nil {
			return nil, fmt.Errorf("init gcs store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Storage.Provider)
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
