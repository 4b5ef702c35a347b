package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	collyproxy "github.com/gocolly/colly/v2/proxy"
	"go.uber.org/zap"

	"github.com/Engineering-Geek/Scraper/internal/scrape"
	"github.com/Engineering-Geek/Scraper/internal/telemetry"
)

// TransportConfig controls the HTTP transport.
type TransportConfig struct {
	// Timeout bounds each fetch so one stalled destination cannot pin the
	// caller's concurrency budget. Defaults to 30s.
	Timeout time.Duration
	// MaxConnsPerHost caps pooled connections per destination.
	MaxConnsPerHost int
}

// CollyTransport implements scrape.Transport over a Colly collector, with
// per-domain rate limiting and an optional rotating proxy pool.
type CollyTransport struct {
	cfg     TransportConfig
	base    *colly.Collector
	limiter *DomainLimiter
	source  ProxySource
	logger  *zap.Logger

	mu      sync.Mutex
	proxied *colly.Collector
}

// NewCollyTransport builds the transport. The proxy source may be nil, in
// which case proxied fetches fail as transport errors.
func NewCollyTransport(cfg TransportConfig, limiter *DomainLimiter, source ProxySource, logger *zap.Logger) *CollyTransport {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxConnsPerHost <= 0 {
		cfg.MaxConnsPerHost = 8
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	base := colly.NewCollector()
	base.AllowURLRevisit = true
	base.IgnoreRobotsTxt = true
	base.WithTransport(&http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          64,
		MaxIdleConnsPerHost:   16,
		MaxConnsPerHost:       cfg.MaxConnsPerHost,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: cfg.Timeout,
		ForceAttemptHTTP2:     true,
	})
	base.SetRequestTimeout(cfg.Timeout)

	return &CollyTransport{
		cfg:     cfg,
		base:    base,
		limiter: limiter,
		source:  source,
		logger:  logger,
	}
}

// FetchDirect retrieves the URL without a proxy.
func (t *CollyTransport) FetchDirect(ctx context.Context, url string, headers http.Header) scrape.FetchOutcome {
	return t.fetch(ctx, t.base, url, headers)
}

// FetchViaProxy retrieves the URL through the rotating proxy pool.
func (t *CollyTransport) FetchViaProxy(ctx context.Context, url string, headers http.Header) scrape.FetchOutcome {
	collector, err := t.proxiedCollector(ctx)
	if err != nil {
		return scrape.TransportFailure(err)
	}
	return t.fetch(ctx, collector, url, headers)
}

// proxiedCollector lazily clones the base collector with a round-robin
// proxy switcher over the source's current pool.
func (t *CollyTransport) proxiedCollector(ctx context.Context) (*colly.Collector, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.proxied != nil {
		return t.proxied, nil
	}
	if t.source == nil {
		return nil, errors.New("no proxy source configured")
	}
	proxies, err := t.source.Proxies(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh proxy pool: %w", err)
	}
	switcher, err := collyproxy.RoundRobinProxySwitcher(proxies...)
	if err != nil {
		return nil, fmt.Errorf("build proxy switcher: %w", err)
	}
	collector := t.base.Clone()
	collector.SetProxyFunc(switcher)
	t.proxied = collector
	t.logger.Info("proxy pool ready", zap.Int("proxies", len(proxies)))
	return collector, nil
}

func (t *CollyTransport) fetch(ctx context.Context, base *colly.Collector, url string, headers http.Header) scrape.FetchOutcome {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx, url); err != nil {
			return scrape.TransportFailure(err)
		}
	}

	collector := base.Clone()
	var (
		outcome scrape.FetchOutcome
		once    sync.Once
	)
	send := func(o scrape.FetchOutcome) {
		once.Do(func() { outcome = o })
	}

	collector.OnRequest(func(r *colly.Request) {
		for key, values := range headers {
			for _, v := range values {
				r.Headers.Set(key, v)
			}
		}
	})
	collector.OnResponse(func(r *colly.Response) {
		ok := scrape.Ok(append([]byte(nil), r.Body...))
		ok.StatusCode = r.StatusCode
		send(ok)
	})
	collector.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode > 0 {
			send(scrape.StatusFailure(r.StatusCode))
			return
		}
		if err == nil {
			err = errors.New("unknown fetch error")
		}
		send(scrape.TransportFailure(err))
	})

	start := time.Now()
	if err := collector.Visit(url); err != nil {
		send(scrape.TransportFailure(fmt.Errorf("visit: %w", err)))
	}
	collector.Wait()

	if err := ctx.Err(); err != nil {
		return scrape.TransportFailure(err)
	}
	telemetry.ObserveFetch(outcome.StatusCode, time.Since(start))
	return outcome
}
