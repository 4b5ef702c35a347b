package fetch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/Engineering-Geek/Scraper/internal/scrape"
)

// BrowserConfig controls the headless browser transport.
type BrowserConfig struct {
	// MaxParallel bounds concurrent browser tabs; 0 means unbounded.
	MaxParallel int
	// NavigationTimeout bounds a single page load. Defaults to 45s.
	NavigationTimeout time.Duration
	// ProxyURL, when set, routes all browser traffic through one proxy.
	ProxyURL string
}

// BrowserTransport implements scrape.Transport with headless Chrome via
// chromedp, for result pages that only materialize after JavaScript runs.
type BrowserTransport struct {
	cfg         BrowserConfig
	limiter     chan struct{}
	allocator   context.Context
	allocCancel context.CancelFunc
	logger      *zap.Logger
}

// NewBrowserTransport creates the transport and its browser allocator.
func NewBrowserTransport(cfg BrowserConfig, logger *zap.Logger) (*BrowserTransport, error) {
	if cfg.MaxParallel < 0 {
		return nil, fmt.Errorf("max parallel must be >= 0")
	}
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = 45 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var limiter chan struct{}
	if cfg.MaxParallel > 0 {
		limiter = make(chan struct{}, cfg.MaxParallel)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("enable-automation", false),
	)
	if cfg.ProxyURL != "" {
		opts = append(opts, chromedp.ProxyServer(cfg.ProxyURL))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &BrowserTransport{
		cfg:         cfg,
		limiter:     limiter,
		allocator:   allocCtx,
		allocCancel: allocCancel,
		logger:      logger,
	}, nil
}

// Close cancels the allocator context, tearing down the browser.
func (t *BrowserTransport) Close() {
	t.allocCancel()
}

// FetchDirect renders the URL in a headless tab and returns the DOM.
func (t *BrowserTransport) FetchDirect(ctx context.Context, url string, headers http.Header) scrape.FetchOutcome {
	return t.render(ctx, url, headers)
}

// FetchViaProxy renders through the configured proxy. The proxy is fixed
// per transport instance; without one this is a transport failure.
func (t *BrowserTransport) FetchViaProxy(ctx context.Context, url string, headers http.Header) scrape.FetchOutcome {
	if t.cfg.ProxyURL == "" {
		return scrape.TransportFailure(fmt.Errorf("browser transport has no proxy configured"))
	}
	return t.render(ctx, url, headers)
}

func (t *BrowserTransport) render(ctx context.Context, url string, headers http.Header) scrape.FetchOutcome {
	if err := t.acquire(ctx); err != nil {
		return scrape.TransportFailure(err)
	}
	defer t.release()

	taskCtx, taskCancel := chromedp.NewContext(t.allocator)
	defer taskCancel()
	taskCtx, cancel := context.WithTimeout(taskCtx, t.cfg.NavigationTimeout)
	defer cancel()

	extra := network.Headers{}
	for key := range headers {
		extra[key] = headers.Get(key)
	}

	var html string
	actions := []chromedp.Action{
		network.Enable(),
	}
	if len(extra) > 0 {
		actions = append(actions, network.SetExtraHTTPHeaders(extra))
	}
	actions = append(actions,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(500*time.Millisecond),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)

	if err := chromedp.Run(taskCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return scrape.TransportFailure(ctx.Err())
		}
		return scrape.TransportFailure(fmt.Errorf("render page: %w", err))
	}

	ok := scrape.Ok([]byte(html))
	ok.StatusCode = http.StatusOK
	return ok
}

func (t *BrowserTransport) acquire(ctx context.Context) error {
	if t.limiter == nil {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case t.limiter <- struct{}{}:
		return nil
	}
}

func (t *BrowserTransport) release() {
	if t.limiter != nil {
		<-t.limiter
	}
}
