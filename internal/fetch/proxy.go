package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// ProxySource returns a refreshed proxy pool on demand. Proxy discovery is
// inherently unreliable and environment-dependent, so it stays behind this
// interface and out of the engine.
type ProxySource interface {
	Proxies(ctx context.Context) ([]string, error)
}

// StaticProxySource serves a fixed proxy list.
type StaticProxySource struct {
	pool []string
}

// NewStaticProxySource builds a source over a fixed list of proxy URLs.
func NewStaticProxySource(proxies []string) *StaticProxySource {
	return &StaticProxySource{pool: append([]string(nil), proxies...)}
}

// Proxies returns the configured list.
func (s *StaticProxySource) Proxies(_ context.Context) ([]string, error) {
	if len(s.pool) == 0 {
		return nil, fmt.Errorf("proxy pool is empty")
	}
	return append([]string(nil), s.pool...), nil
}

// ProxyValidator is a swappable validation policy for proxy pools.
type ProxyValidator interface {
	Validate(ctx context.Context, proxyURL string) bool
}

// ProbeValidator validates a proxy by fetching a fixed test URL through
// it.
type ProbeValidator struct {
	TestURL string
	Timeout time.Duration
	logger  *zap.Logger
}

// NewProbeValidator builds a validator probing testURL.
func NewProbeValidator(testURL string, timeout time.Duration, logger *zap.Logger) *ProbeValidator {
	if testURL == "" {
		testURL = "https://www.google.com"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProbeValidator{TestURL: testURL, Timeout: timeout, logger: logger}
}

// Validate reports whether the proxy can complete one probe request.
func (v *ProbeValidator) Validate(ctx context.Context, proxyURL string) bool {
	parsed, err := url.Parse(proxyURL)
	if err != nil {
		return false
	}
	client := &http.Client{
		Timeout:   v.Timeout,
		Transport: &http.Transport{Proxy: http.ProxyURL(parsed)},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.TestURL, nil)
	if err != nil {
		return false
	}
	resp, err := client.Do(req)
	if err != nil {
		v.logger.Debug("proxy probe failed", zap.String("proxy", proxyURL), zap.Error(err))
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode < http.StatusBadRequest
}

// FilterValid returns the subset of proxies passing validation, in input
// order.
func FilterValid(ctx context.Context, v ProxyValidator, proxies []string) []string {
	valid := make([]string, 0, len(proxies))
	for _, p := range proxies {
		if ctx.Err() != nil {
			break
		}
		if v.Validate(ctx, p) {
			valid = append(valid, p)
		}
	}
	return valid
}
