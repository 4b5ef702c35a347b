package scrape

import (
	"context"
	"math/rand/v2"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Engineering-Geek/Scraper/internal/telemetry"
)

// UnitConfig controls the politeness behavior of a fetch-and-parse unit.
type UnitConfig struct {
	// MinSleep and MaxSleep bound the randomized delay inserted before
	// every fetch. Link harvesting runs with 5-10s; lighter variants use
	// 1-3s.
	MinSleep time.Duration
	MaxSleep time.Duration
	// UseProxy routes fetches through the transport's proxy path.
	UseProxy bool
	// Site labels metric series emitted by this unit.
	Site string
}

// Unit is the atomic unit of crawl work: sleep a politeness jitter, fetch
// with a random user-agent, parse. It never fails past its boundary - all
// failures degrade to an empty result plus a log record, so one
// unreachable page cannot abort the larger scrape.
type Unit struct {
	transport Transport
	parser    ContentParser
	agents    AgentSource
	cfg       UnitConfig
	logger    *zap.Logger
}

// NewUnit wires a transport and parser into a rate-limited unit.
func NewUnit(transport Transport, parser ContentParser, agents AgentSource, cfg UnitConfig, logger *zap.Logger) *Unit {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxSleep < cfg.MinSleep {
		cfg.MaxSleep = cfg.MinSleep
	}
	return &Unit{
		transport: transport,
		parser:    parser,
		agents:    agents,
		cfg:       cfg,
		logger:    logger,
	}
}

// FetchAndParse fetches one URL and returns the links extracted from it.
// The returned slice is empty on any transport, status, or content-shape
// failure.
func (u *Unit) FetchAndParse(ctx context.Context, url string) []string {
	pause(ctx, u.jitter())
	if ctx.Err() != nil {
		return nil
	}

	headers := http.Header{}
	if u.agents != nil {
		if ua := u.agents.Random(); ua != "" {
			headers.Set("User-Agent", ua)
		}
	}

	var outcome FetchOutcome
	if u.cfg.UseProxy {
		outcome = u.transport.FetchViaProxy(ctx, url, headers)
	} else {
		outcome = u.transport.FetchDirect(ctx, url, headers)
	}
	if !outcome.OK() {
		telemetry.IncPage(u.cfg.Site, "error")
		u.logger.Warn("fetch failed",
			zap.String("url", url),
			zap.Error(outcome.Err()),
		)
		return nil
	}
	telemetry.IncPage(u.cfg.Site, "ok")

	links := u.parser.Parse(outcome.Body)
	if len(links) == 0 {
		// Content-shape mismatch, not a transport failure.
		u.logger.Debug("no links extracted", zap.String("url", url))
	}
	telemetry.AddLinks(u.cfg.Site, len(links))
	return links
}

func (u *Unit) jitter() time.Duration {
	if u.cfg.MaxSleep <= 0 {
		return 0
	}
	span := u.cfg.MaxSleep - u.cfg.MinSleep
	if span <= 0 {
		return u.cfg.MinSleep
	}
	return u.cfg.MinSleep + rand.N(span)
}

// pause sleeps for delay or until the context finishes, whichever comes
// first.
func pause(ctx context.Context, delay time.Duration) {
	if delay <= 0 {
		return
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
