package scrape

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/Engineering-Geek/Scraper/internal/telemetry"
)

// SchedulerConfig sizes one scrape run.
type SchedulerConfig struct {
	// NumPages is the number of result pages fetched per window. Fixed for
	// the lifetime of one Scrape call.
	NumPages int
	// Concurrency sizes the admission gate bounding in-flight fetches.
	// A value of 1 recovers fully synchronous behavior.
	Concurrency int
}

// Scheduler fans fetch-and-parse units out across a date range and page
// range under a global concurrency bound, and joins the results back to
// their originating windows.
type Scheduler struct {
	resolver TargetResolver
	unit     *Unit
	cfg      SchedulerConfig
	gate     chan struct{}
	logger   *zap.Logger
}

// NewScheduler builds a Scheduler around a resolver and a fetch-and-parse
// unit.
func NewScheduler(resolver TargetResolver, unit *Unit, cfg SchedulerConfig, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.NumPages <= 0 {
		cfg.NumPages = 1
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &Scheduler{
		resolver: resolver,
		unit:     unit,
		cfg:      cfg,
		gate:     make(chan struct{}, cfg.Concurrency),
		logger:   logger,
	}
}

// Scrape fetches every page of every window and returns one DateWindowRow
// per window, in the caller-supplied window order regardless of completion
// order. A window with zero successful pages still yields a row with an
// empty links list: downstream consumers treat that as "found nothing",
// not "window skipped".
func (s *Scheduler) Scrape(ctx context.Context, query Query, windows []Window) []DateWindowRow {
	rows := make([]DateWindowRow, len(windows))
	pagesByWindow := make([][][]string, len(windows))
	var wg sync.WaitGroup

	for i, w := range windows {
		rows[i] = DateWindowRow{Start: w.Start, End: w.End, Links: []string{}}
		pagesByWindow[i] = make([][]string, s.cfg.NumPages)

		for page := 1; page <= s.cfg.NumPages; page++ {
			url := s.resolver.Resolve(query.Text, w.Start, w.End, page)

			wg.Add(1)
			go func(slot [][]string, page int, url string) {
				defer wg.Done()
				if !s.acquire(ctx) {
					return
				}
				defer s.release()
				slot[page-1] = s.unit.FetchAndParse(ctx, url)
			}(pagesByWindow[i], page, url)
		}
	}
	wg.Wait()

	// Join phase: page order then in-page order, per window.
	for i := range rows {
		for _, links := range pagesByWindow[i] {
			rows[i].Links = append(rows[i].Links, links...)
		}
		s.logger.Debug("window scraped",
			zap.String("query", query.Text),
			zap.Time("start", rows[i].Start),
			zap.Time("end", rows[i].End),
			zap.Int("links", len(rows[i].Links)),
		)
	}
	return rows
}

// acquire takes one admission gate slot, or reports false if the context
// finished first. Every acquire is paired with exactly one release on all
// exit paths.
func (s *Scheduler) acquire(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case s.gate <- struct{}{}:
		telemetry.GateAcquired()
		return true
	}
}

func (s *Scheduler) release() {
	<-s.gate
	telemetry.GateReleased()
}
