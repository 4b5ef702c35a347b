package scrape

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Engineering-Geek/Scraper/internal/telemetry"
)

// ArticleFields is the structured content extracted from a downloaded
// article.
type ArticleFields struct {
	Title       string
	Text        string
	Authors     []string
	PublishDate time.Time
}

// Article carries one discovered item through the enrichment pipeline.
// Each Article is exclusively owned by the goroutine currently progressing
// it; state transitions are monotone and happen on one stage at a time.
type Article struct {
	Item    *DiscoveredItem
	Raw     []byte
	Fields  ArticleFields
	Summary string

	state       ItemState
	failedStage ItemState
}

// NewArticle wraps a discovered item for enrichment.
func NewArticle(item *DiscoveredItem) *Article {
	return &Article{Item: item, state: StatePending}
}

// State returns how far the article has progressed.
func (a *Article) State() ItemState { return a.state }

// FailedStage returns the stage the article last failed at, or
// StatePending if it never failed.
func (a *Article) FailedStage() ItemState { return a.failedStage }

// Complete reports whether both download and parse succeeded. Only
// complete articles contribute a row to the final table.
func (a *Article) Complete() bool { return a.state >= StateParsed }

// EnricherConfig controls batch pacing during enrichment.
type EnricherConfig struct {
	// Delay is the pause inserted between batches.
	Delay time.Duration
	// UseProxy routes article downloads through the transport's proxy
	// path.
	UseProxy bool
}

// Enricher runs the three-stage article pipeline: download raw content,
// extract structured fields, derive a summary. Stages run with full
// batch-level concurrency - every item in a batch finishes a stage before
// any item starts the next one. A stage failure logs and leaves the item's
// state unchanged; it never aborts a sibling item or the batch.
type Enricher struct {
	transport  Transport
	extractor  Extractor
	summarizer Summarizer
	agents     AgentSource
	cfg        EnricherConfig
	logger     *zap.Logger
}

// NewEnricher wires the enrichment collaborators together.
func NewEnricher(
	transport Transport,
	extractor Extractor,
	summarizer Summarizer,
	agents AgentSource,
	cfg EnricherConfig,
	logger *zap.Logger,
) *Enricher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enricher{
		transport:  transport,
		extractor:  extractor,
		summarizer: summarizer,
		agents:     agents,
		cfg:        cfg,
		logger:     logger,
	}
}

// EnrichBatches runs every batch through the pipeline and returns the
// articles in batch order, then item order within each batch.
func (e *Enricher) EnrichBatches(ctx context.Context, batches [][]*DiscoveredItem) []*Article {
	var out []*Article
	for i, batch := range batches {
		if ctx.Err() != nil {
			break
		}
		articles := make([]*Article, len(batch))
		for j, item := range batch {
			articles[j] = NewArticle(item)
		}

		e.runStage(ctx, articles, StateFetched, e.download)
		e.runStage(ctx, articles, StateParsed, e.parse)
		e.runStage(ctx, articles, StateEnriched, e.summarize)

		out = append(out, articles...)
		telemetry.IncBatch()
		e.logger.Debug("batch enriched",
			zap.Int("batch", i+1),
			zap.Int("items", len(batch)),
		)

		if i < len(batches)-1 {
			pause(ctx, e.cfg.Delay)
		}
	}
	return out
}

// runStage advances every article in the batch to target concurrently.
// Articles that already reached the target stage, or never reached the
// previous one, are skipped; the stage is idempotent.
func (e *Enricher) runStage(ctx context.Context, articles []*Article, target ItemState, stage func(context.Context, *Article) error) {
	var wg sync.WaitGroup
	for _, a := range articles {
		if a.state >= target || a.state < target-1 {
			continue
		}
		wg.Add(1)
		go func(a *Article) {
			defer wg.Done()
			if err := stage(ctx, a); err != nil {
				a.failedStage = target
				telemetry.IncArticleStage(target.String(), "error")
				e.logger.Warn("article stage failed",
					zap.String("stage", target.String()),
					zap.String("url", a.Item.URL),
					zap.Error(err),
				)
				return
			}
			a.state = target
			telemetry.IncArticleStage(target.String(), "ok")
		}(a)
	}
	wg.Wait()
}

func (e *Enricher) download(ctx context.Context, a *Article) error {
	headers := http.Header{}
	if e.agents != nil {
		if ua := e.agents.Random(); ua != "" {
			headers.Set("User-Agent", ua)
		}
	}
	var outcome FetchOutcome
	if e.cfg.UseProxy {
		outcome = e.transport.FetchViaProxy(ctx, a.Item.URL, headers)
	} else {
		outcome = e.transport.FetchDirect(ctx, a.Item.URL, headers)
	}
	if !outcome.OK() {
		return outcome.Err()
	}
	a.Raw = outcome.Body
	return nil
}

func (e *Enricher) parse(_ context.Context, a *Article) error {
	fields, err := e.extractor.Extract(a.Item.URL, a.Raw)
	if err != nil {
		return err
	}
	a.Fields = fields
	return nil
}

func (e *Enricher) summarize(_ context.Context, a *Article) error {
	a.Summary = e.summarizer.Summarize(a.Fields.Title, a.Fields.Text)
	return nil
}
