package scrape

import (
	"context"
	"fmt"
	"path"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HarvesterConfig controls one end-to-end harvest run.
type HarvesterConfig struct {
	// Method selects daily or weekly windowing.
	Method string
	// MaxBatch caps domain-fair batch size; 0 selects dynamic sizing.
	MaxBatch int
	// RootDir prefixes every blob store key written by the run.
	RootDir string
}

// HarvestResult is the per-query outcome of a run.
type HarvestResult struct {
	Query    Query
	Links    Table
	Articles Table
}

// Harvester drives the full pipeline for a set of queries: windowed link
// harvest, domain-fair batching of the discovered articles, enrichment,
// and table assembly with best-effort persistence.
type Harvester struct {
	scheduler *Scheduler
	enricher  *Enricher
	assembler *Assembler
	cfg       HarvesterConfig
	logger    *zap.Logger
}

// NewHarvester wires the pipeline stages together.
func NewHarvester(scheduler *Scheduler, enricher *Enricher, assembler *Assembler, cfg HarvesterConfig, logger *zap.Logger) *Harvester {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Harvester{
		scheduler: scheduler,
		enricher:  enricher,
		assembler: assembler,
		cfg:       cfg,
		logger:    logger,
	}
}

// Run harvests every query in order. The windowing method is validated for
// every query before any network activity begins; a bad method is the only
// fatal path.
func (h *Harvester) Run(ctx context.Context, queries []Query) ([]HarvestResult, error) {
	plans := make([][]Window, len(queries))
	for i, q := range queries {
		windows, err := Windows(q.WindowStart, q.WindowEnd, h.cfg.Method)
		if err != nil {
			return nil, fmt.Errorf("plan query %q: %w", q.Text, err)
		}
		plans[i] = windows
	}

	runID := uuid.NewString()
	results := make([]HarvestResult, 0, len(queries))
	for i, q := range queries {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("harvest interrupted: %w", err)
		}
		h.logger.Info("harvesting query",
			zap.String("run_id", runID),
			zap.String("query", q.Text),
			zap.Int("windows", len(plans[i])),
		)

		rows := h.scheduler.Scrape(ctx, q, plans[i])
		linkTable := h.assembler.LinkTable(rows)
		h.assembler.Persist(ctx, h.linkKey(q), linkTable)

		items := discoverItems(&queries[i], rows)
		batches := DomainFairBatches(items, h.cfg.MaxBatch)
		articles := h.enricher.EnrichBatches(ctx, batches)

		articleTable := h.assembler.ArticleTable(articles)
		h.assembler.Persist(ctx, h.articleKey(q, runID), articleTable)

		h.logger.Info("query harvested",
			zap.String("query", q.Text),
			zap.Int("links", len(items)),
			zap.Int("batches", len(batches)),
			zap.Int("articles", len(articleTable.Rows)),
		)
		results = append(results, HarvestResult{Query: q, Links: linkTable, Articles: articleTable})
	}
	return results, nil
}

// RunLinks harvests link tables only, skipping enrichment. Useful for
// building a corpus of candidate URLs before committing to article
// downloads.
func (h *Harvester) RunLinks(ctx context.Context, queries []Query) ([]HarvestResult, error) {
	plans := make([][]Window, len(queries))
	for i, q := range queries {
		windows, err := Windows(q.WindowStart, q.WindowEnd, h.cfg.Method)
		if err != nil {
			return nil, fmt.Errorf("plan query %q: %w", q.Text, err)
		}
		plans[i] = windows
	}

	results := make([]HarvestResult, 0, len(queries))
	for i, q := range queries {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("harvest interrupted: %w", err)
		}
		rows := h.scheduler.Scrape(ctx, q, plans[i])
		linkTable := h.assembler.LinkTable(rows)
		h.assembler.Persist(ctx, h.linkKey(q), linkTable)
		h.logger.Info("links harvested",
			zap.String("query", q.Text),
			zap.Int("windows", len(rows)),
		)
		results = append(results, HarvestResult{Query: q, Links: linkTable})
	}
	return results, nil
}

// discoverItems flattens scheduler rows into the item pool consumed by the
// batcher. The pool is fully materialized here, before batching begins.
func discoverItems(q *Query, rows []DateWindowRow) []*DiscoveredItem {
	var items []*DiscoveredItem
	for _, row := range rows {
		for _, link := range row.Links {
			items = append(items, NewDiscoveredItem(q, link, row.Start))
		}
	}
	return items
}

func (h *Harvester) linkKey(q Query) string {
	return path.Join(h.cfg.RootDir, "links", q.Text+".csv")
}

func (h *Harvester) articleKey(q Query, runID string) string {
	return path.Join(h.cfg.RootDir, "articles", q.Text, runID+".csv")
}
