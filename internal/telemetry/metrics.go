// Package telemetry exposes Prometheus collectors for the scraper.
package telemetry

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	scraperPagesTotal          *prometheus.CounterVec
	scraperLinksTotal          *prometheus.CounterVec
	scraperArticleStagesTotal  *prometheus.CounterVec
	scraperBatchesTotal        prometheus.Counter
	scraperRateLimitDelays     *prometheus.HistogramVec
	scraperPersistsTotal       *prometheus.CounterVec
	scraperActiveFetches       prometheus.Gauge
	scraperFetchDurationSecond *prometheus.HistogramVec

	once sync.Once
)

// Init registers the Prometheus collectors. Safe to call multiple times.
func Init() {
	once.Do(func() {
		scraperPagesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scraper_pages_total",
				Help: "Total result pages fetched, labeled by site and status.",
			},
			[]string{"site", "status"},
		)

		scraperLinksTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scraper_links_total",
				Help: "Total links extracted from result pages, labeled by site.",
			},
			[]string{"site"},
		)

		scraperArticleStagesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scraper_article_stages_total",
				Help: "Article enrichment stage executions, labeled by stage and outcome.",
			},
			[]string{"stage", "outcome"},
		)

		scraperBatchesTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "scraper_batches_total",
				Help: "Total domain-fair batches processed.",
			},
		)

		scraperRateLimitDelays = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scraper_rate_limit_delay_seconds",
				Help:    "Delay introduced by the per-domain rate limiter.",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
			},
			[]string{"domain"},
		)

		scraperPersistsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scraper_persists_total",
				Help: "Blob store persistence attempts, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		scraperActiveFetches = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "scraper_active_fetches",
				Help: "Fetches currently holding the admission gate.",
			},
		)

		scraperFetchDurationSecond = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scraper_fetch_duration_seconds",
				Help:    "Wall time of transport fetches, labeled by status code.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"code"},
		)
	})
}

// IncPage records one fetched result page.
func IncPage(site, status string) {
	Init()
	scraperPagesTotal.WithLabelValues(site, status).Inc()
}

// AddLinks records links extracted for a site.
func AddLinks(site string, n int) {
	if n <= 0 {
		return
	}
	Init()
	scraperLinksTotal.WithLabelValues(site).Add(float64(n))
}

// IncArticleStage records one enrichment stage execution.
func IncArticleStage(stage, outcome string) {
	Init()
	scraperArticleStagesTotal.WithLabelValues(stage, outcome).Inc()
}

// IncBatch records one processed batch.
func IncBatch() {
	Init()
	scraperBatchesTotal.Inc()
}

// ObserveRateLimitDelay records time spent waiting on the per-domain
// limiter.
func ObserveRateLimitDelay(domain string, d time.Duration) {
	Init()
	scraperRateLimitDelays.WithLabelValues(domain).Observe(d.Seconds())
}

// IncPersist records a blob store persistence attempt.
func IncPersist(ok bool) {
	Init()
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	scraperPersistsTotal.WithLabelValues(outcome).Inc()
}

// GateAcquired marks one fetch entering the admission gate.
func GateAcquired() {
	Init()
	scraperActiveFetches.Inc()
}

// GateReleased marks one fetch leaving the admission gate.
func GateReleased() {
	Init()
	scraperActiveFetches.Dec()
}

// ObserveFetch records the duration of one transport fetch.
func ObserveFetch(code int, d time.Duration) {
	Init()
	scraperFetchDurationSecond.WithLabelValues(strconv.Itoa(code)).Observe(d.Seconds())
}
