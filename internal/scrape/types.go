// Package scrape implements the concurrent, politeness-aware link and
// article harvesting engine: windowed crawl scheduling, domain-fair
// batching, per-item enrichment, and result assembly.
package scrape

import (
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

// Query is a search term paired with an inclusive date range. It is
// immutable once constructed; items discovered for it hold a back-reference
// and never copy it.
type Query struct {
	Text        string
	WindowStart time.Time
	WindowEnd   time.Time
}

// NewQuery builds a Query, truncating both bounds to UTC midnight.
func NewQuery(text string, start, end time.Time) Query {
	return Query{
		Text:        text,
		WindowStart: midnightUTC(start),
		WindowEnd:   midnightUTC(end),
	}
}

// Days returns every calendar day in [WindowStart, WindowEnd] inclusive,
// in ascending order.
func (q Query) Days() []time.Time {
	if q.WindowEnd.Before(q.WindowStart) {
		return nil
	}
	n := int(q.WindowEnd.Sub(q.WindowStart).Hours()/24) + 1
	days := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		days = append(days, q.WindowStart.AddDate(0, 0, i))
	}
	return days
}

func (q Query) String() string {
	return q.Text + " " + q.WindowStart.Format("2006-01-02") + " - " + q.WindowEnd.Format("2006-01-02")
}

func midnightUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DiscoveredItem is a single link found during the link-harvest stage.
// Domain is derived exactly once at construction and never recomputed,
// so the batching label stays stable even if later redirects change the
// effective host.
type DiscoveredItem struct {
	Query        *Query
	URL          string
	DiscoveredOn time.Time
	Domain       string
}

// NewDiscoveredItem derives the item's domain label from its URL. URLs
// whose host cannot be determined fall under the empty domain and still
// flow through batching as their own group.
func NewDiscoveredItem(q *Query, rawURL string, discoveredOn time.Time) *DiscoveredItem {
	return &DiscoveredItem{
		Query:        q,
		URL:          rawURL,
		DiscoveredOn: midnightUTC(discoveredOn),
		Domain:       domainLabel(rawURL),
	}
}

// domainLabel reduces a URL to its registrable domain (eTLD+1) so that
// "news.example.co.uk" and "www.example.co.uk" batch as one host.
func domainLabel(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return ""
	}
	if etld, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return etld
	}
	return host
}

// ItemState tracks an item's progress through the enrichment pipeline.
// The progression is monotone: an item may stop at any stage but never
// regresses.
type ItemState uint8

// Enrichment stages in order.
const (
	StatePending ItemState = iota
	StateFetched
	StateParsed
	StateEnriched
)

func (s ItemState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateFetched:
		return "fetched"
	case StateParsed:
		return "parsed"
	case StateEnriched:
		return "enriched"
	default:
		return "unknown"
	}
}

// DateWindowRow is the unit the crawl scheduler emits per scheduled
// window. Links ordering reflects page order then in-page order, and
// duplicates across pages are kept as the source pages reported them.
type DateWindowRow struct {
	Start time.Time
	End   time.Time
	Links []string
}

// Window is a contiguous date span treated as one scheduling unit.
type Window struct {
	Start time.Time
	End   time.Time
}
