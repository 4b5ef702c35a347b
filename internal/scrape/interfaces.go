package scrape

import (
	"context"
	"net/http"
	"time"
)

// TargetResolver maps a query and date window to the URL that should be
// fetched for a given result page. Implementations are pure functions of
// their inputs.
type TargetResolver interface {
	Resolve(queryText string, windowStart, windowEnd time.Time, page int) string
}

// ContentParser extracts the ordered sequence of links from raw page
// content. Implementations must be total: malformed or unexpected content
// yields an empty slice, never an error, since a content-shape mismatch is
// not a transport failure.
type ContentParser interface {
	Parse(raw []byte) []string
}

// Transport resolves a URL to raw content, either directly or through a
// rotating proxy. The caller selects which per call.
type Transport interface {
	FetchDirect(ctx context.Context, url string, headers http.Header) FetchOutcome
	FetchViaProxy(ctx context.Context, url string, headers http.Header) FetchOutcome
}

// AgentSource hands out user-agent strings from a pre-validated pool.
type AgentSource interface {
	Random() string
}

// BlobStore is the persistence collaborator: keyed byte blobs, best
// effort. Failures surface as booleans or empty results, never as faults
// the pipeline has to recover from.
type BlobStore interface {
	Exists(ctx context.Context, key string) bool
	Put(ctx context.Context, key string, data []byte) bool
	Get(ctx context.Context, key string) ([]byte, bool)
	List(ctx context.Context, prefix string) []string
	Delete(ctx context.Context, key string) bool
}

// Extractor turns a downloaded article body into structured fields.
type Extractor interface {
	Extract(url string, raw []byte) (ArticleFields, error)
}

// Summarizer derives a short summary from parsed article text.
type Summarizer interface {
	Summarize(title, text string) string
}
