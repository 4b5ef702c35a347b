package scrape

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"
)

// fakeTransport serves canned outcomes per URL and records the requests it
// saw. URLs with no canned outcome fail with a transport error.
type fakeTransport struct {
	mu       sync.Mutex
	outcomes map[string]FetchOutcome
	requests []fakeRequest
}

type fakeRequest struct {
	url     string
	proxy   bool
	headers http.Header
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{outcomes: make(map[string]FetchOutcome)}
}

func (t *fakeTransport) serve(url, body string) {
	t.outcomes[url] = Ok([]byte(body))
}

func (t *fakeTransport) fail(url string) {
	t.outcomes[url] = TransportFailure(fmt.Errorf("connection refused"))
}

func (t *fakeTransport) fetch(url string, proxy bool, headers http.Header) FetchOutcome {
	t.mu.Lock()
	t.requests = append(t.requests, fakeRequest{url: url, proxy: proxy, headers: headers.Clone()})
	outcome, ok := t.outcomes[url]
	t.mu.Unlock()
	if !ok {
		return TransportFailure(fmt.Errorf("no route to %s", url))
	}
	return outcome
}

func (t *fakeTransport) FetchDirect(_ context.Context, url string, headers http.Header) FetchOutcome {
	return t.fetch(url, false, headers)
}

func (t *fakeTransport) FetchViaProxy(_ context.Context, url string, headers http.Header) FetchOutcome {
	return t.fetch(url, true, headers)
}

func (t *fakeTransport) seen() []fakeRequest {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]fakeRequest(nil), t.requests...)
}

// lineParser treats each non-empty line of the body as one link.
type lineParser struct{}

func (lineParser) Parse(raw []byte) []string {
	links := make([]string, 0)
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			links = append(links, line)
		}
	}
	return links
}

// windowResolver encodes the window and page into a deterministic URL so
// tests can address individual fetches.
type windowResolver struct{}

func (windowResolver) Resolve(queryText string, windowStart, _ time.Time, page int) string {
	return fmt.Sprintf("https://search.example/%s/%s/p%d",
		strings.ReplaceAll(queryText, " ", "+"),
		windowStart.Format("2006-01-02"),
		page,
	)
}

// fixedAgent always hands out the same user-agent string.
type fixedAgent string

func (a fixedAgent) Random() string { return string(a) }

// fakeStore is an in-memory BlobStore for asserting persisted artifacts.
type fakeStore struct {
	mu   sync.Mutex
	data map[string][]byte
	// failPuts makes every Put report failure, for best-effort paths.
	failPuts bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string][]byte)}
}

func (s *fakeStore) Exists(_ context.Context, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[key]
	return ok
}

func (s *fakeStore) Put(_ context.Context, key string, data []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failPuts {
		return false
	}
	s.data[key] = append([]byte(nil), data...)
	return true
}

func (s *fakeStore) Get(_ context.Context, key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.data[key]
	return data, ok
}

func (s *fakeStore) List(_ context.Context, prefix string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []string
	for key := range s.data {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

func (s *fakeStore) Delete(_ context.Context, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; !ok {
		return false
	}
	delete(s.data, key)
	return true
}

// fakeExtractor returns canned fields, failing for URLs in failFor.
type fakeExtractor struct {
	failFor map[string]bool
}

func (e fakeExtractor) Extract(url string, raw []byte) (ArticleFields, error) {
	if e.failFor[url] {
		return ArticleFields{}, fmt.Errorf("unreadable document")
	}
	return ArticleFields{
		Title:   "Title of " + url,
		Text:    string(raw),
		Authors: []string{"A. Reporter"},
	}, nil
}

// echoSummarizer returns a deterministic function of its inputs.
type echoSummarizer struct{}

func (echoSummarizer) Summarize(title, text string) string {
	if text == "" {
		return ""
	}
	return "summary: " + title
}
