package sites

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"

	"github.com/Engineering-Geek/Scraper/internal/scrape"
)

// ReadabilityExtractor extracts article fields from raw HTML using a
// readability-style content scorer, so the enrichment stage needs no
// per-site selector rules.
type ReadabilityExtractor struct{}

// Extract parses the downloaded document into structured article fields.
func (ReadabilityExtractor) Extract(rawURL string, raw []byte) (scrape.ArticleFields, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return scrape.ArticleFields{}, fmt.Errorf("parse article url: %w", err)
	}
	article, err := readability.FromReader(bytes.NewReader(raw), pageURL)
	if err != nil {
		return scrape.ArticleFields{}, fmt.Errorf("extract article: %w", err)
	}

	fields := scrape.ArticleFields{
		Title:   strings.TrimSpace(article.Title),
		Text:    strings.TrimSpace(article.TextContent),
		Authors: splitByline(article.Byline),
	}
	if article.PublishedTime != nil {
		fields.PublishDate = article.PublishedTime.UTC()
	}
	return fields, nil
}

// splitByline turns "By Jane Doe and John Roe" into author names.
func splitByline(byline string) []string {
	byline = strings.TrimSpace(byline)
	byline = strings.TrimPrefix(byline, "By ")
	byline = strings.TrimPrefix(byline, "by ")
	if byline == "" {
		return []string{}
	}
	byline = strings.ReplaceAll(byline, " and ", ",")
	parts := strings.Split(byline, ",")
	authors := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			authors = append(authors, p)
		}
	}
	return authors
}
