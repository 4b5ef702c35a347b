// Package sites holds the per-source target resolvers and content
// parsers. The engine is written against the capability pair only; all
// knowledge of a site's URL shape and markup lives here.
package sites

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const urlDateLayout = "01/02/2006"

// GoogleNews resolves and parses Google News search result pages.
type GoogleNews struct{}

// Resolve builds the search URL for one query, date window, and result
// page. Results are paged ten per page via the start parameter.
func (GoogleNews) Resolve(queryText string, windowStart, windowEnd time.Time, page int) string {
	query := strings.ReplaceAll(queryText, " ", "+")
	skip := (page - 1) * 10
	return fmt.Sprintf(
		"https://www.google.com/search?q=%s&tbs=cdr:1,cd_min:%s,cd_max:%s&tbm=nws&start=%d",
		query,
		windowStart.Format(urlDateLayout),
		windowEnd.Format(urlDateLayout),
		skip,
	)
}

// Parse extracts result links from a search page. The result anchors carry
// the WlydOe class; anything else on the page is ignored. Malformed
// content yields an empty slice.
func (GoogleNews) Parse(raw []byte) []string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil
	}
	var links []string
	doc.Find("a.WlydOe").Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok && href != "" {
			links = append(links, href)
		}
	})
	return links
}

// Name labels metric series for this source.
func (GoogleNews) Name() string { return "google_news" }
