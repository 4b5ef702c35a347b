package sites

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// MarketWatch resolves and parses MarketWatch news search pages.
type MarketWatch struct{}

// Resolve builds the search URL for one query and date window. The search
// endpoint does not page, so the page index is ignored past the first.
func (MarketWatch) Resolve(queryText string, windowStart, windowEnd time.Time, _ int) string {
	return fmt.Sprintf(
		"https://www.marketwatch.com/search?q=%s&sd=%s&ed=%s&tab=All%%20News",
		url.QueryEscape(queryText),
		windowStart.Format(urlDateLayout),
		windowEnd.Format(urlDateLayout),
	)
}

// Parse extracts article links from result headlines. Relative links are
// resolved against the site root.
func (MarketWatch) Parse(raw []byte) []string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil
	}
	var links []string
	doc.Find(".element__title a").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || href == "" {
			return
		}
		if strings.HasPrefix(href, "/") {
			href = "https://www.marketwatch.com" + href
		}
		links = append(links, href)
	})
	return links
}

// Name labels metric series for this source.
func (MarketWatch) Name() string { return "marketwatch" }
