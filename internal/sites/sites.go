package sites

import (
	"fmt"

	"github.com/Engineering-Geek/Scraper/internal/scrape"
)

// Site couples a search URL resolver with the parser that understands
// the result markup it returns.
type Site interface {
	scrape.TargetResolver
	scrape.ContentParser
	Name() string
}

// ByName returns the site implementation registered under name.
func ByName(name string) (Site, error) {
	switch name {
	case "google_news":
		return GoogleNews{}, nil
	case "marketwatch":
		return MarketWatch{}, nil
	default:
		return nil, fmt.Errorf("unknown site %q", name)
	}
}
