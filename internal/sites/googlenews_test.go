package sites

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGoogleNewsResolve(t *testing.T) {
	t.Parallel()

	url := GoogleNews{}.Resolve("Apple earnings", day(2020, 1, 5), day(2020, 1, 5), 1)
	assert.Equal(t,
		"https://www.google.com/search?q=Apple+earnings&tbs=cdr:1,cd_min:01/05/2020,cd_max:01/05/2020&tbm=nws&start=0",
		url,
	)
}

func TestGoogleNewsResolvePaging(t *testing.T) {
	t.Parallel()

	url := GoogleNews{}.Resolve("Apple", day(2020, 1, 5), day(2020, 1, 6), 3)
	assert.Contains(t, url, "start=20", "page n skips (n-1)*10 results")
	assert.Contains(t, url, "cd_min:01/05/2020")
	assert.Contains(t, url, "cd_max:01/06/2020")
}

func TestGoogleNewsParse(t *testing.T) {
	t.Parallel()

	page := `
<html><body>
  <div id="search">
    <a class="WlydOe" href="https://news-one.example/story">Headline one</a>
    <a class="other" href="https://ignored.example/nope">Not a result</a>
    <a class="WlydOe" href="https://news-two.example/story">Headline two</a>
    <a class="WlydOe">No href</a>
  </div>
</body></html>`

	links := GoogleNews{}.Parse([]byte(page))
	require.Len(t, links, 2)
	assert.Equal(t, "https://news-one.example/story", links[0])
	assert.Equal(t, "https://news-two.example/story", links[1])
}

func TestGoogleNewsParseEmptyPage(t *testing.T) {
	t.Parallel()

	assert.Empty(t, GoogleNews{}.Parse([]byte("<html><body>no results</body></html>")))
	assert.Empty(t, GoogleNews{}.Parse(nil))
}

func TestByName(t *testing.T) {
	t.Parallel()

	site, err := ByName("google_news")
	require.NoError(t, err)
	assert.Equal(t, "google_news", site.Name())

	site, err = ByName("marketwatch")
	require.NoError(t, err)
	assert.Equal(t, "marketwatch", site.Name())

	_, err = ByName("myspace")
	assert.Error(t, err)
}
