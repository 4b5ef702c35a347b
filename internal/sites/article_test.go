package sites

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadabilityExtractor(t *testing.T) {
	t.Parallel()

	page := `
<html>
<head><title>Inflation Cools in January</title></head>
<body>
  <article>
    <h1>Inflation Cools in January</h1>
    <p>Consumer prices rose more slowly than expected last month, a sign that
    the long stretch of elevated inflation may finally be easing. Analysts had
    forecast a larger increase across most spending categories.</p>
    <p>Energy costs fell for the third consecutive month while food prices were
    roughly flat. Core measures that strip out volatile categories also showed
    a clear deceleration from the prior reading.</p>
    <p>Markets rallied on the report, with rate-sensitive sectors leading the
    gains through the afternoon session.</p>
  </article>
</body>
</html>`

	fields, err := ReadabilityExtractor{}.Extract("https://news.example/inflation", []byte(page))
	require.NoError(t, err)
	assert.Contains(t, fields.Title, "Inflation Cools")
	assert.Contains(t, fields.Text, "Consumer prices rose more slowly")
	assert.Contains(t, fields.Text, "Markets rallied")
}

func TestReadabilityExtractorBadURL(t *testing.T) {
	t.Parallel()

	_, err := ReadabilityExtractor{}.Extract("://bad", []byte("<html></html>"))
	assert.Error(t, err)
}

func TestSplitByline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		byline string
		want   []string
	}{
		{"empty", "", []string{}},
		{"single", "Jane Doe", []string{"Jane Doe"}},
		{"by prefix", "By Jane Doe", []string{"Jane Doe"}},
		{"and separator", "By Jane Doe and John Roe", []string{"Jane Doe", "John Roe"}},
		{"comma separator", "Jane Doe, John Roe", []string{"Jane Doe", "John Roe"}},
		{"mixed", "By Jane Doe, John Roe and Pat Smith", []string{"Jane Doe", "John Roe", "Pat Smith"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, splitByline(tt.byline))
		})
	}
}
