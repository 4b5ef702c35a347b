package scrape

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrequencySummarizerEmptyText(t *testing.T) {
	t.Parallel()

	s := FrequencySummarizer{}
	assert.Empty(t, s.Summarize("Title", ""))
}

func TestFrequencySummarizerShortTextPassesThrough(t *testing.T) {
	t.Parallel()

	s := FrequencySummarizer{MaxSentences: 5}
	text := "First sentence. Second sentence. Third sentence."
	assert.Equal(t, text, s.Summarize("Title", text))
}

func TestFrequencySummarizerCapsSentences(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	for i := 0; i < 20; i++ {
		b.WriteString("Inflation data moved markets today. ")
	}
	b.WriteString("Central bank policy on inflation drives market data and rates. ")
	b.WriteString("An unrelated aside about weather happened too.")

	s := FrequencySummarizer{MaxSentences: 3}
	summary := s.Summarize("Inflation and market data", b.String())

	sentences := splitSentences(summary)
	require.LessOrEqual(t, len(sentences), 3)
	assert.NotEmpty(t, summary)
}

func TestFrequencySummarizerKeepsOriginalOrder(t *testing.T) {
	t.Parallel()

	// Sentences sharing title terms score highest; the summary must keep
	// them in document order, not score order.
	text := "Filler words only here today folks. " +
		"Apple earnings beat expectations strongly. " +
		"More filler content again here folks. " +
		"Apple earnings call highlighted growth expectations. " +
		"Another filler line stands alone quietly. " +
		"Final Apple earnings commentary closed the expectations gap."

	s := FrequencySummarizer{MaxSentences: 2}
	summary := s.Summarize("Apple earnings expectations", text)

	first := strings.Index(summary, "beat expectations")
	second := strings.Index(summary, "highlighted growth")
	if first >= 0 && second >= 0 {
		assert.Less(t, first, second, "summary reorders sentences")
	}
}

func TestSplitSentences(t *testing.T) {
	t.Parallel()

	sentences := splitSentences("One here. Two there! Three anywhere? Four")
	assert.Equal(t, []string{"One here.", "Two there!", "Three anywhere?", "Four"}, sentences)
}

func TestTokenizeDropsStopwordsAndShortTerms(t *testing.T) {
	t.Parallel()

	terms := tokenize("The Market IS up, a 5% move; don't panic")
	assert.Equal(t, []string{"market", "up", "move", "don't", "panic"}, terms)
}
