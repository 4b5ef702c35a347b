package scrape

import (
	"regexp"
	"sort"
	"strings"
)

// FrequencySummarizer is an extractive summarizer: it scores sentences by
// the frequency of the non-stopword terms they share with the document and
// the title, and keeps the top-scoring sentences in original order.
type FrequencySummarizer struct {
	// MaxSentences caps the summary length. Defaults to 5.
	MaxSentences int
}

// Summarize returns an extractive summary of text. Empty input yields an
// empty summary.
func (s FrequencySummarizer) Summarize(title, text string) string {
	maxSentences := s.MaxSentences
	if maxSentences <= 0 {
		maxSentences = 5
	}
	sentences := splitSentences(text)
	if len(sentences) <= maxSentences {
		return strings.TrimSpace(strings.Join(sentences, " "))
	}

	freq := termFrequencies(text)
	titleTerms := make(map[string]struct{})
	for _, term := range tokenize(title) {
		titleTerms[term] = struct{}{}
	}

	type scored struct {
		index int
		score float64
	}
	ranked := make([]scored, 0, len(sentences))
	for i, sentence := range sentences {
		var score float64
		for _, term := range tokenize(sentence) {
			score += freq[term]
			if _, ok := titleTerms[term]; ok {
				score += 1
			}
		}
		ranked = append(ranked, scored{index: i, score: score})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	keep := ranked[:maxSentences]
	sort.Slice(keep, func(i, j int) bool { return keep[i].index < keep[j].index })

	parts := make([]string, 0, len(keep))
	for _, k := range keep {
		parts = append(parts, sentences[k.index])
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

var sentenceEnd = regexp.MustCompile(`([.!?])\s+`)

func splitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	marked := sentenceEnd.ReplaceAllString(text, "$1\x00")
	raw := strings.Split(marked, "\x00")
	sentences := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

func termFrequencies(text string) map[string]float64 {
	counts := make(map[string]float64)
	var max float64
	for _, term := range tokenize(text) {
		counts[term]++
		if counts[term] > max {
			max = counts[term]
		}
	}
	if max > 0 {
		for term := range counts {
			counts[term] /= max
		}
	}
	return counts
}

var nonWord = regexp.MustCompile(`[^a-z0-9']+`)

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "has": {}, "have": {}, "he": {},
	"in": {}, "is": {}, "it": {}, "its": {}, "of": {}, "on": {}, "or": {},
	"that": {}, "the": {}, "this": {}, "to": {}, "was": {}, "were": {},
	"will": {}, "with": {}, "but": {}, "they": {}, "their": {}, "she": {},
	"his": {}, "her": {}, "not": {}, "had": {}, "we": {}, "you": {},
}

func tokenize(text string) []string {
	fields := nonWord.Split(strings.ToLower(text), -1)
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		if _, stop := stopwords[f]; stop {
			continue
		}
		terms = append(terms, f)
	}
	return terms
}
