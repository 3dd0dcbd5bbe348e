// Package summarize implements an extractive TF-IDF summarizer: the
// output is made of verbatim sentences from the input, re-joined in
// document order.
package summarize

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/kljensen/snowball/english"
)

// DefaultSentenceCount is how many sentences a summary keeps.
const DefaultSentenceCount = 5

var wordRe = regexp.MustCompile(`[a-z0-9]+`)

// Summarizer is stateless apart from its stopword set and stemmer,
// construct once per process.
type Summarizer struct {
	stopWords map[string]bool
	stem      func(string) string
}

// New builds a Summarizer with the English stopword set and a snowball
// stemmer.
func New() *Summarizer {
	return &Summarizer{
		stopWords: englishStopWords,
		stem: func(w string) string {
			return english.Stem(w, false)
		},
	}
}

// Summarize returns up to target sentences of text, highest scoring
// first by selection but in original document order in the output.
// Returns "" when text has fewer than 2 sentences or the result is not
// shorter than the input.
func (s *Summarizer) Summarize(text string, target int) string {
	if target <= 0 {
		target = DefaultSentenceCount
	}

	sentences := SplitSentences(text)
	if len(sentences) < 2 {
		return ""
	}

	tokens := make([][]string, len(sentences))
	docFreq := map[string]int{}      // occurrences across the whole document
	sentenceFreq := map[string]int{} // number of sentences containing the word

	for i, sentence := range sentences {
		words := s.tokenize(sentence)
		tokens[i] = words

		seen := map[string]bool{}
		for _, w := range words {
			docFreq[w]++
			if !seen[w] {
				sentenceFreq[w] = sentenceFreq[w] + 1
				seen[w] = true
			}
		}
	}

	// TF-IDF weight: document frequency damped by how many sentences
	// the word spreads across.
	total := float64(len(sentences))
	weight := func(w string) float64 {
		return float64(docFreq[w]) * math.Log(total/(1.0+float64(sentenceFreq[w])))
	}

	scores := make([]float64, len(sentences))
	for i, words := range tokens {
		if len(words) == 0 {
			continue
		}
		sum := 0.0
		for _, w := range words {
			sum += weight(w)
		}
		scores[i] = sum / float64(len(words))
	}

	// Stable sort keeps earlier sentences ahead on equal scores.
	order := make([]int, len(sentences))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if target > len(order) {
		target = len(order)
	}
	selected := append([]int(nil), order[:target]...)
	sort.Ints(selected) // narrative order, not score order

	picked := make([]string, len(selected))
	for i, idx := range selected {
		picked[i] = sentences[idx]
	}
	summary := strings.Join(picked, " ")

	if len(summary) >= len(strings.TrimSpace(text)) {
		return ""
	}
	return summary
}

// tokenize lowercases, keeps alphanumeric runs, drops stopwords and
// stems what survives.
func (s *Summarizer) tokenize(sentence string) []string {
	raw := wordRe.FindAllString(strings.ToLower(sentence), -1)
	out := make([]string, 0, len(raw))
	for _, w := range raw {
		if s.stopWords[w] {
			continue
		}
		out = append(out, s.stem(w))
	}
	return out
}

// SplitSentences breaks text on terminal punctuation followed by
// whitespace. Trailing text without punctuation counts as a sentence.
func SplitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(strings.TrimSpace(text))
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			atEnd := i == len(runes)-1
			followedBySpace := !atEnd && (runes[i+1] == ' ' || runes[i+1] == '\n' || runes[i+1] == '\t')
			if atEnd || followedBySpace {
				if s := strings.TrimSpace(current.String()); s != "" {
					sentences = append(sentences, s)
				}
				current.Reset()
			}
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// WordCount is the caller-level gate helper: summarization only runs on
// bodies of at least 50 words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
