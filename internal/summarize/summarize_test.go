package summarize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const article = "The city council approved the new transit plan on Tuesday. " +
	"The plan includes twelve new bus routes across the northern districts. " +
	"Funding comes from a combination of state grants and local bonds. " +
	"Several residents spoke in favor of the expanded service at the hearing. " +
	"Opponents raised concerns about construction noise near schools. " +
	"Construction on the first routes is expected to begin next spring. " +
	"Officials said the routes were chosen based on ridership surveys. " +
	"The mayor called the vote a milestone for the city."

func TestSummarizeTooFewSentences(t *testing.T) {
	s := New()
	assert.Equal(t, "", s.Summarize("Just one sentence here.", 5))
	assert.Equal(t, "", s.Summarize("", 5))
}

func TestSummarizeShorterThanInput(t *testing.T) {
	s := New()
	summary := s.Summarize(article, 3)
	require.NotEmpty(t, summary)
	assert.Less(t, len(summary), len(article))
}

func TestSummarizePreservesDocumentOrder(t *testing.T) {
	s := New()
	summary := s.Summarize(article, 4)
	require.NotEmpty(t, summary)

	// Every selected sentence is verbatim from the source, and their
	// order in the summary matches their order in the source.
	lastPos := -1
	for _, sentence := range SplitSentences(summary) {
		pos := strings.Index(article, sentence)
		require.GreaterOrEqual(t, pos, 0, "sentence %q not found verbatim", sentence)
		assert.Greater(t, pos, lastPos, "sentence %q out of document order", sentence)
		lastPos = pos
	}
}

func TestSummarizeSentenceCount(t *testing.T) {
	s := New()
	summary := s.Summarize(article, 2)
	require.NotEmpty(t, summary)
	assert.Len(t, SplitSentences(summary), 2)
}

func TestSplitSentences(t *testing.T) {
	got := SplitSentences("First one. Second one! Third one? Trailing bit without punctuation")
	require.Len(t, got, 4)
	assert.Equal(t, "First one.", got[0])
	assert.Equal(t, "Second one!", got[1])
	assert.Equal(t, "Third one?", got[2])
	assert.Equal(t, "Trailing bit without punctuation", got[3])
}

func TestSplitSentencesKeepsAbbreviationsTogetherEnough(t *testing.T) {
	// Numbers with periods do not end sentences mid-token.
	got := SplitSentences("The rate rose to 4.5 percent. Markets were calm.")
	assert.Len(t, got, 2)
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, WordCount(""))
	assert.Equal(t, 3, WordCount("one two three"))
}
