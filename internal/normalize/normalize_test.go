package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestURLStripsTrackingParams(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"utm and ref with fragment", "https://x.com/a?utm_source=y&ref=z#frag", "https://x.com/a"},
		{"fbclid only", "https://x.com/a?fbclid=abc123", "https://x.com/a"},
		{"igshid only", "https://x.com/a?igshid=42", "https://x.com/a"},
		{"source param", "https://x.com/a?source=newsletter", "https://x.com/a"},
		{"tracking before real param", "https://x.com/a?utm_medium=mail&id=3", "https://x.com/a?id=3"},
		{"real param kept", "https://x.com/a?id=3", "https://x.com/a?id=3"},
		{"trailing slash", "https://x.com/a/", "https://x.com/a"},
		{"fragment only", "https://x.com/a#section", "https://x.com/a"},
		{"clean url untouched", "https://x.com/a", "https://x.com/a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, URL(tt.in))
		})
	}
}

func TestURLIdempotent(t *testing.T) {
	inputs := []string{
		"https://x.com/a?utm_source=y&ref=z#frag",
		"https://x.com/a/?fbclid=1",
		"https://x.com/a?id=3&utm_campaign=spring",
		"https://x.com/a",
	}
	for _, in := range inputs {
		once := URL(in)
		assert.Equal(t, once, URL(once), "normalizing %q twice changed the result", in)
	}
}

func TestTitleNormalization(t *testing.T) {
	assert.Equal(t, Title("quick brown fox"), Title("The Quick, Brown Fox!"))
	assert.Equal(t, "quick brown fox", Title("The Quick, Brown Fox!"))
}

func TestTitleCollapsesWhitespaceAndCase(t *testing.T) {
	assert.Equal(t, Title("breaking news today"), Title("  BREAKING   News — Today!  "))
}

func TestTitleStopWords(t *testing.T) {
	// Every configured stop word disappears.
	assert.Equal(t, "fox jumps dog", Title("the a an fox in on at jumps to for the dog with and but or"))
}

func TestTitleEmpty(t *testing.T) {
	assert.Equal(t, "", Title(""))
	assert.Equal(t, "", Title("The!!!"))
}
