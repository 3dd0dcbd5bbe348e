package app

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMessage(t *testing.T) {
	msg := formatMessage("Big Event Happens", "http://a.com/1",
		"2024-01-01 07:00:00 EST (UTC-05:00)", "Something happened downtown.", false)

	assert.True(t, strings.HasPrefix(msg, breakingHeader))
	assert.Contains(t, msg, "**Big Event Happens**")
	assert.Contains(t, msg, "*Published: 2024-01-01 07:00:00 EST (UTC-05:00)*")
	assert.Contains(t, msg, "Something happened downtown.")
	assert.True(t, strings.HasSuffix(msg, "Read more: http://a.com/1"))
}

func TestFormatMessageUpdateHeader(t *testing.T) {
	msg := formatMessage("Big Event Happens Again", "http://a.com/2", "", "", true)
	assert.True(t, strings.HasPrefix(msg, updateHeader))
	assert.NotContains(t, msg, "Published:")
}

func TestFormatMinimalMessage(t *testing.T) {
	msg := formatMinimalMessage("Big Event Happens", "http://a.com/1", false)
	assert.Contains(t, msg, "**Big Event Happens**")
	assert.Contains(t, msg, "Read more: http://a.com/1")
	assert.NotContains(t, msg, "Published:")
}

func TestTruncateAtSentence(t *testing.T) {
	short := "Short enough already."
	assert.Equal(t, short, truncateAtSentence(short, 100))

	long := strings.Repeat("One full sentence right here. ", 20)
	got := truncateAtSentence(long, 100)
	assert.LessOrEqual(t, len(got), 100)
	assert.True(t, strings.HasSuffix(got, "."))
}
