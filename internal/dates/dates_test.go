package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlexibleDateMailFormat(t *testing.T) {
	got, ok := ParseFlexibleDate("Mon, 01 Jan 2024 12:00:00 GMT")
	require.True(t, ok)
	assert.True(t, got.Equal(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)))
}

func TestParseFlexibleDateISO(t *testing.T) {
	got, ok := ParseFlexibleDate("2024-01-01T12:00:00Z")
	require.True(t, ok)
	assert.True(t, got.Equal(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)))

	got, ok = ParseFlexibleDate("2024-01-01T07:00:00-05:00")
	require.True(t, ok)
	assert.True(t, got.Equal(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)))
}

func TestParseFlexibleDateFreeForm(t *testing.T) {
	got, ok := ParseFlexibleDate("May 8, 2009 5:57:51 PM")
	require.True(t, ok)
	assert.Equal(t, 2009, got.Year())
	assert.Equal(t, time.May, got.Month())
	assert.Equal(t, 8, got.Day())
}

func TestParseFlexibleDateFailure(t *testing.T) {
	_, ok := ParseFlexibleDate("sometime last tuesday-ish")
	assert.False(t, ok)
}

func TestResolvePublishTimePriority(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	// Page timestamp wins over feed fields.
	r := ResolvePublishTime([]Candidate{
		{Source: "page", Raw: "2024-01-01T12:00:00Z"},
		{Source: "published", Raw: "Mon, 01 Jan 2024 08:00:00 GMT"},
	}, now)
	assert.Equal(t, "page", r.Source)
	assert.True(t, r.Parsed)
	assert.True(t, r.Time.Equal(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)))

	// Only the feed updated field present.
	r = ResolvePublishTime([]Candidate{
		{Source: "page", Raw: ""},
		{Source: "published", Raw: ""},
		{Source: "updated", Raw: "Mon, 01 Jan 2024 08:00:00 GMT"},
	}, now)
	assert.Equal(t, "updated", r.Source)
	assert.True(t, r.Time.Equal(time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)))
}

func TestResolvePublishTimeWallClockFallback(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	r := ResolvePublishTime(nil, now)
	assert.True(t, r.UsedFallback)
	assert.True(t, r.Time.Equal(now))
}

func TestResolvePublishTimeUnparseableKeepsRaw(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	r := ResolvePublishTime([]Candidate{
		{Source: "published", Raw: "the day after the storm"},
	}, now)
	assert.False(t, r.Parsed)
	assert.Equal(t, "the day after the storm", r.Raw)
}

func TestRenderLocal(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	r := Resolved{
		Time:   time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		Parsed: true,
	}
	assert.Equal(t, "2024-01-01 07:00:00 EST (UTC-05:00)", RenderLocal(r, loc))
}

func TestRenderLocalUnparsedFallsBackToRaw(t *testing.T) {
	r := Resolved{Raw: "the day after the storm", Parsed: false}
	assert.Equal(t, "the day after the storm", RenderLocal(r, time.UTC))
}
