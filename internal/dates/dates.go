// Package dates turns the mess of date strings found in feeds and
// article pages into a single canonical instant.
package dates

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"
)

// Candidate is one possible source for an article's publication time,
// in priority order: page-scraped timestamp, feed published, feed
// updated. An empty Raw means the source had nothing.
type Candidate struct {
	Source string
	Raw    string
}

// Resolved is the outcome of ResolvePublishTime. When Parsed is false
// the Raw string is all we have and callers must render it verbatim.
type Resolved struct {
	Time         time.Time
	Raw          string
	Source       string
	Parsed       bool
	UsedFallback bool // true when the wall clock was the only option
}

// RFC-2822 style mail date layouts, tried first because that is what
// RSS feeds overwhelmingly emit.
var mailLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
}

var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseFlexibleDate parses s as an RFC-2822 mail date, then ISO-8601,
// then hands it to a free-form parser. The first success wins. The
// second return is false when every strategy failed and the raw string
// must be rendered as-is.
func ParseFlexibleDate(s string) (time.Time, bool) {
	for _, layout := range mailLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if t, err := dateparse.ParseAny(s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// ResolvePublishTime picks the first candidate carrying a value and
// parses it. With no usable candidate the current wall clock is the
// last resort and UsedFallback is set.
func ResolvePublishTime(candidates []Candidate, now time.Time) Resolved {
	for _, c := range candidates {
		if c.Raw == "" {
			continue
		}
		t, ok := ParseFlexibleDate(c.Raw)
		return Resolved{
			Time:   t,
			Raw:    c.Raw,
			Source: c.Source,
			Parsed: ok,
		}
	}
	return Resolved{
		Time:         now,
		Source:       "clock",
		Parsed:       true,
		UsedFallback: true,
	}
}

// RenderLocal formats a resolved instant in the user's timezone as
// "YYYY-MM-DD HH:MM:SS ABBREV (UTC±hh:mm)". An unparsed resolution
// degrades to the raw feed string.
func RenderLocal(r Resolved, loc *time.Location) string {
	if !r.Parsed {
		return r.Raw
	}
	local := r.Time.In(loc)
	return fmt.Sprintf("%s (UTC%s)",
		local.Format("2006-01-02 15:04:05 MST"),
		local.Format("-07:00"))
}
