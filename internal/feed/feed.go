package feed

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// Entry is the slice of a feed item the pipeline cares about. Raw date
// strings are kept as-is, resolution happens downstream.
type Entry struct {
	Link        string
	Title       string
	Published   string
	Updated     string
	Description string
}

type Fetcher struct {
	parser  *gofeed.Parser
	timeout time.Duration
}

func NewFetcher(timeout time.Duration, userAgent string) *Fetcher {
	p := gofeed.NewParser()
	if userAgent != "" {
		p.UserAgent = userAgent
	}
	return &Fetcher{parser: p, timeout: timeout}
}

// Fetch downloads and parses one feed. Entries come back oldest first
// so the newest article ends up posted last.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	parsed, err := f.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed %s: %w", url, err)
	}

	entries := make([]Entry, 0, len(parsed.Items))
	// Reverse: feeds list newest first.
	for i := len(parsed.Items) - 1; i >= 0; i-- {
		item := parsed.Items[i]
		entries = append(entries, Entry{
			Link:        item.Link,
			Title:       truncate(item.Title, 250),
			Published:   item.Published,
			Updated:     item.Updated,
			Description: description(item),
		})
	}
	return entries, nil
}

// description picks the richest text the feed offers.
func description(item *gofeed.Item) string {
	content := item.Description
	if content == "" {
		content = item.Content
	}
	return CleanHTML(content)
}

var tagRe = regexp.MustCompile(`<[^>]*>`)

// CleanHTML strips markup and collapses whitespace. Good enough for
// feed descriptions, full pages go through the scraper instead.
func CleanHTML(s string) string {
	s = tagRe.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&quot;", `"`)
	s = strings.ReplaceAll(s, "&#39;", "'")
	return strings.TrimSpace(strings.Join(strings.Fields(s), " "))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
