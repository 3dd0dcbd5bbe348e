// Package scraper fetches an article's own page to improve publication
// timestamp accuracy and to pull body text for summarization. Every
// failure here is non-fatal: the pipeline falls back to feed data.
package scraper

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"groundbot/internal/cache"
	"groundbot/internal/logger"
)

// Same desktop UA the feeds are polled with; some sites serve bots a
// stripped page without the meta tags we need.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

const (
	maxBodyLength = 8000
	resultTTL     = 6 * time.Hour
	maxPageBytes  = 2 << 20
)

// ISO-8601-shaped substring, the last-resort timestamp source.
var isoDateRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}(:\d{2})?(\.\d+)?(Z|[+-]\d{2}:?\d{2})?`)

// PageData is what one article page yields.
type PageData struct {
	PublishedRaw string // best timestamp string found on the page, "" if none
	Body         string // readable article text, "" if extraction failed
}

type Scraper struct {
	client *http.Client
	memo   *cache.Cache
}

func New(timeout time.Duration) *Scraper {
	return &Scraper{
		client: &http.Client{Timeout: timeout},
		memo:   cache.New(),
	}
}

// Fetch retrieves and dissects the article page. Results are memoized
// so a URL appearing again within a run costs nothing.
func (s *Scraper) Fetch(pageURL string) (*PageData, error) {
	if v, ok := s.memo.Get(pageURL); ok {
		return v.(*PageData), nil
	}

	req, err := http.NewRequest(http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("bad article url %s: %w", pageURL, err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch article page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("article page returned status %d", resp.StatusCode)
	}

	html, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read article page: %w", err)
	}

	data := &PageData{
		PublishedRaw: extractPublishedRaw(html),
		Body:         extractBody(html, pageURL),
	}
	s.memo.Set(pageURL, data, resultTTL)
	return data, nil
}

// extractPublishedRaw scans the page for a publication timestamp, in
// priority order: <time datetime>, article:published_time meta,
// og:article:published_time meta, then a bare ISO-shaped substring.
func extractPublishedRaw(html []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err == nil {
		if v, ok := doc.Find("time[datetime]").First().Attr("datetime"); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		for _, sel := range []string{
			`meta[property="article:published_time"]`,
			`meta[property="og:article:published_time"]`,
		} {
			if v, ok := doc.Find(sel).First().Attr("content"); ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
	}

	return isoDateRe.FindString(string(html))
}

// extractBody pulls readable article text for the summarizer.
func extractBody(html []byte, pageURL string) string {
	u, _ := url.Parse(pageURL)
	article, err := readability.FromReader(bytes.NewReader(html), u)
	if err != nil {
		logger.Debug("readability extraction failed", "url", pageURL, "error", err)
		return ""
	}

	body := strings.TrimSpace(strings.Join(strings.Fields(article.TextContent), " "))
	if len(body) > maxBodyLength {
		body = body[:maxBodyLength]
	}
	return body
}
