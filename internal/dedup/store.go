package dedup

import (
	"sync"
	"time"

	"groundbot/internal/logger"
	"groundbot/internal/normalize"
	"groundbot/internal/similarity"
)

// Retention windows for the title index. URLs are remembered for the
// process lifetime; titles age out.
const (
	DuplicateWindow = 24 * time.Hour
	UpdateWindow    = 7 * 24 * time.Hour
)

// Update band: similar enough to be the same story evolving, but not
// near-identical.
const (
	UpdateBandLow  = 0.70
	UpdateBandHigh = 0.95
)

// Backend persists the store's state. Implementations: FileBackend,
// PostgresBackend.
type Backend interface {
	Load() (urls []string, titles map[string]time.Time, err error)
	Save(urls []string, titles map[string]time.Time) error
}

// Store is the record of everything already posted: a set of normalized
// URLs and an index of normalized titles with their first-post time.
// Only the Store mutates these structures.
type Store struct {
	mu        sync.Mutex
	urls      map[string]struct{}
	titles    map[string]time.Time
	backend   Backend
	threshold float64 // duplicate similarity threshold
}

// NewStore creates a store with the given persistence backend and
// duplicate-similarity threshold.
func NewStore(backend Backend, threshold float64) *Store {
	return &Store{
		urls:      make(map[string]struct{}),
		titles:    make(map[string]time.Time),
		backend:   backend,
		threshold: threshold,
	}
}

// Load restores persisted state. A missing or empty backend state is
// not an error, the store just starts out empty.
func (s *Store) Load() error {
	urls, titles, err := s.backend.Load()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range urls {
		s.urls[u] = struct{}{}
	}
	for t, ts := range titles {
		s.titles[t] = ts
	}
	logger.Info("dedup state loaded", "urls", len(s.urls), "titles", len(s.titles))
	return nil
}

// Persist flushes both structures through the backend. Called once per
// fetch cycle and on shutdown, not per article.
func (s *Store) Persist() error {
	s.mu.Lock()
	urls := make([]string, 0, len(s.urls))
	for u := range s.urls {
		urls = append(urls, u)
	}
	titles := make(map[string]time.Time, len(s.titles))
	for t, ts := range s.titles {
		titles[t] = ts
	}
	s.mu.Unlock()

	return s.backend.Save(urls, titles)
}

// WasPosted reports whether a normalized URL has already been posted.
func (s *Store) WasPosted(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.urls[url]
	return ok
}

// MarkPosted records an accepted article. Call only after the full
// pipeline accepted it. Last write wins if the same normalized title
// recurs.
func (s *Store) MarkPosted(url, normalizedTitle string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.urls[url] = struct{}{}
	s.titles[normalizedTitle] = now
}

// IsDuplicateTitle reports whether rawTitle is near-identical (ratio at
// or above the threshold) to a title posted within the last 24 hours.
// Expired index entries are purged as a side effect.
func (s *Store) IsDuplicateTitle(rawTitle string, now time.Time) bool {
	key := normalize.Title(rawTitle)

	s.mu.Lock()
	defer s.mu.Unlock()

	// Everything surviving the purge is within the duplicate window.
	s.purgeLocked(now)

	for existing := range s.titles {
		if !similarity.Comparable(key, existing) {
			continue
		}
		if similarity.Ratio(key, existing) >= s.threshold {
			return true
		}
	}
	return false
}

// IsUpdateOf reports whether rawTitle falls in the update band against
// a title posted within the last 7 days: the same story evolving rather
// than a repost. Independent of IsDuplicateTitle.
func (s *Store) IsUpdateOf(rawTitle string, now time.Time) bool {
	key := normalize.Title(rawTitle)

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := now.Add(-UpdateWindow)
	for existing, postedAt := range s.titles {
		if postedAt.Before(cutoff) {
			continue
		}
		if !similarity.Comparable(key, existing) {
			continue
		}
		r := similarity.Ratio(key, existing)
		if r >= UpdateBandLow && r < UpdateBandHigh {
			return true
		}
	}
	return false
}

// Cleanup drops title entries older than the update window. The lazy
// purge in IsDuplicateTitle only covers the 24-hour window; this keeps
// the persisted index from growing without bound.
func (s *Store) Cleanup(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	cutoff := now.Add(-UpdateWindow)
	for t, ts := range s.titles {
		if ts.Before(cutoff) {
			delete(s.titles, t)
			removed++
		}
	}
	return removed
}

// purgeLocked removes title entries older than the duplicate window.
// Caller holds s.mu.
func (s *Store) purgeLocked(now time.Time) {
	cutoff := now.Add(-DuplicateWindow)
	for t, ts := range s.titles {
		if ts.Before(cutoff) {
			delete(s.titles, t)
		}
	}
}

// Stats returns counters for the monitoring endpoints.
func (s *Store) Stats() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return map[string]int{
		"posted_urls":   len(s.urls),
		"active_titles": len(s.titles),
	}
}
