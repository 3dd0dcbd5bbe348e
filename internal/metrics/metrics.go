package metrics

import (
	"sync"
	"time"
)

// Metrics tracks what each fetch cycle did. Exposed over /metrics when
// the monitoring server is enabled.
type Metrics struct {
	mu sync.RWMutex

	// Counters
	FeedFetches        int64
	EntriesSeen        int64
	DuplicateURLs      int64
	DuplicateTitles    int64
	UpdatesDetected    int64
	SummariesProduced  int64
	MessagesPosted     int64
	DeliveryFailures   int64
	PersistenceErrors  int64
	DateFallbacksUsed  int64

	// Timings
	LastCycleDuration time.Duration
	TotalCycleTime    time.Duration
	CycleCount        int64

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) IncrementFeedFetches() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FeedFetches++
}

func (m *Metrics) IncrementEntriesSeen() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EntriesSeen++
}

func (m *Metrics) IncrementDuplicateURLs() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicateURLs++
}

func (m *Metrics) IncrementDuplicateTitles() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicateTitles++
}

func (m *Metrics) IncrementUpdatesDetected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdatesDetected++
}

func (m *Metrics) IncrementSummariesProduced() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SummariesProduced++
}

func (m *Metrics) IncrementMessagesPosted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MessagesPosted++
}

func (m *Metrics) IncrementDeliveryFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeliveryFailures++
}

func (m *Metrics) IncrementPersistenceErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PersistenceErrors++
}

func (m *Metrics) IncrementDateFallbacks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DateFallbacksUsed++
}

func (m *Metrics) RecordCycle(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastCycleDuration = duration
	m.TotalCycleTime += duration
	m.CycleCount++
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var avg time.Duration
	if m.CycleCount > 0 {
		avg = m.TotalCycleTime / time.Duration(m.CycleCount)
	}

	return map[string]interface{}{
		"feed_fetches":           m.FeedFetches,
		"entries_seen":           m.EntriesSeen,
		"duplicate_urls":         m.DuplicateURLs,
		"duplicate_titles":       m.DuplicateTitles,
		"updates_detected":       m.UpdatesDetected,
		"summaries_produced":     m.SummariesProduced,
		"messages_posted":        m.MessagesPosted,
		"delivery_failures":      m.DeliveryFailures,
		"persistence_errors":     m.PersistenceErrors,
		"date_fallbacks_used":    m.DateFallbacksUsed,
		"last_cycle_ms":          m.LastCycleDuration.Milliseconds(),
		"average_cycle_ms":       avg.Milliseconds(),
		"cycles":                 m.CycleCount,
		"last_run_time":          m.LastRunTime.Format(time.RFC3339),
		"last_error_time":        m.LastErrorTime.Format(time.RFC3339),
		"last_error":             m.LastError,
		"is_healthy":             m.IsHealthy,
	}
}
