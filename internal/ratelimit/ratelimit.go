package ratelimit

import (
	"context"
	"sync"
	"time"

	"groundbot/internal/logger"
)

// PostLimiter paces message delivery: a fixed pause after every posted
// article (the delivery side rate limit is real) and an optional daily
// cap with a rolling 24-hour reset.
type PostLimiter struct {
	mu        sync.Mutex
	delay     time.Duration
	maxPerDay int
	count     int
	resetTime time.Time
}

func NewPostLimiter(delay time.Duration, maxPerDay int) *PostLimiter {
	return &PostLimiter{
		delay:     delay,
		maxPerDay: maxPerDay,
		resetTime: time.Now().Add(24 * time.Hour),
	}
}

// Allow reports whether another post fits under the daily cap.
func (l *PostLimiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.checkReset()

	if l.maxPerDay > 0 && l.count >= l.maxPerDay {
		logger.Warn("daily post cap reached", "posted", l.count, "cap", l.maxPerDay)
		return false
	}
	return true
}

// RecordPost counts a delivered message.
func (l *PostLimiter) RecordPost() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.checkReset()
	l.count++
}

// Pause blocks for the inter-post delay, or less if ctx is cancelled.
func (l *PostLimiter) Pause(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(l.delay):
	}
}

func (l *PostLimiter) Stats() map[string]interface{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	return map[string]interface{}{
		"posted_today": l.count,
		"daily_cap":    l.maxPerDay,
		"reset_time":   l.resetTime,
	}
}

// checkReset rolls the counter when the 24-hour window lapses. Caller
// holds l.mu.
func (l *PostLimiter) checkReset() {
	if time.Now().After(l.resetTime) {
		logger.Info("resetting daily post counter", "posted", l.count)
		l.count = 0
		l.resetTime = time.Now().Add(24 * time.Hour)
	}
}
