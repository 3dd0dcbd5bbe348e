// Package app wires the pipeline together and drives the fetch cycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"groundbot/internal/config"
	"groundbot/internal/dates"
	"groundbot/internal/dedup"
	"groundbot/internal/discord"
	"groundbot/internal/feed"
	"groundbot/internal/logger"
	"groundbot/internal/metrics"
	"groundbot/internal/normalize"
	"groundbot/internal/ratelimit"
	"groundbot/internal/scraper"
	"groundbot/internal/settings"
	"groundbot/internal/summarize"
)

// FeedSource pulls entries from the monitored feed.
type FeedSource interface {
	Fetch(ctx context.Context, url string) ([]feed.Entry, error)
}

// PageFetcher retrieves an article's own page for timestamp and body
// extraction.
type PageFetcher interface {
	Fetch(url string) (*scraper.PageData, error)
}

// Notifier delivers a formatted message to the destination channel.
type Notifier interface {
	Send(ctx context.Context, content string) error
}

// errDailyCapReached stops the current cycle's posting without being
// treated as a failure.
var errDailyCapReached = errors.New("daily post cap reached")

type App struct {
	cfg        *config.Config
	store      *dedup.Store
	feeds      FeedSource
	pages      PageFetcher
	notifier   Notifier
	summarizer *summarize.Summarizer
	limiter    *ratelimit.PostLimiter
	user       *settings.UserSettings
	loc        *time.Location
	now        func() time.Time
}

func New(cfg *config.Config, store *dedup.Store, feeds FeedSource, pages PageFetcher,
	notifier Notifier, user *settings.UserSettings) *App {
	return &App{
		cfg:        cfg,
		store:      store,
		feeds:      feeds,
		pages:      pages,
		notifier:   notifier,
		summarizer: summarize.New(),
		limiter:    ratelimit.NewPostLimiter(cfg.PostDelay, cfg.MaxPostsPerDay),
		user:       user,
		loc:        user.Location(),
		now:        time.Now,
	}
}

// Run drives fetch cycles until ctx is cancelled. A failed cycle is
// logged, cooled down and retried; the process never exits from here.
func (a *App) Run(ctx context.Context) {
	if n, ok := a.notifier.(*discord.Client); ok {
		n.Announce(ctx, "📰 **Ground News Bot Activated!** Monitoring news feed...")
	}

	stopCleanup := a.scheduleCleanup()
	defer stopCleanup()

	for {
		start := a.now()
		err := a.runCycle(ctx)
		metrics.Global.RecordCycle(time.Since(start))

		if err := a.store.Persist(); err != nil {
			// In-memory state stays authoritative until the next flush.
			metrics.Global.IncrementPersistenceErrors()
			logger.Error("failed to persist dedup state", "error", err)
		}

		wait := a.cfg.FetchInterval
		if err != nil {
			metrics.Global.SetError(err.Error())
			logger.Error("cycle failed, cooling down", "error", err, "cooldown", a.cfg.ErrorCooldown)
			wait = a.cfg.ErrorCooldown
		} else {
			logger.Info("cycle complete, sleeping", "interval", wait)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

// runCycle performs one fetch-process-post pass over the feed.
func (a *App) runCycle(ctx context.Context) (err error) {
	defer func() {
		// A panic anywhere in the cycle becomes a cooldown, not a crash.
		if r := recover(); r != nil {
			err = fmt.Errorf("cycle panic: %v", r)
		}
	}()

	logger.Info("starting news feed check", "feed", a.cfg.FeedURL)
	metrics.Global.IncrementFeedFetches()

	entries, err := a.feeds.Fetch(ctx, a.cfg.FeedURL)
	if err != nil {
		// Transient: no data this round.
		logger.Warn("feed fetch failed", "error", err)
		return nil
	}
	if len(entries) == 0 {
		logger.Warn("empty feed")
		return nil
	}
	logger.Info("feed fetched", "entries", len(entries))

	posted := 0
	for _, entry := range entries {
		if ctx.Err() != nil {
			return nil
		}

		didPost, perr := a.processEntry(ctx, entry)
		if errors.Is(perr, errDailyCapReached) {
			logger.Warn("stopping cycle early", "reason", perr)
			break
		}
		if perr != nil {
			logger.Error("entry not posted", "title", entry.Title, "error", perr)
			continue
		}
		if didPost {
			posted++
			a.limiter.Pause(ctx)
		}
	}

	logger.Info("cycle posted", "count", posted)
	return nil
}

// processEntry runs one feed entry through the pipeline. Returns true
// when a message was delivered and the article recorded.
func (a *App) processEntry(ctx context.Context, entry feed.Entry) (bool, error) {
	metrics.Global.IncrementEntriesSeen()

	if entry.Link == "" {
		logger.Warn("entry missing link", "title", entry.Title)
		return false, nil
	}

	urlKey := normalize.URL(entry.Link)
	if a.store.WasPosted(urlKey) {
		// Short-circuits before similarity or summarization run.
		metrics.Global.IncrementDuplicateURLs()
		logger.Debug("skipping duplicate url", "title", entry.Title)
		return false, nil
	}

	now := a.now()

	// The update check consults the full 7-day index, so it must run
	// before the duplicate check prunes entries older than 24 hours.
	isUpdate := a.store.IsUpdateOf(entry.Title, now)
	if a.store.IsDuplicateTitle(entry.Title, now) {
		metrics.Global.IncrementDuplicateTitles()
		logger.Debug("skipping similar title", "title", entry.Title)
		return false, nil
	}
	if isUpdate {
		metrics.Global.IncrementUpdatesDetected()
	}

	// Best effort page visit; everything it yields has a feed fallback.
	var page *scraper.PageData
	if p, err := a.pages.Fetch(urlKey); err != nil {
		logger.Debug("article page unavailable", "url", urlKey, "error", err)
	} else {
		page = p
	}

	pageStamp := ""
	body := entry.Description
	if page != nil {
		pageStamp = page.PublishedRaw
		if page.Body != "" {
			body = page.Body
		}
	}

	resolved := dates.ResolvePublishTime([]dates.Candidate{
		{Source: "page", Raw: pageStamp},
		{Source: "published", Raw: entry.Published},
		{Source: "updated", Raw: entry.Updated},
	}, now)
	if !resolved.Parsed {
		metrics.Global.IncrementDateFallbacks()
	}

	synopsis := a.buildSynopsis(body)

	if !a.limiter.Allow() {
		return false, errDailyCapReached
	}

	msg := formatMessage(entry.Title, urlKey, dates.RenderLocal(resolved, a.loc), synopsis, isUpdate)
	err := a.notifier.Send(ctx, msg)
	if errors.Is(err, discord.ErrMessageTooLong) {
		err = a.notifier.Send(ctx, formatMinimalMessage(entry.Title, urlKey, isUpdate))
	}
	if err != nil {
		metrics.Global.IncrementDeliveryFailures()
		return false, fmt.Errorf("delivery failed: %w", err)
	}

	a.store.MarkPosted(urlKey, normalize.Title(entry.Title), now)
	a.limiter.RecordPost()
	metrics.Global.IncrementMessagesPosted()
	logger.Info("posted", "title", entry.Title, "update", isUpdate, "published", resolved.Source)
	return true, nil
}

// buildSynopsis summarizes the body when it is long enough and the
// summary is actually worth it, otherwise plain truncation.
func (a *App) buildSynopsis(body string) string {
	if body == "" {
		return ""
	}

	if a.cfg.SummarizationEnabled && summarize.WordCount(body) >= 50 {
		s := a.summarizer.Summarize(body, a.cfg.SummarySentences)
		if s != "" && float64(len(s)) < 0.7*float64(len(body)) {
			metrics.Global.IncrementSummariesProduced()
			return truncateAtSentence(s, maxSynopsisLength)
		}
	}
	return truncateAtSentence(body, maxSynopsisLength)
}

// scheduleCleanup installs the daily maintenance job: prune the title
// index, flush state, log stats. Runs in the user's timezone.
func (a *App) scheduleCleanup() func() {
	c := cron.New(cron.WithLocation(a.loc))

	spec := cronSpec(a.cfg.CleanupSchedule)
	_, err := c.AddFunc(spec, func() {
		removed := a.store.Cleanup(a.now())
		if err := a.store.Persist(); err != nil {
			metrics.Global.IncrementPersistenceErrors()
			logger.Error("cleanup persist failed", "error", err)
		}
		logger.Info("daily cleanup", "titles_removed", removed,
			"store", a.store.Stats(), "limiter", a.limiter.Stats())
	})
	if err != nil {
		logger.Warn("cleanup schedule invalid, maintenance disabled",
			"schedule", a.cfg.CleanupSchedule, "error", err)
		return func() {}
	}

	c.Start()
	return func() { c.Stop() }
}

// cronSpec turns "HH:MM" into a daily cron expression.
func cronSpec(hhmm string) string {
	var h, m int
	if _, err := fmt.Sscanf(hhmm, "%d:%d", &h, &m); err != nil || h > 23 || m > 59 {
		h, m = 4, 0
	}
	return fmt.Sprintf("%d %d * * *", m, h)
}
