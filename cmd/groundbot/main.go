package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"groundbot/internal/app"
	"groundbot/internal/config"
	"groundbot/internal/dedup"
	"groundbot/internal/discord"
	"groundbot/internal/feed"
	"groundbot/internal/logger"
	"groundbot/internal/metrics"
	"groundbot/internal/retry"
	"groundbot/internal/scraper"
	"groundbot/internal/settings"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

func main() {
	// .env is optional; real environments set vars directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		// The only fatal path: unusable startup configuration.
		logger.Init(false, "")
		logger.Error("configuration error", "error", err)
		os.Exit(1)
	}

	logger.Init(cfg.Debug, cfg.LogFile)

	user, err := settings.Load(cfg.SettingsFile)
	if err != nil {
		logger.Error("failed to load user settings", "error", err)
		os.Exit(1)
	}
	logger.Info("settings loaded", "name", user.Name, "timezone", user.Timezone)

	var backend dedup.Backend
	if cfg.DatabaseURL != "" {
		pg, err := dedup.NewPostgresBackend(cfg.DatabaseURL)
		if err != nil {
			logger.Error("postgres backend unavailable", "error", err)
			os.Exit(1)
		}
		defer pg.Close()
		backend = pg
	} else {
		backend = dedup.NewFileBackend(cfg.StateDir)
	}

	store := dedup.NewStore(backend, cfg.SimilarityThreshold)
	if err := store.Load(); err != nil {
		// Start empty rather than refuse to run; re-posting is bounded
		// by the feed's own window.
		logger.Error("failed to load dedup state, starting empty", "error", err)
	}

	retryCfg := retry.Config{
		MaxAttempts: cfg.RetryAttempts,
		Delay:       cfg.RetryDelay,
		Backoff:     true,
	}
	notifier, err := discord.New(cfg.DiscordToken, cfg.ChannelID, retryCfg)
	if err != nil {
		logger.Error("discord connection failed", "error", err)
		os.Exit(1)
	}
	defer notifier.Close()

	bot := app.New(cfg,
		store,
		feed.NewFetcher(cfg.RequestTimeout, userAgent),
		scraper.New(cfg.RequestTimeout),
		notifier,
		user,
	)

	if os.Getenv("ENABLE_HTTP_MONITORING") == "true" {
		go startMonitoringServer(store)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bot.Run(ctx)

	if err := store.Persist(); err != nil {
		logger.Error("final persist failed", "error", err)
	}
	logger.Info("shutdown complete")
}

func startMonitoringServer(store *dedup.Store) {
	port := os.Getenv("MONITORING_PORT")
	if port == "" {
		port = "8080"
	}

	http.HandleFunc("/health", healthHandler)
	http.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		stats := metrics.Global.GetStats()
		stats["store"] = store.Stats()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(stats)
	})

	logger.Info("starting monitoring server", "port", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		logger.Error("monitoring server error", "error", err)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	stats := metrics.Global.GetStats()

	status := "ok"
	if !stats["is_healthy"].(bool) {
		status = "error"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	response := map[string]interface{}{
		"status":     status,
		"last_run":   stats["last_run_time"],
		"last_error": stats["last_error"],
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
