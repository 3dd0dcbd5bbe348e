package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Default Ground News feed monitored when FEED_URL is unset.
const DefaultFeedURL = "https://rss.app/feeds/SGUPMZoQI5Pc0x31.xml"

type Config struct {
	// Discord settings
	DiscordToken string
	ChannelID    string

	// Feed settings
	FeedURL       string
	FetchInterval time.Duration

	// Dedup settings
	SimilarityThreshold float64

	// Summarizer settings
	SummarizationEnabled bool
	SummarySentences     int

	// Delivery pacing
	PostDelay      time.Duration
	MaxPostsPerDay int // 0 = unlimited

	// Network
	RequestTimeout time.Duration
	RetryAttempts  int
	RetryDelay     time.Duration

	// Persistence
	StateDir     string
	DatabaseURL  string // non-empty selects the postgres backend
	SettingsFile string

	// Maintenance
	CleanupSchedule string // HH:MM, in the user's timezone

	// App settings
	Debug         bool
	LogFile       string
	ErrorCooldown time.Duration
}

// fileConfig is the optional config.yaml overlay; env vars still win.
type fileConfig struct {
	FeedURL   string `yaml:"feed_url"`
	ChannelID string `yaml:"channel_id"`
}

func Load() (*Config, error) {
	cfg := &Config{
		// Default values
		FeedURL:              DefaultFeedURL,
		FetchInterval:        300 * time.Second,
		SimilarityThreshold:  0.85,
		SummarizationEnabled: true,
		SummarySentences:     5,
		PostDelay:            2 * time.Second,
		RequestTimeout:       20 * time.Second,
		RetryAttempts:        3,
		RetryDelay:           5 * time.Second,
		StateDir:             ".",
		SettingsFile:         "user_settings.json",
		CleanupSchedule:      "04:00",
		LogFile:              "bot.log",
		ErrorCooldown:        60 * time.Second,
	}

	// Optional file overlay first, env wins below.
	if path := getEnvOrDefault("CONFIG_FILE", "config.yaml"); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			var fc fileConfig
			if err := yaml.Unmarshal(data, &fc); err != nil {
				return nil, fmt.Errorf("invalid %s: %w", path, err)
			}
			if fc.FeedURL != "" {
				cfg.FeedURL = fc.FeedURL
			}
			if fc.ChannelID != "" {
				cfg.ChannelID = fc.ChannelID
			}
		}
	}

	cfg.DiscordToken = os.Getenv("DISCORD_TOKEN")
	if v := os.Getenv("CHANNEL_ID"); v != "" {
		cfg.ChannelID = v
	}
	if v := os.Getenv("FEED_URL"); v != "" {
		cfg.FeedURL = v
	}

	cfg.FetchInterval = time.Duration(getEnvIntOrDefault("FETCH_INTERVAL_SECONDS", 300)) * time.Second
	cfg.PostDelay = time.Duration(getEnvIntOrDefault("POST_DELAY_SECONDS", 2)) * time.Second
	cfg.RequestTimeout = time.Duration(getEnvIntOrDefault("REQUEST_TIMEOUT_SECONDS", 20)) * time.Second
	cfg.MaxPostsPerDay = getEnvIntOrDefault("MAX_POSTS_PER_DAY", 0)
	cfg.SummarySentences = getEnvIntOrDefault("SUMMARY_SENTENCES", 5)

	if v := os.Getenv("SIMILARITY_THRESHOLD"); v != "" {
		if val, err := strconv.ParseFloat(v, 64); err == nil && val >= 0 && val <= 1 {
			cfg.SimilarityThreshold = val
		}
	}
	if v := os.Getenv("SUMMARIZATION_ENABLED"); v != "" {
		cfg.SummarizationEnabled = v == "true" || v == "1"
	}

	cfg.StateDir = getEnvOrDefault("STATE_DIR", cfg.StateDir)
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.SettingsFile = getEnvOrDefault("SETTINGS_FILE", cfg.SettingsFile)
	cfg.CleanupSchedule = getEnvOrDefault("CLEANUP_SCHEDULE", cfg.CleanupSchedule)
	cfg.LogFile = getEnvOrDefault("LOG_FILE", cfg.LogFile)

	if os.Getenv("DEBUG") == "true" {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue >= 0 {
			return intValue
		}
	}
	return defaultValue
}

func (c *Config) Validate() error {
	if c.DiscordToken == "" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}
	if c.ChannelID == "" {
		return fmt.Errorf("CHANNEL_ID is required")
	}
	if c.FeedURL == "" {
		return fmt.Errorf("FEED_URL is required")
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("SIMILARITY_THRESHOLD must be in [0,1]")
	}
	return nil
}
