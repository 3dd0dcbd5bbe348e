package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("CHANNEL_ID", "123")
	t.Setenv("CONFIG_FILE", "nonexistent.yaml")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultFeedURL, cfg.FeedURL)
	assert.Equal(t, 300*time.Second, cfg.FetchInterval)
	assert.Equal(t, 0.85, cfg.SimilarityThreshold)
	assert.Equal(t, 2*time.Second, cfg.PostDelay)
	assert.True(t, cfg.SummarizationEnabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("CHANNEL_ID", "123")
	t.Setenv("CONFIG_FILE", "nonexistent.yaml")
	t.Setenv("FEED_URL", "https://example.com/feed.xml")
	t.Setenv("FETCH_INTERVAL_SECONDS", "60")
	t.Setenv("SIMILARITY_THRESHOLD", "0.9")
	t.Setenv("SUMMARIZATION_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/feed.xml", cfg.FeedURL)
	assert.Equal(t, 60*time.Second, cfg.FetchInterval)
	assert.Equal(t, 0.9, cfg.SimilarityThreshold)
	assert.False(t, cfg.SummarizationEnabled)
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("CHANNEL_ID", "123")
	t.Setenv("CONFIG_FILE", "nonexistent.yaml")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRequiresChannel(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("CHANNEL_ID", "")
	t.Setenv("CONFIG_FILE", "nonexistent.yaml")

	_, err := Load()
	assert.Error(t, err)
}

func TestInvalidThresholdFallsBackToDefault(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("CHANNEL_ID", "123")
	t.Setenv("CONFIG_FILE", "nonexistent.yaml")
	t.Setenv("SIMILARITY_THRESHOLD", "1.5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0.85, cfg.SimilarityThreshold)
}
