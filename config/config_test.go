package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3001, cfg.App.Port)
	assert.Equal(t, 10*time.Second, cfg.App.RequestTimeout)
	assert.Equal(t, 5, cfg.News.PageSize)
	assert.Equal(t, 5, cfg.Reddit.PageSize)
	assert.Equal(t, []string{"stocks", "investing", "SecurityAnalysis", "StockMarket", "wallstreetbets"}, cfg.Reddit.Subreddits)
	assert.Equal(t, "keyword", cfg.Sentiment.Scorer)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Cache.QuoteTTL)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("FINNHUB_API_KEY", "fh-key")
	t.Setenv("NEWS_PAGE_SIZE", "20")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	t.Setenv("REDDIT_SUBREDDITS", "stocks,options")
	t.Setenv("SENTIMENT_SCORER", "vader")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "fh-key", cfg.Finnhub.APIKey)
	assert.Equal(t, 20, cfg.News.PageSize)
	assert.Equal(t, 3*time.Second, cfg.App.RequestTimeout)
	assert.Equal(t, []string{"stocks", "options"}, cfg.Reddit.Subreddits)
	assert.Equal(t, "vader", cfg.Sentiment.Scorer)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"page size zero", "NEWS_PAGE_SIZE", "0"},
		{"page size too large", "REDDIT_PAGE_SIZE", "500"},
		{"unknown scorer", "SENTIMENT_SCORER", "bert"},
		{"unknown log level", "LOG_LEVEL", "trace"},
		{"negative timeout", "REQUEST_TIMEOUT", "-1s"},
		{"no concurrency", "SOCIAL_MAX_CONCURRENCY", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestRedditUsesOAuth(t *testing.T) {
	assert.False(t, RedditConfig{}.UsesOAuth())
	assert.False(t, RedditConfig{ClientID: "id"}.UsesOAuth())
	assert.True(t, RedditConfig{ClientID: "id", ClientSecret: "secret"}.UsesOAuth())
}

func TestSummarizerActive(t *testing.T) {
	assert.False(t, SummarizerConfig{Enabled: true}.Active())
	assert.False(t, SummarizerConfig{APIKey: "sk"}.Active())
	assert.True(t, SummarizerConfig{Enabled: true, APIKey: "sk"}.Active())
}
