package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App        AppConfig
	Finnhub    FinnhubConfig
	News       NewsConfig
	Reddit     RedditConfig
	Summarizer SummarizerConfig
	Cache      CacheConfig
	Sentiment  SentimentConfig
}

type AppConfig struct {
	Env            string        `envconfig:"APP_ENV" default:"dev"`
	Port           int           `envconfig:"PORT" default:"3001"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s"`
}

// FinnhubConfig is the quote provider.
type FinnhubConfig struct {
	APIKey  string `envconfig:"FINNHUB_API_KEY"`
	BaseURL string `envconfig:"FINNHUB_BASE_URL" default:"https://finnhub.io/api/v1"`
}

type NewsConfig struct {
	APIKey            string `envconfig:"NEWS_API_KEY"`
	BaseURL           string `envconfig:"NEWS_API_BASE_URL" default:"https://newsapi.org/v2"`
	PageSize          int    `envconfig:"NEWS_PAGE_SIZE" default:"5"`
	RequestsPerMinute int    `envconfig:"NEWS_REQUESTS_PER_MINUTE" default:"60"`
}

type RedditConfig struct {
	ClientID          string   `envconfig:"REDDIT_CLIENT_ID"`
	ClientSecret      string   `envconfig:"REDDIT_CLIENT_SECRET"`
	PageSize          int      `envconfig:"REDDIT_PAGE_SIZE" default:"5"`
	RequestsPerMinute int      `envconfig:"REDDIT_REQUESTS_PER_MINUTE" default:"60"`
	MaxConcurrency    int      `envconfig:"SOCIAL_MAX_CONCURRENCY" default:"3"`
	Subreddits        []string `envconfig:"REDDIT_SUBREDDITS" default:"stocks,investing,SecurityAnalysis,StockMarket,wallstreetbets"`
	// BaseURL overrides the API host; empty picks the public or OAuth host.
	BaseURL  string `envconfig:"REDDIT_BASE_URL"`
	TokenURL string `envconfig:"REDDIT_TOKEN_URL" default:"https://www.reddit.com/api/v1/access_token"`
}

// UsesOAuth reports whether application credentials were supplied. Without
// them the public JSON endpoints are used.
func (c RedditConfig) UsesOAuth() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

type SummarizerConfig struct {
	Enabled        bool          `envconfig:"SUMMARIZER_ENABLED" default:"true"`
	APIKey         string        `envconfig:"OPENAI_API_KEY"`
	Model          string        `envconfig:"OPENAI_MODEL" default:"gpt-3.5-turbo"`
	MaxConcurrency int           `envconfig:"SUMMARIZER_MAX_CONCURRENCY" default:"4"`
	Timeout        time.Duration `envconfig:"SUMMARIZER_TIMEOUT" default:"20s"`
}

// Active reports whether summaries should be requested at all.
func (c SummarizerConfig) Active() bool {
	return c.Enabled && c.APIKey != ""
}

type CacheConfig struct {
	Enabled  bool          `envconfig:"CACHE_ENABLED" default:"false"`
	Address  string        `envconfig:"VALKEY_INIT_ADDRESS" default:"localhost:6379"`
	Password string        `envconfig:"VALKEY_PASSWORD"`
	TLS      bool          `envconfig:"VALKEY_TLS" default:"false"`
	QuoteTTL time.Duration `envconfig:"CACHE_QUOTE_TTL" default:"30s"`
	NewsTTL  time.Duration `envconfig:"CACHE_NEWS_TTL" default:"5m"`
}

type SentimentConfig struct {
	Scorer string `envconfig:"SENTIMENT_SCORER" default:"keyword"`
}

// Load populates Config from the environment. Call LoadEnv first to pull in
// an env file.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that envconfig cannot.
func (c *Config) Validate() error {
	if c.App.Port < 1 || c.App.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	if c.App.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.App.LogLevel] {
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error")
	}

	if c.News.PageSize < 1 || c.News.PageSize > 100 {
		return fmt.Errorf("NEWS_PAGE_SIZE must be between 1 and 100")
	}
	if c.Reddit.PageSize < 1 || c.Reddit.PageSize > 100 {
		return fmt.Errorf("REDDIT_PAGE_SIZE must be between 1 and 100")
	}
	if c.News.RequestsPerMinute < 1 || c.Reddit.RequestsPerMinute < 1 {
		return fmt.Errorf("requests per minute limits must be at least 1")
	}
	if c.Reddit.MaxConcurrency < 1 {
		return fmt.Errorf("SOCIAL_MAX_CONCURRENCY must be at least 1")
	}
	if len(c.Reddit.Subreddits) == 0 {
		return fmt.Errorf("REDDIT_SUBREDDITS must contain at least one subreddit")
	}

	if c.Summarizer.MaxConcurrency < 1 {
		return fmt.Errorf("SUMMARIZER_MAX_CONCURRENCY must be at least 1")
	}

	if c.Cache.Enabled && c.Cache.Address == "" {
		return fmt.Errorf("VALKEY_INIT_ADDRESS is required when the cache is enabled")
	}

	switch c.Sentiment.Scorer {
	case "keyword", "vader":
	default:
		return fmt.Errorf("SENTIMENT_SCORER must be one of: keyword, vader")
	}

	return nil
}
