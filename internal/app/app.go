// Package app wires configuration, upstream clients and adapters into the
// pieces both binaries need.
package app

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/spacesedan/tickerpulse/config"
	"github.com/spacesedan/tickerpulse/internal/aggregator"
	"github.com/spacesedan/tickerpulse/internal/api"
	"github.com/spacesedan/tickerpulse/internal/clients"
	"github.com/spacesedan/tickerpulse/internal/monitoring"
	"github.com/spacesedan/tickerpulse/internal/processing"
	"github.com/spacesedan/tickerpulse/internal/sentiment"
)

type App struct {
	Config       *config.Config
	Finnhub      *clients.FinnhubClient
	Quotes       *processing.QuoteAdapter
	News         *processing.NewsAdapter
	Social       *processing.SocialAdapter
	Orchestrator *aggregator.Orchestrator
	Health       *api.HealthReporter

	openai            *clients.OpenAIClient
	valkey            *clients.ValkeyClient
	summarizerHealthy *atomic.Bool
}

// New builds every component from cfg. A cache that cannot be reached is
// logged and skipped.
func New(cfg *config.Config) *App {
	httpClient := &http.Client{Timeout: cfg.App.RequestTimeout}

	a := &App{
		Config:            cfg,
		Finnhub:           clients.NewFinnhubClient(cfg.Finnhub, httpClient),
		summarizerHealthy: &atomic.Bool{},
	}
	a.summarizerHealthy.Store(true)

	var cache processing.Cache
	if cfg.Cache.Enabled {
		vc, err := clients.NewValkeyClient(cfg.Cache)
		if err != nil {
			slog.Warn("[App] Cache unavailable, continuing without it", slog.String("error", err.Error()))
		} else {
			a.valkey = vc
			cache = vc
		}
	}

	var summarizer processing.Summarizer
	if cfg.Summarizer.Active() {
		a.openai = clients.NewOpenAIClient(cfg.Summarizer)
		summarizer = a.openai
	} else {
		slog.Info("[App] Summaries disabled")
	}

	newsClient := clients.NewNewsAPIClient(cfg.News, httpClient)
	redditClient := clients.NewRedditClient(cfg.Reddit, httpClient)

	a.Quotes = processing.NewQuoteAdapter(a.Finnhub, processing.NewSynthesizer(), cache, cfg.Cache.QuoteTTL)
	a.News = processing.NewNewsAdapter(newsClient, summarizer, cache, processing.NewsAdapterConfig{
		PageSize:       cfg.News.PageSize,
		MaxSummaries:   cfg.Summarizer.MaxConcurrency,
		CacheTTL:       cfg.Cache.NewsTTL,
		SummarizerLive: a.summarizerHealthy.Load,
	})
	a.Social = processing.NewSocialAdapter(redditClient, sentiment.New(cfg.Sentiment.Scorer), summarizer, processing.SocialAdapterConfig{
		Subreddits:     cfg.Reddit.Subreddits,
		PageSize:       cfg.Reddit.PageSize,
		MaxConcurrency: cfg.Reddit.MaxConcurrency,
		MaxSummaries:   cfg.Summarizer.MaxConcurrency,
		SummarizerLive: a.summarizerHealthy.Load,
	})
	a.Orchestrator = aggregator.NewOrchestrator(a.Quotes, a.News, a.Social, a.Finnhub)

	a.Health = &api.HealthReporter{
		FinnhubConfigured:    a.Finnhub.Configured(),
		NewsConfigured:       newsClient.Configured(),
		RedditOAuth:          cfg.Reddit.UsesOAuth(),
		SummarizerConfigured: a.openai != nil,
		SummarizerHealthy:    a.summarizerHealthy,
	}
	if a.valkey != nil {
		a.Health.Cache = a.valkey
	}

	slog.Info("[App] Components ready",
		slog.Bool("finnhub", a.Finnhub.Configured()),
		slog.Bool("news", newsClient.Configured()),
		slog.Bool("redditOAuth", cfg.Reddit.UsesOAuth()),
		slog.Bool("summaries", a.openai != nil),
		slog.Bool("cache", a.valkey != nil),
		slog.String("scorer", cfg.Sentiment.Scorer))
	return a
}

// Start launches background monitors. They stop with ctx.
func (a *App) Start(ctx context.Context) {
	if a.openai != nil {
		go monitoring.MonitorSummarizerHealth(ctx, a.openai, a.summarizerHealthy, monitoring.HEALTHCHECK_INTERVAL)
	}
}

// Handler returns the HTTP API for the wired components.
func (a *App) Handler() http.Handler {
	return api.NewHandler(api.HandlerConfig{
		Series:         a.Quotes,
		News:           a.News,
		Social:         a.Social,
		Symbols:        a.Finnhub,
		Bundles:        a.Orchestrator,
		Health:         a.Health,
		RequestTimeout: a.Config.App.RequestTimeout,
	}).Routes()
}

func (a *App) Close() {
	if a.valkey != nil {
		a.valkey.Close()
	}
}
