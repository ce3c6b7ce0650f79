// Package aggregator fans a (term, window) request out to every source
// adapter and merges the settled results into one ResultBundle.
package aggregator

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"

	"github.com/spacesedan/tickerpulse/internal/errs"
	"github.com/spacesedan/tickerpulse/internal/logging"
	"github.com/spacesedan/tickerpulse/internal/models"
	"github.com/spacesedan/tickerpulse/internal/monitoring"
	"github.com/spacesedan/tickerpulse/internal/processing"
	"github.com/spacesedan/tickerpulse/internal/sentiment"
)

var tickerShape = regexp.MustCompile(`^[A-Za-z0-9.\-]{1,10}$`)

type SeriesFetcher interface {
	FetchSeries(ctx context.Context, symbol string, window models.Window) ([]models.StockPoint, error)
}

type NewsFetcher interface {
	FetchNews(ctx context.Context, term string, window models.Window) ([]models.NewsArticle, error)
}

type SocialFetcher interface {
	FetchPosts(ctx context.Context, term string, window models.Window) (models.SocialResult, error)
}

type SymbolResolver interface {
	SearchSymbols(ctx context.Context, query string) ([]models.SymbolMatch, error)
}

type Orchestrator struct {
	series   SeriesFetcher
	news     NewsFetcher
	social   SocialFetcher
	resolver SymbolResolver
	now      func() time.Time
}

// NewOrchestrator wires the adapters. resolver may be nil, in which case
// every term is used as its own symbol.
func NewOrchestrator(series SeriesFetcher, news NewsFetcher, social SocialFetcher, resolver SymbolResolver) *Orchestrator {
	return &Orchestrator{
		series:   series,
		news:     news,
		social:   social,
		resolver: resolver,
		now:      time.Now,
	}
}

// IsTickerShaped reports whether term can be sent to the quote provider as is.
func IsTickerShaped(term string) bool {
	return tickerShape.MatchString(strings.TrimSpace(term))
}

// ResolveSymbol maps a free-text term onto a ticker. Ticker-shaped terms
// are only normalized; anything else is looked up, preferring an exact
// symbol match. Lookup failures fall back to the normalized term.
func (o *Orchestrator) ResolveSymbol(ctx context.Context, term string) string {
	fallback := processing.NormalizeSymbol(term)
	if o.resolver == nil || IsTickerShaped(term) {
		return fallback
	}

	matches, err := o.resolver.SearchSymbols(ctx, term)
	if err != nil {
		logging.FromContext(ctx).Warn("[Orchestrator] Symbol lookup failed",
			slog.String("term", term),
			slog.String("error", err.Error()))
		return fallback
	}
	if len(matches) == 0 {
		return fallback
	}
	for _, m := range matches {
		if strings.EqualFold(m.Symbol, fallback) {
			return m.Symbol
		}
	}
	return matches[0].Symbol
}

// GetBundle always returns a bundle. A failed series sets bundle.Error;
// failed news or social data only leaves those parts empty.
func (o *Orchestrator) GetBundle(ctx context.Context, term string, window models.Window) models.ResultBundle {
	log := logging.FromContext(ctx)
	term = strings.TrimSpace(term)
	start := o.now()

	requestID := logging.RequestID(ctx)
	if requestID == "" {
		requestID = logging.NewRequestID()
	}

	bundle := models.ResultBundle{
		RequestID:   requestID,
		Term:        term,
		Window:      window,
		StockPoints: []models.StockPoint{},
		Articles:    []models.NewsArticle{},
		Posts:       []models.SocialPost{},
	}
	if term == "" {
		bundle.Error = bundleError(errs.InvalidInput("search term is required"))
		bundle.Timeline = []models.TimelinePoint{}
		bundle.GeneratedAt = o.now()
		return bundle
	}

	bundle.Symbol = o.ResolveSymbol(ctx, term)

	var (
		points    []models.StockPoint
		seriesErr error
		articles  []models.NewsArticle
		newsErr   error
		social    models.SocialResult
		socialErr error
	)

	var wg conc.WaitGroup
	wg.Go(func() {
		seriesErr = settle("stock", func() error {
			var err error
			points, err = o.series.FetchSeries(ctx, bundle.Symbol, window)
			return err
		})
	})
	wg.Go(func() {
		newsErr = settle("news", func() error {
			var err error
			articles, err = o.news.FetchNews(ctx, term, window)
			return err
		})
	})
	wg.Go(func() {
		socialErr = settle("social", func() error {
			var err error
			social, err = o.social.FetchPosts(ctx, term, window)
			return err
		})
	})
	wg.Wait()

	if seriesErr != nil {
		monitoring.ObserveDegraded("stock")
		log.Warn("[Orchestrator] Stock series unavailable",
			slog.String("symbol", bundle.Symbol),
			slog.String("error", seriesErr.Error()))
		bundle.Error = bundleError(seriesErr)
	} else if points != nil {
		bundle.StockPoints = points
	}

	if newsErr != nil {
		monitoring.ObserveDegraded("news")
		log.Warn("[Orchestrator] News unavailable",
			slog.String("term", term),
			slog.String("error", newsErr.Error()))
	} else if articles != nil {
		bundle.Articles = articles
	}

	switch res := social.(type) {
	case models.SocialOK:
		bundle.Posts = res.Items()
	case models.SocialBlocked:
		monitoring.ObserveDegraded("social")
		bundle.SocialBlocked = true
		log.Warn("[Orchestrator] Social sources blocked",
			slog.String("term", term),
			slog.String("message", res.Message))
	}
	if socialErr != nil {
		monitoring.ObserveDegraded("social")
		log.Warn("[Orchestrator] Social unavailable",
			slog.String("term", term),
			slog.String("error", socialErr.Error()))
	}

	bundle.Sentiment = sentiment.Summarize(bundle.Posts)
	bundle.Timeline = BuildTimeline(bundle.StockPoints, bundle.Articles, bundle.Posts)
	bundle.GeneratedAt = o.now()

	log.Info("[Orchestrator] Bundle built",
		slog.String("term", term),
		slog.String("symbol", bundle.Symbol),
		slog.String("window", string(window)),
		slog.Int("points", len(bundle.StockPoints)),
		slog.Int("articles", len(bundle.Articles)),
		slog.Int("posts", len(bundle.Posts)),
		slog.Duration("duration", bundle.GeneratedAt.Sub(start)))
	return bundle
}

// settle runs fn, turning a panic into an upstream error for component.
func settle(component string, fn func() error) (err error) {
	if r := panics.Try(func() { err = fn() }); r != nil {
		return errs.Upstream(component, 0, r.AsError())
	}
	return err
}

func bundleError(err error) *models.BundleError {
	return &models.BundleError{
		Kind:    string(errs.KindOf(err)),
		Message: errs.PublicMessage(err),
	}
}
