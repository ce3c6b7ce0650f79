package processing

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/spacesedan/tickerpulse/internal/errs"
	"github.com/spacesedan/tickerpulse/internal/models"
	"github.com/spacesedan/tickerpulse/internal/utils"
)

// MAX_ITEMS caps articles and posts returned per request.
const MAX_ITEMS = 10

type NewsSearcher interface {
	Configured() bool
	SearchEverything(ctx context.Context, query models.NewsQuery) ([]models.NewsAPIArticle, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, content string, kind models.SummaryKind) (string, error)
}

type NewsAdapterConfig struct {
	PageSize       int
	MaxSummaries   int
	CacheTTL       time.Duration
	SummarizerLive func() bool
}

// NewsAdapter collects articles over several query variants of a term.
type NewsAdapter struct {
	news       NewsSearcher
	summarizer Summarizer
	cache      Cache
	cfg        NewsAdapterConfig
	now        func() time.Time
}

// NewNewsAdapter builds the adapter. summarizer and cache may be nil.
func NewNewsAdapter(news NewsSearcher, summarizer Summarizer, cache Cache, cfg NewsAdapterConfig) *NewsAdapter {
	if cfg.MaxSummaries < 1 {
		cfg.MaxSummaries = 1
	}
	return &NewsAdapter{news: news, summarizer: summarizer, cache: cache, cfg: cfg, now: time.Now}
}

// NewsQueries returns the query variants for term, most specific first.
func NewsQueries(term string) []string {
	return []string{
		term + " stock",
		term + " earnings",
		term + " news",
		term,
	}
}

// FetchNews returns up to MAX_ITEMS unique articles, newest first. Only a
// configuration problem is reported as an error; provider failures shrink
// the result instead.
func (a *NewsAdapter) FetchNews(ctx context.Context, term string, window models.Window) ([]models.NewsArticle, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, errs.InvalidInput("search term is required")
	}
	if !a.news.Configured() {
		return nil, errs.Config("newsapi", "News API key not configured")
	}

	key := fmt.Sprintf("news:%s:%s", window, strings.ToLower(term))
	return cached(ctx, a.cache, "news", key, a.cfg.CacheTTL, func() ([]models.NewsArticle, bool, error) {
		return a.collect(ctx, term, window)
	})
}

// collect runs the query variants. complete is false when any variant
// failed, so a result shrunk by an outage is not cached.
func (a *NewsAdapter) collect(ctx context.Context, term string, window models.Window) (articles []models.NewsArticle, complete bool, err error) {
	from := a.now().Add(-window.Duration())
	accumulated := 0

	outcomes := AttemptInOrder(ctx, NewsQueries(term),
		func(ctx context.Context, q string) ([]models.NewsAPIArticle, error) {
			return a.news.SearchEverything(ctx, models.NewsQuery{Q: q, From: from, PageSize: a.cfg.PageSize})
		},
		func(settled []Outcome[[]models.NewsAPIArticle]) bool {
			last := settled[len(settled)-1]
			if last.Err != nil {
				kind := errs.KindOf(last.Err)
				return kind == errs.KindRateLimit || kind == errs.KindConfig
			}
			for _, r := range last.Value {
				if usableArticle(r) {
					accumulated++
				}
			}
			return accumulated >= MAX_ITEMS
		})

	var raw []models.NewsAPIArticle
	complete = true
	for _, o := range outcomes {
		if o.Err != nil {
			complete = false
			slog.Warn("[NewsAdapter] Query failed",
				slog.String("query", o.Source),
				slog.String("error", o.Err.Error()))
			if errs.KindOf(o.Err) == errs.KindConfig {
				return nil, false, o.Err
			}
			continue
		}
		raw = append(raw, o.Value...)
	}

	if ctx.Err() != nil {
		complete = false
	}

	articles = NormalizeArticles(raw)
	a.summarize(ctx, articles)

	slog.Info("[NewsAdapter] Collected articles",
		slog.String("term", term),
		slog.Int("queries", len(outcomes)),
		slog.Int("articles", len(articles)),
		slog.Bool("complete", complete))
	return articles, complete, nil
}

// usableArticle reports whether r has the title and description the
// dashboard shows.
func usableArticle(r models.NewsAPIArticle) bool {
	return strings.TrimSpace(r.Title) != "" && strings.TrimSpace(r.Description) != ""
}

// NormalizeArticles drops incomplete entries, keeps the first article per
// exact title, sorts newest first and caps the list.
func NormalizeArticles(raw []models.NewsAPIArticle) []models.NewsArticle {
	articles := make([]models.NewsArticle, 0, len(raw))
	for _, r := range raw {
		if !usableArticle(r) {
			continue
		}
		published, err := time.Parse(time.RFC3339, r.PublishedAt)
		if err != nil {
			slog.Debug("[NewsAdapter] Unparseable publishedAt", slog.String("value", r.PublishedAt))
		}
		articles = append(articles, models.NewsArticle{
			Title:       r.Title,
			Description: r.Description,
			URL:         r.URL,
			PublishedAt: published,
			Source:      models.NewsSource{Name: r.Source.Name},
		})
	}

	articles = utils.UniqueBy(articles, func(a models.NewsArticle) string { return a.Title })
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublishedAt.After(articles[j].PublishedAt)
	})
	return utils.Truncate(articles, MAX_ITEMS)
}

func (a *NewsAdapter) summarizerLive() bool {
	if a.summarizer == nil {
		return false
	}
	return a.cfg.SummarizerLive == nil || a.cfg.SummarizerLive()
}

// summarize fills AISummary in place. Failures leave it empty.
func (a *NewsAdapter) summarize(ctx context.Context, articles []models.NewsArticle) {
	if !a.summarizerLive() || len(articles) == 0 {
		return
	}
	p := pool.New().WithMaxGoroutines(a.cfg.MaxSummaries)
	for i := range articles {
		p.Go(func() {
			content := fmt.Sprintf("Title: %s\n\nDescription: %s", articles[i].Title, articles[i].Description)
			summary, err := a.summarizer.Summarize(ctx, content, models.SummaryArticle)
			if err != nil {
				return
			}
			articles[i].AISummary = summary
		})
	}
	p.Wait()
}
