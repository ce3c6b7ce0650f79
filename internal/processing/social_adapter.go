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
	"github.com/spacesedan/tickerpulse/internal/sentiment"
	"github.com/spacesedan/tickerpulse/internal/utils"
)

const (
	REDDIT_WEB_URL     = "https://www.reddit.com"
	DESCRIPTION_RUNES  = 200
	SOCIAL_BLOCKED_MSG = "Reddit is blocking requests right now (403). Social data is temporarily unavailable."
	SOCIAL_OFFLINE_MSG = "Social sources are unavailable right now. Try again shortly."
	PLATFORM_REDDIT    = "reddit"
)

// DefaultSubreddits are the communities searched when none are configured.
var DefaultSubreddits = []string{"stocks", "investing", "SecurityAnalysis", "StockMarket", "wallstreetbets"}

type SubredditSearcher interface {
	SearchSubreddit(ctx context.Context, subreddit, term, timeFilter string, limit int) ([]models.RedditAPIChildData, error)
}

type SocialAdapterConfig struct {
	Subreddits     []string
	PageSize       int
	MaxConcurrency int
	MaxSummaries   int
	SummarizerLive func() bool
}

// SocialAdapter searches every configured subreddit and scores the posts.
type SocialAdapter struct {
	reddit     SubredditSearcher
	scorer     sentiment.Scorer
	summarizer Summarizer
	cfg        SocialAdapterConfig
}

// NewSocialAdapter builds the adapter. summarizer may be nil.
func NewSocialAdapter(reddit SubredditSearcher, scorer sentiment.Scorer, summarizer Summarizer, cfg SocialAdapterConfig) *SocialAdapter {
	if len(cfg.Subreddits) == 0 {
		cfg.Subreddits = DefaultSubreddits
	}
	if cfg.PageSize < 1 {
		cfg.PageSize = 5
	}
	if cfg.MaxSummaries < 1 {
		cfg.MaxSummaries = 1
	}
	if scorer == nil {
		scorer = sentiment.KeywordScorer{}
	}
	return &SocialAdapter{reddit: reddit, scorer: scorer, summarizer: summarizer, cfg: cfg}
}

// FetchPosts returns SocialOK with up to MAX_ITEMS posts, or SocialBlocked
// when no subreddit could be read. The only error is a cancelled context.
func (a *SocialAdapter) FetchPosts(ctx context.Context, term string, window models.Window) (models.SocialResult, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, errs.InvalidInput("search term is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	timeFilter := window.RedditTimeFilter()
	outcomes := AttemptEach(ctx, a.cfg.Subreddits, a.cfg.MaxConcurrency,
		func(ctx context.Context, subreddit string) ([]models.RedditAPIChildData, error) {
			return a.reddit.SearchSubreddit(ctx, subreddit, term, timeFilter, a.cfg.PageSize)
		})

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		posts     []models.SocialPost
		failed    int
		forbidden int
	)
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			if errs.IsBlocked(o.Err) {
				forbidden++
			}
			slog.Warn("[SocialAdapter] Subreddit failed",
				slog.String("subreddit", o.Source),
				slog.String("error", o.Err.Error()))
			continue
		}
		for _, child := range o.Value {
			if post, ok := a.toSocialPost(o.Source, child); ok {
				posts = append(posts, post)
			}
		}
	}

	if failed == len(outcomes) {
		msg := SOCIAL_OFFLINE_MSG
		if forbidden == failed {
			msg = SOCIAL_BLOCKED_MSG
		}
		slog.Warn("[SocialAdapter] Every subreddit failed",
			slog.String("term", term),
			slog.Int("forbidden", forbidden))
		return models.SocialBlocked{Message: msg}, nil
	}

	posts = NormalizePosts(posts)
	a.summarize(ctx, posts)

	slog.Info("[SocialAdapter] Collected posts",
		slog.String("term", term),
		slog.Int("failedSources", failed),
		slog.Int("posts", len(posts)))
	return models.SocialOK{Posts: posts}, nil
}

// NormalizePosts keeps the first post per exact text, sorts newest first
// and caps the list.
func NormalizePosts(posts []models.SocialPost) []models.SocialPost {
	posts = utils.UniqueBy(posts, func(p models.SocialPost) string { return p.Text })
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	out := utils.Truncate(posts, MAX_ITEMS)
	if out == nil {
		return []models.SocialPost{}
	}
	return out
}

func isRemoved(s string) bool {
	return s == "[removed]" || s == "[deleted]"
}

// Usable reports whether a listing entry should be shown at all.
func Usable(d models.RedditAPIChildData) bool {
	if strings.TrimSpace(d.Title) == "" || d.Over18 {
		return false
	}
	if isRemoved(d.Selftext) || isRemoved(d.Author) {
		return false
	}
	return d.RemovedByCategory == nil || *d.RemovedByCategory == ""
}

// AbsoluteURL prefixes site-relative permalinks with the Reddit host.
func AbsoluteURL(link string) string {
	if link == "" || strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
		return link
	}
	if !strings.HasPrefix(link, "/") {
		link = "/" + link
	}
	return REDDIT_WEB_URL + link
}

func (a *SocialAdapter) toSocialPost(subreddit string, d models.RedditAPIChildData) (models.SocialPost, bool) {
	if !Usable(d) {
		return models.SocialPost{}, false
	}
	if d.Subreddit != "" {
		subreddit = d.Subreddit
	}

	body := sentiment.ConvertMarkdownToText(d.Selftext)
	score := sentiment.Clamp(a.scorer.Score(d.Title + " " + body))

	link := d.Permalink
	if link == "" {
		link = d.URL
	}

	return models.SocialPost{
		ID:             d.ID,
		Text:           d.Title,
		Description:    truncateRunes(body, DESCRIPTION_RUNES),
		Author:         d.Author,
		Source:         "r/" + subreddit,
		CreatedAt:      time.Unix(int64(d.CreatedUTC), 0).UTC(),
		URL:            AbsoluteURL(link),
		Score:          d.Score,
		Platform:       PLATFORM_REDDIT,
		Sentiment:      score,
		SentimentLabel: sentiment.Label(score),
	}, true
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func (a *SocialAdapter) summarize(ctx context.Context, posts []models.SocialPost) {
	if a.summarizer == nil || len(posts) == 0 {
		return
	}
	if a.cfg.SummarizerLive != nil && !a.cfg.SummarizerLive() {
		return
	}
	p := pool.New().WithMaxGoroutines(a.cfg.MaxSummaries)
	for i := range posts {
		p.Go(func() {
			content := fmt.Sprintf("Title: %s\n\nContent: %s", posts[i].Text, posts[i].Description)
			summary, err := a.summarizer.Summarize(ctx, content, models.SummarySocial)
			if err != nil {
				return
			}
			posts[i].Summary = summary
		})
	}
	p.Wait()
}
