package processing

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/tickerpulse/internal/errs"
	"github.com/spacesedan/tickerpulse/internal/models"
	"github.com/spacesedan/tickerpulse/internal/sentiment"
)

func socialAdapter(reddit SubredditSearcher, summarizer Summarizer) *SocialAdapter {
	return NewSocialAdapter(reddit, sentiment.KeywordScorer{}, summarizer, SocialAdapterConfig{
		Subreddits:     []string{"stocks", "investing", "wallstreetbets"},
		PageSize:       5,
		MaxConcurrency: 3,
		MaxSummaries:   2,
	})
}

func TestFetchPostsMergesAndDeduplicates(t *testing.T) {
	reddit := &fakeReddit{bySub: map[string][]models.RedditAPIChildData{
		"stocks": {
			redditPost("a", "stocks", "AAPL is going up, buy", "", 1000),
			redditPost("b", "stocks", "AAPL crash incoming", "sell sell", 3000),
		},
		"investing": {
			redditPost("c", "investing", "AAPL is going up, buy", "duplicate text", 2000),
		},
		"wallstreetbets": {
			redditPost("d", "wallstreetbets", "AAPL thoughts", "", 2500),
		},
	}}

	res, err := socialAdapter(reddit, nil).FetchPosts(context.Background(), "AAPL", models.Window7d)
	require.NoError(t, err)
	ok, isOK := res.(models.SocialOK)
	require.True(t, isOK)

	posts := ok.Posts
	require.Len(t, posts, 3)
	assert.Equal(t, "b", posts[0].ID, "newest first")
	assert.Equal(t, "d", posts[1].ID)
	assert.Equal(t, "a", posts[2].ID, "first occurrence of a duplicate text wins")

	assert.Equal(t, -1.0, posts[0].Sentiment)
	assert.Equal(t, "negative", posts[0].SentimentLabel)
	assert.Equal(t, 1.0, posts[2].Sentiment)
	assert.Equal(t, "positive", posts[2].SentimentLabel)
	assert.Equal(t, "r/stocks", posts[0].Source)
	assert.Equal(t, "reddit", posts[0].Platform)
	assert.Equal(t, "https://www.reddit.com/r/stocks/comments/b/", posts[0].URL)

	assert.Equal(t, "week", reddit.tf)
	assert.Equal(t, 5, reddit.limit)
}

func TestFetchPostsFiltersUnusable(t *testing.T) {
	removed := "moderator"
	nsfw := redditPost("n", "stocks", "nsfw", "", 1)
	nsfw.Over18 = true
	gone := redditPost("g", "stocks", "gone", "", 1)
	gone.RemovedByCategory = &removed
	deletedAuthor := redditPost("x", "stocks", "ghost", "", 1)
	deletedAuthor.Author = "[deleted]"

	reddit := &fakeReddit{bySub: map[string][]models.RedditAPIChildData{
		"stocks": {
			redditPost("e", "stocks", "", "no title", 1),
			redditPost("r", "stocks", "removed body", "[removed]", 1),
			nsfw, gone, deletedAuthor,
			redditPost("k", "stocks", "keeper", "", 1),
		},
	}}

	res, err := socialAdapter(reddit, nil).FetchPosts(context.Background(), "AAPL", models.Window24h)
	require.NoError(t, err)
	posts := res.Items()
	require.Len(t, posts, 1)
	assert.Equal(t, "k", posts[0].ID)
}

func TestFetchPostsAllForbiddenIsBlocked(t *testing.T) {
	forbidden := errs.FromStatus("reddit", http.StatusForbidden)
	reddit := &fakeReddit{errs: map[string]error{"stocks": forbidden, "investing": forbidden, "wallstreetbets": forbidden}}

	res, err := socialAdapter(reddit, nil).FetchPosts(context.Background(), "AAPL", models.Window7d)
	require.NoError(t, err)
	blocked, ok := res.(models.SocialBlocked)
	require.True(t, ok)
	assert.Equal(t, SOCIAL_BLOCKED_MSG, blocked.Message)
	assert.Empty(t, res.Items())
}

func TestFetchPostsAllFailedIsUnavailable(t *testing.T) {
	reddit := &fakeReddit{errs: map[string]error{
		"stocks":         errs.FromStatus("reddit", http.StatusForbidden),
		"investing":      errs.Upstream("reddit", 503, nil),
		"wallstreetbets": errors.New("dial tcp: timeout"),
	}}

	res, err := socialAdapter(reddit, nil).FetchPosts(context.Background(), "AAPL", models.Window7d)
	require.NoError(t, err)
	blocked, ok := res.(models.SocialBlocked)
	require.True(t, ok)
	assert.Equal(t, SOCIAL_OFFLINE_MSG, blocked.Message)
}

func TestFetchPostsPartialFailureIsOK(t *testing.T) {
	reddit := &fakeReddit{
		errs:  map[string]error{"stocks": errs.FromStatus("reddit", http.StatusForbidden)},
		bySub: map[string][]models.RedditAPIChildData{},
	}

	res, err := socialAdapter(reddit, nil).FetchPosts(context.Background(), "AAPL", models.Window7d)
	require.NoError(t, err)
	ok, isOK := res.(models.SocialOK)
	require.True(t, isOK)
	assert.Empty(t, ok.Items())
	assert.NotNil(t, ok.Items())
}

func TestFetchPostsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := socialAdapter(&fakeReddit{}, nil).FetchPosts(ctx, "AAPL", models.Window7d)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchPostsSummaries(t *testing.T) {
	reddit := &fakeReddit{bySub: map[string][]models.RedditAPIChildData{
		"stocks": {redditPost("a", "stocks", "AAPL talk", "body", 10)},
	}}
	summarizer := &fakeSummarizer{}

	res, err := socialAdapter(reddit, summarizer).FetchPosts(context.Background(), "AAPL", models.Window7d)
	require.NoError(t, err)
	require.Len(t, res.Items(), 1)
	assert.Equal(t, "social summary", res.Items()[0].Summary)
	assert.Equal(t, int32(1), summarizer.calls.Load())
}

func TestAbsoluteURL(t *testing.T) {
	assert.Equal(t, "https://www.reddit.com/r/x/comments/1/", AbsoluteURL("/r/x/comments/1/"))
	assert.Equal(t, "https://www.reddit.com/r/x/", AbsoluteURL("r/x/"))
	assert.Equal(t, "https://example.com/a", AbsoluteURL("https://example.com/a"))
	assert.Equal(t, "", AbsoluteURL(""))
}

func TestDescriptionIsTruncated(t *testing.T) {
	long := strings.Repeat("word ", 100)
	reddit := &fakeReddit{bySub: map[string][]models.RedditAPIChildData{
		"stocks": {redditPost("a", "stocks", "long one", long, 10)},
	}}

	res, err := socialAdapter(reddit, nil).FetchPosts(context.Background(), "AAPL", models.Window7d)
	require.NoError(t, err)
	desc := res.Items()[0].Description
	assert.True(t, strings.HasSuffix(desc, "..."))
	assert.Equal(t, DESCRIPTION_RUNES+3, len([]rune(desc)))
}
