package processing

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spacesedan/tickerpulse/internal/models"
)

type fakeQuotes struct {
	quote  models.Quote
	err    error
	calls  atomic.Int32
	symbol string
}

func (f *fakeQuotes) GetQuote(_ context.Context, symbol string) (models.Quote, error) {
	f.calls.Add(1)
	f.symbol = symbol
	if f.err != nil {
		return models.Quote{}, f.err
	}
	q := f.quote
	q.Symbol = symbol
	return q, nil
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

type fakeNews struct {
	configured bool
	byQuery    map[string][]models.NewsAPIArticle
	errs       map[string]error

	mu      sync.Mutex
	queries []models.NewsQuery
}

func (f *fakeNews) Configured() bool { return f.configured }

func (f *fakeNews) SearchEverything(_ context.Context, q models.NewsQuery) ([]models.NewsAPIArticle, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()
	if err := f.errs[q.Q]; err != nil {
		return nil, err
	}
	return f.byQuery[q.Q], nil
}

func (f *fakeNews) issued() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.queries))
	for i, q := range f.queries {
		out[i] = q.Q
	}
	return out
}

type fakeReddit struct {
	bySub map[string][]models.RedditAPIChildData
	errs  map[string]error

	mu    sync.Mutex
	calls []string
	limit int
	tf    string
}

func (f *fakeReddit) SearchSubreddit(_ context.Context, subreddit, _ string, timeFilter string, limit int) ([]models.RedditAPIChildData, error) {
	f.mu.Lock()
	f.calls = append(f.calls, subreddit)
	f.limit = limit
	f.tf = timeFilter
	f.mu.Unlock()
	if err := f.errs[subreddit]; err != nil {
		return nil, err
	}
	return f.bySub[subreddit], nil
}

type fakeSummarizer struct {
	fail  bool
	calls atomic.Int32
}

func (f *fakeSummarizer) Summarize(_ context.Context, content string, kind models.SummaryKind) (string, error) {
	f.calls.Add(1)
	if f.fail {
		return "", errors.New("summarizer down")
	}
	return string(kind) + " summary", nil
}

func article(title, desc, published string) models.NewsAPIArticle {
	a := models.NewsAPIArticle{Title: title, Description: desc, URL: "https://news.example/" + title, PublishedAt: published}
	a.Source.Name = "Example"
	return a
}

func redditPost(id, sub, title, body string, created float64) models.RedditAPIChildData {
	return models.RedditAPIChildData{
		ID:         id,
		Subreddit:  sub,
		Author:     "user_" + id,
		Title:      title,
		Selftext:   body,
		Score:      10,
		CreatedUTC: created,
		Permalink:  "/r/" + sub + "/comments/" + id + "/",
	}
}
