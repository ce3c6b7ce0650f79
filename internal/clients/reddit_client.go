package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/spacesedan/tickerpulse/config"
	"github.com/spacesedan/tickerpulse/internal/errs"
	"github.com/spacesedan/tickerpulse/internal/models"
)

const (
	REDDIT_API_URL    = "https://oauth.reddit.com"
	REDDIT_PUBLIC_URL = "https://www.reddit.com"
)

// RedditClient searches subreddits. With application credentials it talks
// to the OAuth API, otherwise to the public JSON listing endpoints.
type RedditClient struct {
	baseURL   string
	oauth     *clientcredentials.Config
	base      *http.Client
	transport *upstream

	mu     sync.Mutex
	client *http.Client
}

func NewRedditClient(cfg config.RedditConfig, httpClient *http.Client) *RedditClient {
	rc := &RedditClient{
		base: httpClient,
		transport: &upstream{
			source:  SOURCE_REDDIT,
			limiter: NewLimiter(cfg.RequestsPerMinute),
			backoff: INITIAL_BACKOFF,
		},
	}

	switch {
	case cfg.BaseURL != "":
		rc.baseURL = strings.TrimRight(cfg.BaseURL, "/")
	case cfg.UsesOAuth():
		rc.baseURL = REDDIT_API_URL
	default:
		rc.baseURL = REDDIT_PUBLIC_URL
	}

	if cfg.UsesOAuth() {
		rc.oauth = &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		}
	}
	rc.RefreshClient()

	return rc
}

// RefreshClient discards any cached token and builds a fresh client.
func (rc *RedditClient) RefreshClient() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.oauth == nil {
		rc.client = rc.base
		return
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, rc.base)
	rc.client = rc.oauth.Client(ctx)
}

func (rc *RedditClient) current() *http.Client {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.client
}

func (rc *RedditClient) searchURL(subreddit, term, timeFilter string, limit int) (string, error) {
	path := fmt.Sprintf("%s/r/%s/search", rc.baseURL, url.PathEscape(subreddit))
	if rc.oauth == nil {
		path += ".json"
	}
	parsedUrl, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("[RedditClient] Failed to parse URL: %w", err)
	}
	q := parsedUrl.Query()
	q.Set("q", term)
	q.Set("restrict_sr", "1")
	q.Set("sort", "relevance")
	q.Set("t", timeFilter)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("raw_json", "1")
	parsedUrl.RawQuery = q.Encode()
	return parsedUrl.String(), nil
}

// SearchSubreddit returns the raw listing entries for term in one
// subreddit.
func (rc *RedditClient) SearchSubreddit(ctx context.Context, subreddit, term, timeFilter string, limit int) ([]models.RedditAPIChildData, error) {
	target, err := rc.searchURL(subreddit, term, timeFilter, limit)
	if err != nil {
		return nil, errs.Upstream(SOURCE_REDDIT, 0, err)
	}

	listing, err := rc.fetchListing(ctx, target)
	if errs.StatusOf(err) == http.StatusUnauthorized && rc.oauth != nil {
		slog.Warn("[RedditClient] Token expired - Refreshing and Retrying...",
			slog.String("subreddit", subreddit))
		rc.RefreshClient()
		listing, err = rc.fetchListing(ctx, target)
	}
	if err != nil {
		return nil, err
	}

	posts := make([]models.RedditAPIChildData, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		posts = append(posts, child.Data)
	}
	return posts, nil
}

func (rc *RedditClient) fetchListing(ctx context.Context, target string) (*models.RedditAPIResponse, error) {
	u := *rc.transport
	u.client = rc.current()

	var listing models.RedditAPIResponse
	if err := u.getJSON(ctx, target, nil, &listing); err != nil {
		var oauthErr *oauth2.RetrieveError
		if errors.As(err, &oauthErr) {
			return nil, &errs.Error{
				Kind:    errs.KindConfig,
				Source:  SOURCE_REDDIT,
				Status:  http.StatusUnauthorized,
				Message: "Reddit OAuth token request failed, check credentials",
				Err:     err,
			}
		}
		return nil, err
	}
	return &listing, nil
}
