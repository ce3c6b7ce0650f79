package clients

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spacesedan/tickerpulse/config"
	"github.com/spacesedan/tickerpulse/internal/errs"
	"github.com/spacesedan/tickerpulse/internal/models"
)

type NewsAPIClient struct {
	baseURL string
	apiKey  string
	http    *upstream
}

func NewNewsAPIClient(cfg config.NewsConfig, httpClient *http.Client) *NewsAPIClient {
	return &NewsAPIClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http: &upstream{
			source:    SOURCE_NEWSAPI,
			client:    httpClient,
			limiter:   NewLimiter(cfg.RequestsPerMinute),
			backoff:   INITIAL_BACKOFF,
			errorBody: newsAPIError,
		},
	}
}

func (n *NewsAPIClient) Configured() bool { return n.apiKey != "" }

// SearchEverything runs one query against /everything, newest first.
func (n *NewsAPIClient) SearchEverything(ctx context.Context, query models.NewsQuery) ([]models.NewsAPIArticle, error) {
	if n.apiKey == "" {
		slog.Error("[NewsAPIClient] API key is missing")
		return nil, errs.Config(SOURCE_NEWSAPI, "News API key not configured")
	}

	q := url.Values{}
	q.Set("q", query.Q)
	q.Set("sortBy", "publishedAt")
	q.Set("language", "en")
	if query.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(query.PageSize))
	}
	if !query.From.IsZero() {
		q.Set("from", query.From.UTC().Format(time.RFC3339))
	}

	header := http.Header{}
	header.Set("X-Api-Key", n.apiKey)

	var res models.NewsAPIEverythingResponse
	if err := n.http.getJSON(ctx, n.baseURL+"/everything?"+q.Encode(), header, &res); err != nil {
		return nil, err
	}
	slog.Debug("[NewsAPIClient] Fetched articles",
		slog.String("query", query.Q),
		slog.Int("count", len(res.Articles)))
	return res.Articles, nil
}

// newsAPIError maps the {"status":"error","code":...} body NewsAPI sends
// with 4xx responses.
func newsAPIError(status int, body []byte) error {
	var res models.NewsAPIEverythingResponse
	if err := json.Unmarshal(body, &res); err != nil || res.Status != "error" {
		return nil
	}

	switch res.Code {
	case "rateLimited", "apiKeyExhausted":
		return errs.RateLimited(SOURCE_NEWSAPI)
	case "apiKeyMissing", "apiKeyInvalid", "apiKeyDisabled":
		msg := res.Message
		if msg == "" {
			msg = "invalid API key, check credentials"
		}
		return &errs.Error{Kind: errs.KindConfig, Source: SOURCE_NEWSAPI, Status: status, Message: msg}
	default:
		e := errs.FromStatus(SOURCE_NEWSAPI, status)
		if res.Message != "" {
			e.Message = res.Message
		}
		return e
	}
}
