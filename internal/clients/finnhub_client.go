package clients

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/spacesedan/tickerpulse/config"
	"github.com/spacesedan/tickerpulse/internal/errs"
	"github.com/spacesedan/tickerpulse/internal/models"
)

// FinnhubClient reads quotes and symbol lookups. Only the free endpoints are
// used; historical candles need a paid plan.
type FinnhubClient struct {
	baseURL string
	apiKey  string
	http    *upstream
}

func NewFinnhubClient(cfg config.FinnhubConfig, httpClient *http.Client) *FinnhubClient {
	return &FinnhubClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http: &upstream{
			source:  SOURCE_FINNHUB,
			client:  httpClient,
			backoff: INITIAL_BACKOFF,
		},
	}
}

func (f *FinnhubClient) Configured() bool { return f.apiKey != "" }

func (f *FinnhubClient) header() http.Header {
	h := http.Header{}
	h.Set("X-Finnhub-Token", f.apiKey)
	return h
}

// GetQuote returns the current price and previous close for symbol.
func (f *FinnhubClient) GetQuote(ctx context.Context, symbol string) (models.Quote, error) {
	if f.apiKey == "" {
		slog.Error("[FinnhubClient] API key is missing")
		return models.Quote{}, errs.Config(SOURCE_FINNHUB, "Finnhub API key not configured")
	}

	q := url.Values{}
	q.Set("symbol", symbol)

	var res models.FinnhubQuoteResponse
	if err := f.http.getJSON(ctx, f.baseURL+"/quote?"+q.Encode(), f.header(), &res); err != nil {
		return models.Quote{}, err
	}

	// Unknown symbols come back as 200 with every field zeroed.
	if res.Current == nil || (*res.Current == 0 && res.PreviousClose == 0) {
		return models.Quote{}, errs.NotFound(SOURCE_FINNHUB, "no data found for symbol "+symbol)
	}

	slog.Debug("[FinnhubClient] Fetched quote",
		slog.String("symbol", symbol),
		slog.Float64("current", *res.Current),
		slog.Float64("previousClose", res.PreviousClose))

	return models.Quote{
		Symbol:        symbol,
		CurrentPrice:  *res.Current,
		PreviousClose: res.PreviousClose,
	}, nil
}

// SearchSymbols looks up symbols matching a free-text query.
func (f *FinnhubClient) SearchSymbols(ctx context.Context, query string) ([]models.SymbolMatch, error) {
	if f.apiKey == "" {
		return nil, errs.Config(SOURCE_FINNHUB, "Finnhub API key not configured")
	}

	q := url.Values{}
	q.Set("q", strings.TrimSpace(query))

	var res models.FinnhubSearchResponse
	if err := f.http.getJSON(ctx, f.baseURL+"/search?"+q.Encode(), f.header(), &res); err != nil {
		return nil, err
	}

	matches := make([]models.SymbolMatch, 0, len(res.Result))
	for _, r := range res.Result {
		if r.Symbol == "" {
			continue
		}
		matches = append(matches, models.SymbolMatch{
			Symbol:      r.Symbol,
			Description: r.Description,
			Type:        r.Type,
		})
	}
	return matches, nil
}
