package processing

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/spacesedan/tickerpulse/internal/errs"
	"github.com/spacesedan/tickerpulse/internal/models"
)

type QuoteProvider interface {
	GetQuote(ctx context.Context, symbol string) (models.Quote, error)
}

// QuoteAdapter fetches a quote and turns it into a window-shaped series.
type QuoteAdapter struct {
	quotes QuoteProvider
	synth  *Synthesizer
	cache  Cache
	ttl    time.Duration
}

// NewQuoteAdapter builds the adapter. cache may be nil.
func NewQuoteAdapter(quotes QuoteProvider, synth *Synthesizer, cache Cache, ttl time.Duration) *QuoteAdapter {
	if synth == nil {
		synth = NewSynthesizer()
	}
	return &QuoteAdapter{quotes: quotes, synth: synth, cache: cache, ttl: ttl}
}

// NormalizeSymbol trims and upper-cases a ticker.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// FetchSeries returns the synthesized series for symbol. Errors are always
// *errs.Error.
func (a *QuoteAdapter) FetchSeries(ctx context.Context, symbol string, window models.Window) ([]models.StockPoint, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, errs.InvalidInput("symbol is required")
	}

	quote, err := cached(ctx, a.cache, "quote", "quote:"+symbol, a.ttl, func() (models.Quote, bool, error) {
		q, err := a.quotes.GetQuote(ctx, symbol)
		return q, true, err
	})
	if err != nil {
		slog.Warn("[QuoteAdapter] Failed to fetch quote",
			slog.String("symbol", symbol),
			slog.String("error", err.Error()))
		return nil, errs.Ensure("quote", err)
	}

	points := a.synth.Synthesize(quote, window)
	slog.Debug("[QuoteAdapter] Synthesized series",
		slog.String("symbol", symbol),
		slog.String("window", string(window)),
		slog.Int("points", len(points)))
	return points, nil
}
