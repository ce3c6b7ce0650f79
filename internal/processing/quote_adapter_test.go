package processing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/tickerpulse/internal/errs"
	"github.com/spacesedan/tickerpulse/internal/models"
)

func TestFetchSeriesNormalizesSymbol(t *testing.T) {
	quotes := &fakeQuotes{quote: models.Quote{CurrentPrice: 150, PreviousClose: 145}}
	a := NewQuoteAdapter(quotes, fixedSynth(0.5), nil, 0)

	points, err := a.FetchSeries(context.Background(), "  aapl ", models.Window24h)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", quotes.symbol)
	require.Len(t, points, 24)
	assert.Equal(t, 145.0, points[0].Price)
	assert.Equal(t, 150.0, points[23].Price)
}

func TestFetchSeriesUsesCache(t *testing.T) {
	quotes := &fakeQuotes{quote: models.Quote{CurrentPrice: 10, PreviousClose: 9}}
	a := NewQuoteAdapter(quotes, fixedSynth(0.5), newMemCache(), time.Minute)

	for i := 0; i < 3; i++ {
		_, err := a.FetchSeries(context.Background(), "MSFT", models.Window1h)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), quotes.calls.Load())
}

func TestFetchSeriesErrors(t *testing.T) {
	t.Run("taxonomy errors pass through", func(t *testing.T) {
		a := NewQuoteAdapter(&fakeQuotes{err: errs.NotFound("finnhub", "no data")}, nil, nil, 0)
		_, err := a.FetchSeries(context.Background(), "ZZZZ", models.Window24h)
		assert.True(t, errors.Is(err, errs.ErrNotFound))
	})

	t.Run("foreign errors become upstream", func(t *testing.T) {
		a := NewQuoteAdapter(&fakeQuotes{err: errors.New("dial tcp: refused")}, nil, nil, 0)
		_, err := a.FetchSeries(context.Background(), "AAPL", models.Window24h)
		assert.True(t, errors.Is(err, errs.ErrUpstream))
	})

	t.Run("empty symbol", func(t *testing.T) {
		a := NewQuoteAdapter(&fakeQuotes{}, nil, nil, 0)
		_, err := a.FetchSeries(context.Background(), "   ", models.Window24h)
		assert.True(t, errors.Is(err, errs.ErrInvalidInput))
	})

	t.Run("errors are not cached", func(t *testing.T) {
		quotes := &fakeQuotes{err: errs.RateLimited("finnhub")}
		a := NewQuoteAdapter(quotes, nil, newMemCache(), time.Minute)
		_, _ = a.FetchSeries(context.Background(), "AAPL", models.Window24h)
		_, _ = a.FetchSeries(context.Background(), "AAPL", models.Window24h)
		assert.Equal(t, int32(2), quotes.calls.Load())
	})
}
