package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorsIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("fetch quote: %w", NotFound("finnhub", "no data for symbol ZZZZ"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrRateLimit))
	assert.True(t, errors.Is(err, &Error{Kind: KindNotFound, Source: "finnhub"}))
	assert.False(t, errors.Is(err, &Error{Kind: KindNotFound, Source: "newsapi"}))
}

func TestFromStatus(t *testing.T) {
	tests := []struct {
		status int
		kind   Kind
	}{
		{http.StatusNotFound, KindNotFound},
		{http.StatusTooManyRequests, KindRateLimit},
		{http.StatusUnauthorized, KindConfig},
		{http.StatusForbidden, KindUpstream},
		{http.StatusInternalServerError, KindUpstream},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			err := FromStatus("reddit", tt.status)
			assert.Equal(t, tt.kind, err.Kind)
			assert.Equal(t, tt.status, StatusOf(err))
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(Config("finnhub", "missing key")))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("finnhub", "missing")))
	assert.Equal(t, http.StatusTooManyRequests, HTTPStatus(RateLimited("finnhub")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(InvalidInput("bad window")))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(errors.New("boom")))
}

func TestIsBlocked(t *testing.T) {
	assert.True(t, IsBlocked(fmt.Errorf("r/stocks: %w", FromStatus("reddit", http.StatusForbidden))))
	assert.False(t, IsBlocked(RateLimited("reddit")))
	assert.False(t, IsBlocked(errors.New("dial tcp: timeout")))
}

func TestPublicMessageHidesForeignErrors(t *testing.T) {
	assert.Equal(t, "upstream request failed", PublicMessage(errors.New("dial tcp 10.0.0.1: secret detail")))
	assert.Equal(t, "rate limit exceeded, try again later", PublicMessage(RateLimited("finnhub")))
}

func TestEnsure(t *testing.T) {
	assert.NoError(t, Ensure("x", nil))

	nf := NotFound("finnhub", "gone")
	assert.Same(t, nf, Ensure("x", nf))

	wrapped := Ensure("reddit", errors.New("boom"))
	assert.True(t, errors.Is(wrapped, ErrUpstream))
	assert.Equal(t, KindUpstream, KindOf(wrapped))
}
