package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/spacesedan/tickerpulse/internal/errs"
	"github.com/spacesedan/tickerpulse/internal/monitoring"
)

// NewLimiter converts a per-minute budget into a token bucket that allows a
// burst of 10% of the budget.
func NewLimiter(requestsPerMinute int) *rate.Limiter {
	if requestsPerMinute < 1 {
		requestsPerMinute = 1
	}
	burst := requestsPerMinute / 10
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), burst)
}

// upstream is the transport shared by the provider clients: rate limiting,
// retry with backoff on 5xx and network errors, metrics.
type upstream struct {
	source    string
	client    *http.Client
	limiter   *rate.Limiter
	backoff   time.Duration
	// errorBody, when set, translates a 4xx body into a taxonomy error.
	// Returning nil falls back to the status code.
	errorBody func(status int, body []byte) error
}

// do sends the request built by newReq, retrying transient failures. Any
// non-2xx final status is returned as a taxonomy error.
func (u *upstream) do(ctx context.Context, newReq func(ctx context.Context) (*http.Request, error)) (*http.Response, error) {
	backoff := u.backoff
	var lastErr error

	for attempt := 1; attempt <= MAX_RETRIES; attempt++ {
		if u.limiter != nil {
			if err := u.limiter.Wait(ctx); err != nil {
				return nil, errs.Upstream(u.source, 0, fmt.Errorf("rate limiter: %w", err))
			}
		}

		req, err := newReq(ctx)
		if err != nil {
			return nil, errs.Upstream(u.source, 0, fmt.Errorf("failed to build request: %w", err))
		}
		req.Header.Set("User-Agent", USER_AGENT)

		start := time.Now()
		res, err := u.client.Do(req)
		if err != nil {
			monitoring.ObserveUpstream(u.source, 0, time.Since(start))
			lastErr = errs.Upstream(u.source, 0, err)
			if ctx.Err() != nil {
				return nil, lastErr
			}
			slog.Warn("["+u.source+"] Request failed, will retry",
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()))
		} else {
			monitoring.ObserveUpstream(u.source, res.StatusCode, time.Since(start))

			switch {
			case res.StatusCode >= 200 && res.StatusCode < 300:
				return res, nil
			case res.StatusCode >= 500:
				drain(res)
				lastErr = errs.FromStatus(u.source, res.StatusCode)
				slog.Warn("["+u.source+"] Server error, will retry",
					slog.Int("statusCode", res.StatusCode),
					slog.Int("attempt", attempt),
					slog.Duration("backoff", backoff))
			default:
				return nil, u.clientError(res)
			}
		}

		if attempt == MAX_RETRIES {
			break
		}
		select {
		case <-ctx.Done():
			return nil, errs.Upstream(u.source, 0, ctx.Err())
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > MAX_BACKOFF {
			backoff = MAX_BACKOFF
		}
	}

	slog.Error("["+u.source+"] Failed after max retries", slog.String("error", lastErr.Error()))
	return nil, lastErr
}

// getJSON performs a GET and decodes a 2xx body into out.
func (u *upstream) getJSON(ctx context.Context, url string, header http.Header, out any) error {
	res, err := u.do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		for k, vs := range header {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
		return req, nil
	})
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return errs.Upstream(u.source, res.StatusCode, fmt.Errorf("failed to parse JSON response: %w", err))
	}
	return nil
}

func (u *upstream) clientError(res *http.Response) error {
	if u.errorBody == nil {
		drain(res)
		return errs.FromStatus(u.source, res.StatusCode)
	}

	body, _ := io.ReadAll(io.LimitReader(res.Body, 64<<10))
	res.Body.Close()
	if err := u.errorBody(res.StatusCode, body); err != nil {
		return err
	}
	return errs.FromStatus(u.source, res.StatusCode)
}

func drain(res *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 64<<10))
	res.Body.Close()
}
