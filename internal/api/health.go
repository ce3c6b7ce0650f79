package api

import (
	"context"
	"sync/atomic"
	"time"
)

const (
	STATUS_CONFIGURED  = "configured"
	STATUS_MISSING     = "missing"
	STATUS_HEALTHY     = "healthy"
	STATUS_UNHEALTHY   = "unhealthy"
	STATUS_DISABLED    = "disabled"
	STATUS_UNREACHABLE = "unreachable"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthReporter describes which upstreams are usable. It never calls the
// rate-limited providers; only the cache is pinged.
type HealthReporter struct {
	FinnhubConfigured    bool
	NewsConfigured       bool
	RedditOAuth          bool
	SummarizerConfigured bool
	SummarizerHealthy    *atomic.Bool
	Cache                Pinger
	Now                  func() time.Time
}

type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	APIs      map[string]string `json:"apis"`
}

func flag(ok bool) string {
	if ok {
		return STATUS_CONFIGURED
	}
	return STATUS_MISSING
}

func (h *HealthReporter) Report(ctx context.Context) HealthStatus {
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}

	apis := map[string]string{
		"finnhub": flag(h.FinnhubConfigured),
		"news":    flag(h.NewsConfigured),
		// Reddit works without credentials through the public endpoints.
		"social": "reddit-public",
	}
	if h.RedditOAuth {
		apis["social"] = "reddit-oauth"
	}

	switch {
	case !h.SummarizerConfigured:
		apis["summarizer"] = STATUS_MISSING
	case h.SummarizerHealthy != nil && h.SummarizerHealthy.Load():
		apis["summarizer"] = STATUS_HEALTHY
	default:
		apis["summarizer"] = STATUS_UNHEALTHY
	}

	switch {
	case h.Cache == nil:
		apis["cache"] = STATUS_DISABLED
	case h.Cache.Ping(ctx) != nil:
		apis["cache"] = STATUS_UNREACHABLE
	default:
		apis["cache"] = STATUS_HEALTHY
	}

	return HealthStatus{Status: "OK", Timestamp: now().UTC(), APIs: apis}
}
