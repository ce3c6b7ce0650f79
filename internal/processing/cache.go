package processing

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/spacesedan/tickerpulse/internal/monitoring"
)

// Cache stores serialized responses. Implementations treat every failure as
// a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// cached serves key from cache when present, otherwise calls load. The
// result is stored only when load succeeds and reports it complete; a
// partial result from a degraded upstream is returned but not cached. A nil
// cache always calls load.
func cached[T any](ctx context.Context, cache Cache, kind, key string, ttl time.Duration, load func() (T, bool, error)) (T, error) {
	if cache == nil || ttl <= 0 {
		v, _, err := load()
		return v, err
	}

	if raw, ok := cache.Get(ctx, key); ok {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			monitoring.ObserveCache(kind, true)
			return v, nil
		}
		slog.Warn("[Cache] Dropping undecodable entry", slog.String("key", key))
	}
	monitoring.ObserveCache(kind, false)

	v, complete, err := load()
	if err != nil {
		return v, err
	}
	if !complete {
		slog.Debug("[Cache] Skipping partial result", slog.String("key", key))
		return v, nil
	}
	if raw, err := json.Marshal(v); err == nil {
		cache.Set(ctx, key, raw, ttl)
	}
	return v, nil
}
