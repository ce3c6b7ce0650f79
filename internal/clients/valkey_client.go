package clients

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/spacesedan/tickerpulse/config"
)

const VALKEY_KEY_PREFIX = "tickerpulse:"

// ValkeyClient is the response cache. Every failure is reported as a miss;
// the cache never fails a request.
type ValkeyClient struct {
	cfg    config.CacheConfig
	mu     sync.Mutex
	Client valkey.Client
}

func NewValkeyClient(cfg config.CacheConfig) (*ValkeyClient, error) {
	client, err := connectValkey(cfg)
	if err != nil {
		return nil, err
	}
	slog.Info("[ValkeyClient] Successfully connected to valkey", slog.String("address", cfg.Address))
	return &ValkeyClient{cfg: cfg, Client: client}, nil
}

func connectValkey(cfg config.CacheConfig) (valkey.Client, error) {
	opts := valkey.ClientOption{
		InitAddress:      []string{cfg.Address},
		Password:         cfg.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}
	if cfg.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", err)
	}
	return client, nil
}

func (vc *ValkeyClient) client() valkey.Client {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return vc.Client
}

func (vc *ValkeyClient) recreateClient() {
	vc.mu.Lock()
	defer vc.mu.Unlock()

	slog.Warn("[ValkeyClient] Attempting to recreate Valkey client...")
	client, err := connectValkey(vc.cfg)
	if err != nil {
		slog.Error("[ValkeyClient] Recreate failed", slog.String("error", err.Error()))
		return
	}
	vc.Client.Close()
	vc.Client = client
}

func (vc *ValkeyClient) Get(ctx context.Context, key string) ([]byte, bool) {
	c := vc.client()
	res := c.Do(ctx, c.B().Get().Key(VALKEY_KEY_PREFIX+key).Build())
	if err := res.Error(); err != nil {
		if !valkey.IsValkeyNil(err) {
			slog.Warn("[ValkeyClient] Get failed", slog.String("key", key), slog.String("error", err.Error()))
			if isConnectionError(err) {
				vc.recreateClient()
			}
		}
		return nil, false
	}
	b, err := res.AsBytes()
	if err != nil {
		return nil, false
	}
	return b, true
}

func (vc *ValkeyClient) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	c := vc.client()
	cmd := c.B().Set().Key(VALKEY_KEY_PREFIX + key).Value(valkey.BinaryString(value)).PxMilliseconds(ttl.Milliseconds()).Build()
	if err := c.Do(ctx, cmd).Error(); err != nil {
		slog.Warn("[ValkeyClient] Set failed", slog.String("key", key), slog.String("error", err.Error()))
		if isConnectionError(err) {
			vc.recreateClient()
		}
	}
}

// Ping is used by the health endpoint.
func (vc *ValkeyClient) Ping(ctx context.Context) error {
	c := vc.client()
	return c.Do(ctx, c.B().Ping().Build()).Error()
}

func (vc *ValkeyClient) Close() {
	vc.client().Close()
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}
