// Package redis provides a Redis-backed token cache for processes that
// share API credentials across hosts.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/custodia-labs/falcon-go/internal/core/domain"
	"github.com/custodia-labs/falcon-go/internal/core/ports/driven"
)

// Ensure TokenCache implements the TokenCache interface.
var _ driven.TokenCache = (*TokenCache)(nil)

// DefaultPrefix namespaces cache keys.
const DefaultPrefix = "falcon:token:"

// Config configures the cache.
type Config struct {
	// URL is a redis:// or rediss:// connection string.
	URL    string
	Prefix string
}

// TokenCache stores tokens in Redis. Entries expire with the token.
type TokenCache struct {
	client *goredis.Client
	prefix string
	now    func() time.Time
}

// cachedRecord is the JSON stored under each key.
type cachedRecord struct {
	Token     string    `json:"token"`
	IssuedAt  time.Time `json:"issued_at"`
	TTLMillis int64     `json:"ttl_ms"`
	BaseURL   string    `json:"base_url"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, cfg Config) (*TokenCache, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("redis url required")
	}
	opts, err := goredis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewWithClient(client, cfg.Prefix), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *goredis.Client, prefix string) *TokenCache {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &TokenCache{client: client, prefix: prefix, now: time.Now}
}

func (c *TokenCache) key(id string) string {
	return c.prefix + id
}

// Load retrieves the cached token for key.
func (c *TokenCache) Load(ctx context.Context, key string) (*domain.CachedToken, error) {
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading token: %w", err)
	}
	var rec cachedRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decoding token: %w", err)
	}
	return &domain.CachedToken{
		Value:     rec.Token,
		IssuedAt:  rec.IssuedAt,
		TTL:       time.Duration(rec.TTLMillis) * time.Millisecond,
		BaseURL:   rec.BaseURL,
		UpdatedAt: rec.UpdatedAt,
	}, nil
}

// Save stores the token until it expires. A token that has already
// expired removes the entry instead.
func (c *TokenCache) Save(ctx context.Context, key string, token domain.CachedToken) error {
	now := c.now()
	if token.UpdatedAt.IsZero() {
		token.UpdatedAt = now
	}
	expiry := token.IssuedAt.Add(token.TTL).Sub(now)
	if expiry <= 0 {
		return c.Delete(ctx, key)
	}
	data, err := json.Marshal(cachedRecord{
		Token:     token.Value,
		IssuedAt:  token.IssuedAt,
		TTLMillis: token.TTL.Milliseconds(),
		BaseURL:   token.BaseURL,
		UpdatedAt: token.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("encoding token: %w", err)
	}
	if err := c.client.Set(ctx, c.key(key), data, expiry).Err(); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	return nil
}

// Delete removes the token for key.
func (c *TokenCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		return fmt.Errorf("deleting token: %w", err)
	}
	return nil
}

// Close closes the client.
func (c *TokenCache) Close() error {
	return c.client.Close()
}
