package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/falcon-go/internal/core/domain"
	"github.com/custodia-labs/falcon-go/internal/core/ports/driven"
)

// Ensure TokenCache implements the interface.
var _ driven.TokenCache = (*TokenCache)(nil)

// TokenCache is an in-process token cache. It lets several interfaces in
// one process share a token and backs tests.
type TokenCache struct {
	mu      sync.RWMutex
	entries map[string]domain.CachedToken
}

// NewTokenCache creates an empty cache.
func NewTokenCache() *TokenCache {
	return &TokenCache{entries: make(map[string]domain.CachedToken)}
}

// Load retrieves the cached token for key.
func (c *TokenCache) Load(_ context.Context, key string) (*domain.CachedToken, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	tok, ok := c.entries[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &tok, nil
}

// Save stores the token for key.
func (c *TokenCache) Save(_ context.Context, key string, token domain.CachedToken) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = token
	return nil
}

// Delete removes the token for key.
func (c *TokenCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// Close is a no-op.
func (c *TokenCache) Close() error {
	return nil
}

// Len returns the number of cached entries.
func (c *TokenCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
