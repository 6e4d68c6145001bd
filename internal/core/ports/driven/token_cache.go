package driven

import (
	"context"

	"github.com/custodia-labs/falcon-go/internal/core/domain"
)

// TokenCache persists bearer tokens so separate processes using the same
// credentials can reuse a live token instead of minting a new one.
type TokenCache interface {
	// Load returns the cached token for key.
	// Returns domain.ErrNotFound if nothing is cached.
	Load(ctx context.Context, key string) (*domain.CachedToken, error)

	// Save stores token under key, replacing any previous entry.
	Save(ctx context.Context, key string, token domain.CachedToken) error

	// Delete removes the entry for key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}
