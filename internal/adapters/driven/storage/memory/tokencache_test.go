package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/falcon-go/internal/core/domain"
)

func TestTokenCache_Lifecycle(t *testing.T) {
	cache := NewTokenCache()
	ctx := context.Background()

	_, err := cache.Load(ctx, "client")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, cache.Save(ctx, "client", domain.CachedToken{Value: "tok", IssuedAt: time.Now(), TTL: time.Hour}))
	assert.Equal(t, 1, cache.Len())

	got, err := cache.Load(ctx, "client")
	require.NoError(t, err)
	assert.Equal(t, "tok", got.Value)

	// Mutating the returned copy leaves the cache untouched.
	got.Value = "changed"
	again, _ := cache.Load(ctx, "client")
	assert.Equal(t, "tok", again.Value)

	require.NoError(t, cache.Delete(ctx, "client"))
	require.NoError(t, cache.Delete(ctx, "client"))
	assert.Equal(t, 0, cache.Len())
	assert.NoError(t, cache.Close())
}

func TestTokenCache_ConcurrentAccess(t *testing.T) {
	cache := NewTokenCache()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = cache.Save(ctx, "client", domain.CachedToken{Value: "tok"})
			_, _ = cache.Load(ctx, "client")
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, cache.Len())
}
