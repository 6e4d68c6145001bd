package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/falcon-go/internal/core/ports/driving"
	"github.com/custodia-labs/falcon-go/internal/logger"
)

// Ensure TokenKeeper implements the Scheduler interface.
var _ driving.Scheduler = (*TokenKeeper)(nil)

// DefaultKeepInterval is how often TokenKeeper checks the token.
const DefaultKeepInterval = time.Minute

// TokenKeeper renews the token of an authenticator in the background once
// it enters its renewal window, so requests of a long-running process do
// not pay for a login.
type TokenKeeper struct {
	auth     driving.Authenticator
	interval time.Duration

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewTokenKeeper creates a keeper. A non-positive interval selects
// DefaultKeepInterval.
func NewTokenKeeper(auth driving.Authenticator, interval time.Duration) *TokenKeeper {
	if interval <= 0 {
		interval = DefaultKeepInterval
	}
	return &TokenKeeper{auth: auth, interval: interval}
}

// Start checks the token immediately and then on every tick. It blocks
// until ctx is cancelled or Stop is called.
func (k *TokenKeeper) Start(ctx context.Context) error {
	k.mu.Lock()
	if k.running {
		k.mu.Unlock()
		return nil
	}
	k.running = true
	k.stopCh = make(chan struct{})
	stopCh := k.stopCh
	k.wg.Add(1)
	k.mu.Unlock()
	defer k.wg.Done()

	k.renew(ctx)

	ticker := time.NewTicker(k.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			k.mu.Lock()
			k.running = false
			k.mu.Unlock()
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-ticker.C:
			k.renew(ctx)
		}
	}
}

// Stop ends the loop started by Start and waits for it to return.
func (k *TokenKeeper) Stop() error {
	k.mu.Lock()
	if !k.running {
		k.mu.Unlock()
		return nil
	}
	k.running = false
	close(k.stopCh)
	k.mu.Unlock()

	k.wg.Wait()
	return nil
}

func (k *TokenKeeper) renew(ctx context.Context) {
	if !k.auth.TokenExpired() || !k.auth.Refreshable() {
		return
	}
	// AuthHeaders shares its refresh with in-flight API calls.
	k.auth.AuthHeaders(ctx)
	if k.auth.TokenExpired() {
		tok := k.auth.Token()
		logger.Warn("token keeper: renewal failed (%d): %s", tok.Status, tok.FailReason)
		return
	}
	logger.Debug("token keeper: token renewed for %s", k.auth.BaseURL())
}
