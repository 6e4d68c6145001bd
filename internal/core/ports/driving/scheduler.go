package driving

import "context"

// Scheduler runs background work for long-lived processes, such as
// renewing the bearer token before it expires.
type Scheduler interface {
	// Start runs until ctx is cancelled or Stop is called.
	Start(ctx context.Context) error

	// Stop shuts down and waits for running work to finish.
	Stop() error
}
