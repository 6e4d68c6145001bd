package driven

import (
	"context"

	"github.com/custodia-labs/falcon-go/internal/core/domain"
)

// Dispatcher performs a single HTTP call.
//
// Implementations never return an error: validation, transport and
// protocol failures all come back as a Response carrying the standard
// error envelope.
type Dispatcher interface {
	Dispatch(ctx context.Context, req domain.Request) *domain.Response
}
