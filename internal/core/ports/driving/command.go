package driving

import (
	"context"

	"github.com/custodia-labs/falcon-go/internal/core/domain"
)

// Commander executes any catalogued operation by id.
type Commander interface {
	Authenticator

	// Command resolves action and dispatches it.
	Command(ctx context.Context, action string, opts domain.CommandOptions) *domain.Response
}

// OperationFinder searches the operation catalog.
type OperationFinder interface {
	// FindOperation searches by "id", "collection" or "route".
	// Non-exact searches match substrings case-insensitively.
	FindOperation(searchFor, searchBy string, exact bool) ([]domain.Operation, error)
}

// ServiceRequester dispatches the operations of a single collection by
// operation id or alias.
type ServiceRequester interface {
	// Invoke calls a method by operation id or alias.
	Invoke(ctx context.Context, name string, opts domain.CommandOptions) *domain.Response

	// Methods lists every name Invoke accepts.
	Methods() []string
}
