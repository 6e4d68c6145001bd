package driven

import (
	"context"

	"github.com/custodia-labs/falcon-go/internal/core/domain"
)

// CredentialSource resolves credentials from outside the caller's code,
// such as environment variables.
type CredentialSource interface {
	// Credentials returns the resolved credentials.
	// Returns domain.ErrNoCredentials if none are available.
	Credentials(ctx context.Context) (domain.Credentials, error)
}
