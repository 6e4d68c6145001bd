package driven

import "github.com/custodia-labs/falcon-go/internal/core/domain"

// OperationCatalog is a read-only table of operation descriptors.
type OperationCatalog interface {
	// Lookup returns the first descriptor with the given operation id.
	Lookup(id string) (domain.Operation, bool)

	// Operations returns every descriptor in table order.
	Operations() []domain.Operation

	// Collection returns the descriptors belonging to one service collection.
	Collection(name string) []domain.Operation
}
