package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/falcon-go/internal/core/domain"
	"github.com/custodia-labs/falcon-go/internal/core/ports/driven"
	"github.com/custodia-labs/falcon-go/internal/core/ports/driving"
)

// Ensure OperationSearch implements the OperationFinder interface.
var _ driving.OperationFinder = (*OperationSearch)(nil)

// Operation search modes.
const (
	SearchByID         = "id"
	SearchByCollection = "collection"
	SearchByRoute      = "route"
)

// OperationSearch finds descriptors in a catalog.
type OperationSearch struct {
	catalog driven.OperationCatalog
}

// NewOperationSearch creates a search over catalog.
func NewOperationSearch(catalog driven.OperationCatalog) *OperationSearch {
	return &OperationSearch{catalog: catalog}
}

// FindOperation returns the descriptors whose id, collection or route
// matches searchFor. Exact searches compare case-sensitively; other
// searches match substrings ignoring case.
func (s *OperationSearch) FindOperation(searchFor, searchBy string, exact bool) ([]domain.Operation, error) {
	if searchBy == "" {
		searchBy = SearchByID
	}

	var (
		field    func(domain.Operation) string
		notFound error
	)
	switch searchBy {
	case SearchByID:
		field, notFound = func(o domain.Operation) string { return o.ID }, domain.ErrInvalidOperation
	case SearchByCollection:
		field, notFound = func(o domain.Operation) string { return o.Collection }, domain.ErrInvalidCollection
	case SearchByRoute:
		field, notFound = func(o domain.Operation) string { return o.Route }, domain.ErrInvalidRoute
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidSearch, searchBy)
	}

	needle := strings.ToLower(searchFor)
	var found []domain.Operation
	for _, op := range s.catalog.Operations() {
		value := field(op)
		if (exact && value == searchFor) || (!exact && strings.Contains(strings.ToLower(value), needle)) {
			found = append(found, op)
		}
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("%w: %s", notFound, searchFor)
	}
	return found, nil
}
