// Package catalog provides the static table of Falcon API operations.
//
// The table is embedded as operations.json. Each row names an operation
// id, its HTTP method, a route template with "{}" path placeholders, the
// service collection it belongs to and its declared parameters. Operation
// ids are not unique across collections; lookups return the first row.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/falcon-go/internal/core/domain"
	"github.com/custodia-labs/falcon-go/internal/core/ports/driven"
)

// Ensure Catalog implements the OperationCatalog interface.
var _ driven.OperationCatalog = (*Catalog)(nil)

//go:embed operations.json
var operationsJSON []byte

// Catalog is an immutable, indexed operation table.
type Catalog struct {
	ops          []domain.Operation
	byID         map[string]int
	byCollection map[string][]int
}

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	return Parse(operationsJSON)
})

// Default returns the embedded catalog. It is parsed once and shared.
func Default() (*Catalog, error) {
	return loadDefault()
}

// MustDefault returns the embedded catalog and panics if it is malformed.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse builds a catalog from a JSON array of operations.
func Parse(data []byte) (*Catalog, error) {
	var ops []domain.Operation
	if err := json.Unmarshal(data, &ops); err != nil {
		return nil, fmt.Errorf("parse operation catalog: %w", err)
	}
	for i, op := range ops {
		if op.ID == "" || op.Method == "" || op.Route == "" {
			return nil, fmt.Errorf("operation %d: id, method and route are required", i)
		}
	}
	return New(ops), nil
}

// New indexes ops. The slice is copied.
func New(ops []domain.Operation) *Catalog {
	c := &Catalog{
		ops:          append([]domain.Operation(nil), ops...),
		byID:         make(map[string]int, len(ops)),
		byCollection: make(map[string][]int),
	}
	for i, op := range c.ops {
		if _, dup := c.byID[op.ID]; !dup {
			c.byID[op.ID] = i
		}
		c.byCollection[op.Collection] = append(c.byCollection[op.Collection], i)
	}
	return c
}

// Lookup returns the first operation with the given id.
func (c *Catalog) Lookup(id string) (domain.Operation, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Operation{}, false
	}
	return c.ops[i], true
}

// Operations returns every operation in table order.
func (c *Catalog) Operations() []domain.Operation {
	return append([]domain.Operation(nil), c.ops...)
}

// Collection returns the operations of one service collection.
func (c *Catalog) Collection(name string) []domain.Operation {
	idx := c.byCollection[name]
	out := make([]domain.Operation, 0, len(idx))
	for _, i := range idx {
		out = append(out, c.ops[i])
	}
	return out
}

// Collections returns the sorted collection names.
func (c *Catalog) Collections() []string {
	names := make([]string, 0, len(c.byCollection))
	for name := range c.byCollection {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of rows.
func (c *Catalog) Len() int {
	return len(c.ops)
}
