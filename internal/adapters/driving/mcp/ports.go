package mcp

import (
	"github.com/custodia-labs/falcon-go/internal/core/ports/driven"
	"github.com/custodia-labs/falcon-go/internal/core/ports/driving"
)

// Ports aggregates the ports the MCP server drives.
type Ports struct {
	// Commander executes operations and owns the token.
	Commander driving.Commander

	// Finder searches the catalog. Optional: without it the
	// falcon_find_operation tool is not registered.
	Finder driving.OperationFinder

	// Catalog backs the operation resources.
	Catalog driven.OperationCatalog
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Commander == nil {
		return ErrMissingCommander
	}
	if p.Catalog == nil {
		return ErrMissingCatalog
	}
	return nil
}
