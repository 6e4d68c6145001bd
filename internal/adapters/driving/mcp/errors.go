// Package mcp exposes the Falcon API to AI assistants as a Model Context
// Protocol server. Tools execute catalogued operations and report token
// state; resources publish the operation catalog.
package mcp

import "errors"

// Errors returned by NewServer when a required port is missing.
var (
	ErrMissingCommander = errors.New("mcp: commander is required")
	ErrMissingCatalog   = errors.New("mcp: operation catalog is required")
)
