package domain

import "errors"

// Domain errors represent failures outside the Result envelope path:
// storage, configuration and operation search.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoCredentials indicates neither credentials nor a token could be resolved.
	ErrNoCredentials = errors.New("no API credentials available")

	// Operation search errors.

	// ErrInvalidOperation indicates no operation matched the requested id.
	ErrInvalidOperation = errors.New("invalid operation specified")

	// ErrInvalidCollection indicates no operation belongs to the requested collection.
	ErrInvalidCollection = errors.New("invalid service collection specified")

	// ErrInvalidRoute indicates no operation matched the requested route.
	ErrInvalidRoute = errors.New("invalid route specified")

	// ErrInvalidSearch indicates an unsupported search mode.
	ErrInvalidSearch = errors.New("invalid operation search type specified")
)
