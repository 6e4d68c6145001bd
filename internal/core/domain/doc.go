// Package domain defines the core types of the Falcon API client.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Credentials: An API client id/secret pair with optional member CID
//   - Settings: Connection configuration for every dispatched request
//   - Token: Bearer token state and its expiry arithmetic
//   - Operation: A static endpoint descriptor resolved by operation id
//   - Result / Response: The envelope every call returns, success or failure
//   - Error: A tagged failure (ErrorKind) convertible to a Result
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
