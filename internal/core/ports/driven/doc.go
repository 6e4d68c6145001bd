// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Dispatcher: Performs one HTTP call and normalises the response
//   - OperationCatalog: Read-only table of operation descriptors
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - TokenCache: Persists bearer tokens between processes. Without it every process logs in.
//   - ConfigStore: Profile configuration. Without it only flags and environment apply.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
