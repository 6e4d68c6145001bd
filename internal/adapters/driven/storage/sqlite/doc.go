// Package sqlite provides a SQLite-backed token cache.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. Several CLI processes running with the same API client
// share one database file, so a token minted by one is reused by the others
// until it nears expiry.
//
// # Schema
//
// The schema is managed through versioned migrations stored in the
// migrations/ directory. Applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.falcon/data/tokens.db
//
// # Thread Safety
//
// All operations are thread-safe. The store relies on SQLite locking in
// WAL mode with a busy timeout.
package sqlite
