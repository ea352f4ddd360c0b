// Package sqlite provides a SQLite-backed implementation of the
// DocumentStore and CheckpointStore driven ports.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Documents, labels and their link tables are upserted
// per batch inside a single transaction; link tables are rewritten wholesale
// on every upsert so relationships removed upstream are removed downstream.
//
// # Data Location
//
// By default, the database is stored at ~/.atlas/data/atlas.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
