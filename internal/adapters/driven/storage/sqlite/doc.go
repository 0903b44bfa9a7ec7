// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements two store interfaces
// through a single database connection:
//
//   - SnapshotArchive: durable per-domain snapshot persistence
//   - CredentialVault: stored remote account credentials
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory.
//
// # Atomicity
//
// A snapshot save is a single upsert executed by SQLite in its own
// transaction: either the new row replaces the old one or the prior durable
// copy stays intact. No partial write is ever observable, which is the
// property the cache's crash-safety contract requires.
//
// # Data Location
//
// By default, the database is stored at ~/.trailcache/data/cache.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
