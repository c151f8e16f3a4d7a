// Package sqlite provides SQLite-backed implementations of the storage ports.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. One database file serves two ports:
//
//   - VectorIndex: embedding collections with exact cosine search
//   - SessionStore: finished and in-progress interview session snapshots
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Vector Search
//
// Embeddings are stored as little-endian float32 blobs. Queries scan the
// collection (narrowed by category when filtered) and rank in Go, which is
// exact and fast enough for knowledge bases of a few thousand chunks.
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
