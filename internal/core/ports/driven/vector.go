package driven

import (
	"context"

	"github.com/custodia-labs/interview-pilot/internal/core/domain"
)

// VectorIndex is a persistent store of named embedding collections.
// Implementations: SQLite (default, on-disk), Qdrant (remote), in-memory.
//
// Collections are created on first use by EnsureCollection. Distances
// returned by Query are cosine distances in [0, 2], ordered ascending.
type VectorIndex interface {
	// EnsureCollection creates the collection if it does not exist.
	EnsureCollection(ctx context.Context, collection string, dimensions int) error

	// Upsert writes records into the collection.
	Upsert(ctx context.Context, collection string, records []VectorRecord) error

	// Query returns up to k nearest records to vector, optionally restricted by filter.
	Query(ctx context.Context, collection string, vector []float32, k int, filter *domain.Filter) ([]VectorHit, error)

	// Count returns the number of records in the collection (0 if it does not exist).
	Count(ctx context.Context, collection string) (int, error)

	// DeleteBySource removes every record whose source metadata equals
	// source. A missing collection is not an error.
	DeleteBySource(ctx context.Context, collection, source string) error

	// DeleteCollection removes the collection and all its records.
	// Deleting a missing collection is not an error.
	DeleteCollection(ctx context.Context, collection string) error

	// Reset removes every collection in the store.
	Reset(ctx context.Context) error

	// Location describes where data is persisted (directory, URL, or "memory").
	Location() string

	// Close releases resources.
	Close() error
}

// VectorRecord is one stored entry: a document and its embedding.
type VectorRecord struct {
	ID        string
	Document  domain.Document
	Embedding []float32
}

// VectorHit is a similarity search result.
type VectorHit struct {
	// Document is the stored document with its ID populated.
	Document domain.Document

	// Distance is the cosine distance (1 - cosine similarity).
	Distance float64
}
