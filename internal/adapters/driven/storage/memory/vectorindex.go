// Package memory provides in-memory implementations of the storage ports
// for tests and ephemeral runs.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/interview-pilot/internal/adapters/driven/storage/vecmath"
	"github.com/custodia-labs/interview-pilot/internal/core/domain"
	"github.com/custodia-labs/interview-pilot/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

type collection struct {
	dims    int
	records []driven.VectorRecord
	byID    map[string]int
}

// VectorIndex is an in-memory implementation of driven.VectorIndex.
// Queries are exact brute-force cosine scans.
type VectorIndex struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

// NewVectorIndex creates a new in-memory vector index.
func NewVectorIndex() *VectorIndex {
	return &VectorIndex{
		collections: make(map[string]*collection),
	}
}

// EnsureCollection creates the collection if it does not exist.
func (v *VectorIndex) EnsureCollection(_ context.Context, name string, dimensions int) error {
	if dimensions <= 0 {
		return fmt.Errorf("%w: dimensions must be positive", domain.ErrInvalidInput)
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	if c, ok := v.collections[name]; ok {
		if c.dims != dimensions {
			return fmt.Errorf("%w: collection %s has %d dimensions, not %d", domain.ErrInvalidInput, name, c.dims, dimensions)
		}
		return nil
	}
	v.collections[name] = &collection{dims: dimensions, byID: make(map[string]int)}
	return nil
}

// Upsert stores records, replacing any with the same ID.
func (v *VectorIndex) Upsert(_ context.Context, name string, records []driven.VectorRecord) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	c, ok := v.collections[name]
	if !ok {
		return fmt.Errorf("collection %s: %w", name, domain.ErrNotFound)
	}
	for _, r := range records {
		if len(r.Embedding) != c.dims {
			return fmt.Errorf("%w: record %s has %d dimensions, collection has %d", domain.ErrInvalidInput, r.ID, len(r.Embedding), c.dims)
		}
	}
	for _, r := range records {
		r.Document.ID = r.ID
		r.Document.Metadata = r.Document.Metadata.Clone()
		r.Embedding = append([]float32(nil), r.Embedding...)
		if i, ok := c.byID[r.ID]; ok {
			c.records[i] = r
			continue
		}
		c.byID[r.ID] = len(c.records)
		c.records = append(c.records, r)
	}
	return nil
}

// Query returns up to k records nearest to vector that match filter.
func (v *VectorIndex) Query(
	_ context.Context, name string, vector []float32, k int, filter *domain.Filter,
) ([]driven.VectorHit, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	c, ok := v.collections[name]
	if !ok || k <= 0 {
		return []driven.VectorHit{}, nil
	}

	hits := make([]driven.VectorHit, 0, len(c.records))
	for _, r := range c.records {
		if !filter.Matches(r.Document.Metadata) {
			continue
		}
		doc := r.Document
		doc.Metadata = doc.Metadata.Clone()
		hits = append(hits, driven.VectorHit{
			Document: doc,
			Distance: vecmath.CosineDistance(vector, r.Embedding),
		})
	}
	return vecmath.TopK(hits, k), nil
}

// Count returns the number of records in the collection.
func (v *VectorIndex) Count(_ context.Context, name string) (int, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if c, ok := v.collections[name]; ok {
		return len(c.records), nil
	}
	return 0, nil
}

// DeleteBySource removes the records loaded from source.
func (v *VectorIndex) DeleteBySource(_ context.Context, name, source string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	c, ok := v.collections[name]
	if !ok {
		return nil
	}
	kept := c.records[:0]
	for _, r := range c.records {
		if r.Document.Source() != source {
			kept = append(kept, r)
		}
	}
	clear(c.records[len(kept):])
	c.records = kept
	c.byID = make(map[string]int, len(kept))
	for i, r := range kept {
		c.byID[r.ID] = i
	}
	return nil
}

// DeleteCollection removes a collection.
func (v *VectorIndex) DeleteCollection(_ context.Context, name string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.collections, name)
	return nil
}

// Reset removes every collection.
func (v *VectorIndex) Reset(_ context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.collections = make(map[string]*collection)
	return nil
}

// Location returns "memory".
func (v *VectorIndex) Location() string {
	return "memory"
}

// Close is a no-op.
func (v *VectorIndex) Close() error {
	return nil
}
