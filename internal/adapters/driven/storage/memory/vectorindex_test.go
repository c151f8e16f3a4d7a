package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/interview-pilot/internal/core/domain"
	"github.com/custodia-labs/interview-pilot/internal/core/ports/driven"
)

func record(id, category string, vec ...float32) driven.VectorRecord {
	return driven.VectorRecord{
		ID: id,
		Document: domain.Document{
			Content:  "content " + id,
			Metadata: domain.Metadata{domain.MetaCategory: category},
		},
		Embedding: vec,
	}
}

func TestVectorIndex_UpsertRequiresCollection(t *testing.T) {
	idx := NewVectorIndex()

	err := idx.Upsert(context.Background(), "kb", []driven.VectorRecord{record("a", "technical", 1, 0)})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVectorIndex_EnsureCollection_DimensionMismatch(t *testing.T) {
	idx := NewVectorIndex()
	ctx := context.Background()

	require.NoError(t, idx.EnsureCollection(ctx, "kb", 2))
	require.NoError(t, idx.EnsureCollection(ctx, "kb", 2))

	assert.ErrorIs(t, idx.EnsureCollection(ctx, "kb", 3), domain.ErrInvalidInput)
	assert.ErrorIs(t, idx.EnsureCollection(ctx, "other", 0), domain.ErrInvalidInput)
}

func TestVectorIndex_QueryOrdersByDistance(t *testing.T) {
	idx := NewVectorIndex()
	ctx := context.Background()
	require.NoError(t, idx.EnsureCollection(ctx, "kb", 2))
	require.NoError(t, idx.Upsert(ctx, "kb", []driven.VectorRecord{
		record("far", "behavioral", 0, 1),
		record("near", "technical", 1, 0),
		record("mid", "technical", 1, 1),
	}))

	hits, err := idx.Query(ctx, "kb", []float32{1, 0}, 2, nil)

	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "near", hits[0].Document.ID)
	assert.InDelta(t, 0, hits[0].Distance, 1e-9)
	assert.Equal(t, "mid", hits[1].Document.ID)
}

func TestVectorIndex_QueryFilter(t *testing.T) {
	idx := NewVectorIndex()
	ctx := context.Background()
	require.NoError(t, idx.EnsureCollection(ctx, "kb", 2))
	require.NoError(t, idx.Upsert(ctx, "kb", []driven.VectorRecord{
		record("a", "behavioral", 1, 0),
		record("b", "technical", 1, 0),
	}))

	hits, err := idx.Query(ctx, "kb", []float32{1, 0}, 5, domain.CategoryFilter("technical"))

	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "b", hits[0].Document.ID)
}

func TestVectorIndex_QueryMissingCollection(t *testing.T) {
	hits, err := NewVectorIndex().Query(context.Background(), "missing", []float32{1}, 3, nil)

	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestVectorIndex_UpsertReplacesAndCounts(t *testing.T) {
	idx := NewVectorIndex()
	ctx := context.Background()
	require.NoError(t, idx.EnsureCollection(ctx, "kb", 2))
	require.NoError(t, idx.Upsert(ctx, "kb", []driven.VectorRecord{record("a", "x", 1, 0)}))
	require.NoError(t, idx.Upsert(ctx, "kb", []driven.VectorRecord{record("a", "y", 0, 1), record("b", "x", 1, 0)}))

	count, err := idx.Count(ctx, "kb")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	hits, err := idx.Query(ctx, "kb", []float32{0, 1}, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, "y", hits[0].Document.Category())
}

func TestVectorIndex_UpsertRejectsWrongDimensions(t *testing.T) {
	idx := NewVectorIndex()
	ctx := context.Background()
	require.NoError(t, idx.EnsureCollection(ctx, "kb", 2))

	err := idx.Upsert(ctx, "kb", []driven.VectorRecord{record("a", "x", 1, 0, 0)})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestVectorIndex_DeleteAndReset(t *testing.T) {
	idx := NewVectorIndex()
	ctx := context.Background()
	require.NoError(t, idx.EnsureCollection(ctx, "a", 1))
	require.NoError(t, idx.EnsureCollection(ctx, "b", 1))
	require.NoError(t, idx.Upsert(ctx, "a", []driven.VectorRecord{record("1", "x", 1)}))

	require.NoError(t, idx.DeleteCollection(ctx, "a"))
	require.NoError(t, idx.DeleteCollection(ctx, "a"))
	count, _ := idx.Count(ctx, "a")
	assert.Zero(t, count)

	require.NoError(t, idx.Reset(ctx))
	assert.ErrorIs(t, idx.Upsert(ctx, "b", nil), domain.ErrNotFound)
	assert.Equal(t, "memory", idx.Location())
}

func TestVectorIndex_DeleteBySource(t *testing.T) {
	idx := NewVectorIndex()
	ctx := context.Background()
	require.NoError(t, idx.DeleteBySource(ctx, "kb", "a.md"))
	require.NoError(t, idx.EnsureCollection(ctx, "kb", 1))

	recs := []driven.VectorRecord{record("1", "x", 1), record("2", "x", 1), record("3", "x", 1)}
	recs[0].Document.Metadata[domain.MetaSource] = "a.md"
	recs[1].Document.Metadata[domain.MetaSource] = "b.md"
	recs[2].Document.Metadata[domain.MetaSource] = "a.md"
	require.NoError(t, idx.Upsert(ctx, "kb", recs))

	require.NoError(t, idx.DeleteBySource(ctx, "kb", "a.md"))

	count, _ := idx.Count(ctx, "kb")
	assert.Equal(t, 1, count)
	hits, err := idx.Query(ctx, "kb", []float32{1}, 5, nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "2", hits[0].Document.ID)

	// Upserting the surviving ID still replaces rather than appends.
	require.NoError(t, idx.Upsert(ctx, "kb", []driven.VectorRecord{recs[1]}))
	count, _ = idx.Count(ctx, "kb")
	assert.Equal(t, 1, count)
}
