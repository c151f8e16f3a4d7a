package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/interview-pilot/internal/adapters/driven/storage/vecmath"
	"github.com/custodia-labs/interview-pilot/internal/core/domain"
	"github.com/custodia-labs/interview-pilot/internal/core/ports/driven"
)

// vectorIndex implements driven.VectorIndex.
type vectorIndex struct {
	store *Store
}

var _ driven.VectorIndex = (*vectorIndex)(nil)

// EnsureCollection creates the collection row if missing and checks dimensions.
func (v *vectorIndex) EnsureCollection(ctx context.Context, name string, dimensions int) error {
	if dimensions <= 0 {
		return fmt.Errorf("%w: dimensions must be positive", domain.ErrInvalidInput)
	}

	existing, err := v.dimensions(ctx, name)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		_, err = v.store.db.ExecContext(ctx, `
			INSERT INTO collections (name, dimensions, created_at) VALUES (?, ?, ?)
			ON CONFLICT(name) DO NOTHING
		`, name, dimensions, time.Now().UTC().UnixNano())
		if err != nil {
			return fmt.Errorf("creating collection: %w", err)
		}
		return nil
	case err != nil:
		return err
	case existing != dimensions:
		return fmt.Errorf("%w: collection %s has %d dimensions, not %d",
			domain.ErrInvalidInput, name, existing, dimensions)
	}
	return nil
}

func (v *vectorIndex) dimensions(ctx context.Context, name string) (int, error) {
	var dims int
	err := v.store.db.QueryRowContext(ctx, "SELECT dimensions FROM collections WHERE name = ?", name).Scan(&dims)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("collection %s: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("reading collection: %w", err)
	}
	return dims, nil
}

// Upsert writes records in a single transaction, replacing any with the same ID.
func (v *vectorIndex) Upsert(ctx context.Context, name string, records []driven.VectorRecord) error {
	dims, err := v.dimensions(ctx, name)
	if err != nil {
		return err
	}
	for _, r := range records {
		if len(r.Embedding) != dims {
			return fmt.Errorf("%w: record %s has %d dimensions, collection has %d",
				domain.ErrInvalidInput, r.ID, len(r.Embedding), dims)
		}
	}

	tx, err := v.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after commit is a no-op

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO vectors (collection, id, content, category, metadata, embedding)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(collection, id) DO UPDATE SET
			content = excluded.content,
			category = excluded.category,
			metadata = excluded.metadata,
			embedding = excluded.embedding
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		metadataJSON, err := json.Marshal(r.Document.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling metadata: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, name, r.ID, r.Document.Content,
			r.Document.Metadata.String(domain.MetaCategory), string(metadataJSON),
			float32SliceToBytes(r.Embedding)); err != nil {
			return fmt.Errorf("saving vector %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Query scans the collection and returns the k nearest matches.
// Category filters are pushed into SQL; other fields are matched after decoding.
func (v *vectorIndex) Query(
	ctx context.Context, name string, vector []float32, k int, filter *domain.Filter,
) ([]driven.VectorHit, error) {
	if k <= 0 {
		return []driven.VectorHit{}, nil
	}

	query := "SELECT id, content, metadata, embedding FROM vectors WHERE collection = ?"
	args := []any{name}
	if filter != nil && filter.Field == domain.MetaCategory {
		query += " AND category = ?"
		args = append(args, filter.Value)
	}
	query += " ORDER BY rowid"

	rows, err := v.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying vectors: %w", err)
	}
	defer rows.Close()

	hits := []driven.VectorHit{}
	for rows.Next() {
		var (
			doc          domain.Document
			metadataJSON string
			blob         []byte
		)
		if err := rows.Scan(&doc.ID, &doc.Content, &metadataJSON, &blob); err != nil {
			return nil, fmt.Errorf("scanning vector: %w", err)
		}
		if err := json.Unmarshal([]byte(metadataJSON), &doc.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshalling metadata for %s: %w", doc.ID, err)
		}
		if !filter.Matches(doc.Metadata) {
			continue
		}
		hits = append(hits, driven.VectorHit{
			Document: doc,
			Distance: vecmath.CosineDistance(vector, bytesToFloat32Slice(blob)),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating vectors: %w", err)
	}

	return vecmath.TopK(hits, k), nil
}

// Count returns the number of vectors in the collection.
func (v *vectorIndex) Count(ctx context.Context, name string) (int, error) {
	var n int
	if err := v.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM vectors WHERE collection = ?", name).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting vectors: %w", err)
	}
	return n, nil
}

// DeleteBySource removes the vectors whose metadata names source.
func (v *vectorIndex) DeleteBySource(ctx context.Context, name, source string) error {
	if _, err := v.store.db.ExecContext(ctx,
		"DELETE FROM vectors WHERE collection = ? AND json_extract(metadata, '$.source') = ?",
		name, source); err != nil {
		return fmt.Errorf("deleting vectors for %s: %w", source, err)
	}
	return nil
}

// DeleteCollection removes the collection and, through the foreign key, its vectors.
func (v *vectorIndex) DeleteCollection(ctx context.Context, name string) error {
	tx, err := v.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after commit is a no-op

	if _, err := tx.ExecContext(ctx, "DELETE FROM vectors WHERE collection = ?", name); err != nil {
		return fmt.Errorf("deleting vectors: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM collections WHERE name = ?", name); err != nil {
		return fmt.Errorf("deleting collection: %w", err)
	}
	return tx.Commit()
}

// Reset removes every collection.
func (v *vectorIndex) Reset(ctx context.Context) error {
	tx, err := v.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after commit is a no-op

	if _, err := tx.ExecContext(ctx, "DELETE FROM vectors"); err != nil {
		return fmt.Errorf("deleting vectors: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM collections"); err != nil {
		return fmt.Errorf("deleting collections: %w", err)
	}
	return tx.Commit()
}

// Location returns the data directory.
func (v *vectorIndex) Location() string {
	return v.store.dir
}

// Close closes the underlying store.
func (v *vectorIndex) Close() error {
	return v.store.Close()
}
