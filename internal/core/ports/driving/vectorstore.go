package driving

import (
	"context"

	"github.com/custodia-labs/interview-pilot/internal/core/domain"
)

// VectorStore manages the knowledge collection: indexing chunks and
// answering similarity queries.
type VectorStore interface {
	// AddDocuments embeds and stores documents, returning one new ID per
	// document in input order.
	AddDocuments(ctx context.Context, docs []domain.Document) ([]string, error)

	// SimilaritySearch returns up to k documents nearest to query.
	SimilaritySearch(ctx context.Context, query string, k int, filter *domain.Filter) ([]domain.Document, error)

	// SimilaritySearchWithScore is SimilaritySearch with cosine distances,
	// ordered by increasing distance.
	SimilaritySearchWithScore(ctx context.Context, query string, k int, filter *domain.Filter) ([]domain.ScoredDocument, error)

	// Stats describes the collection.
	Stats(ctx context.Context) (domain.CollectionStats, error)

	// DeleteSource removes every chunk that was loaded from source.
	DeleteSource(ctx context.Context, source string) error

	// DeleteCollection drops the collection. The next write recreates it.
	DeleteCollection(ctx context.Context) error

	// Reset wipes every collection in the backing store.
	Reset(ctx context.Context) error
}
