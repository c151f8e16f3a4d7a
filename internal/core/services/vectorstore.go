package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/interview-pilot/internal/core/domain"
	"github.com/custodia-labs/interview-pilot/internal/core/ports/driven"
	"github.com/custodia-labs/interview-pilot/internal/core/ports/driving"
	"github.com/custodia-labs/interview-pilot/internal/logger"
)

// Ensure VectorStoreManager implements the interface.
var _ driving.VectorStore = (*VectorStoreManager)(nil)

const (
	// DefaultCollection is the knowledge collection name.
	DefaultCollection = "interview_knowledge"

	// DefaultBatchSize is the number of documents embedded per request.
	DefaultBatchSize = 100
)

// VectorStoreManager embeds documents and stores them in a single named
// collection of a VectorIndex.
type VectorStoreManager struct {
	index      driven.VectorIndex
	embedder   driven.EmbeddingService
	collection string
	batchSize  int
	limiter    *rate.Limiter
	newID      func() string

	mu      sync.Mutex
	ensured bool
}

// VectorStoreOption configures a VectorStoreManager.
type VectorStoreOption func(*VectorStoreManager)

// WithCollection sets the collection name.
func WithCollection(name string) VectorStoreOption {
	return func(m *VectorStoreManager) {
		if name != "" {
			m.collection = name
		}
	}
}

// WithBatchSize sets how many documents are embedded per request.
func WithBatchSize(n int) VectorStoreOption {
	return func(m *VectorStoreManager) {
		if n > 0 {
			m.batchSize = n
		}
	}
}

// WithRateLimit caps embedding requests per second. Zero or less disables pacing.
func WithRateLimit(rps float64) VectorStoreOption {
	return func(m *VectorStoreManager) {
		if rps <= 0 {
			m.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		m.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithIDGenerator overrides document ID generation.
func WithIDGenerator(fn func() string) VectorStoreOption {
	return func(m *VectorStoreManager) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// NewVectorStoreManager creates a manager over index using embedder.
func NewVectorStoreManager(
	index driven.VectorIndex,
	embedder driven.EmbeddingService,
	opts ...VectorStoreOption,
) *VectorStoreManager {
	m := &VectorStoreManager{
		index:      index,
		embedder:   embedder,
		collection: DefaultCollection,
		batchSize:  DefaultBatchSize,
		limiter:    rate.NewLimiter(rate.Inf, 1),
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Collection returns the collection name.
func (m *VectorStoreManager) Collection() string {
	return m.collection
}

func (m *VectorStoreManager) ready() error {
	if m.index == nil {
		return domain.ErrVectorIndexUnavailable
	}
	if m.embedder == nil {
		return domain.ErrEmbeddingUnavailable
	}
	return nil
}

// AddDocuments embeds docs in batches and stores them under fresh IDs.
// The returned IDs are in input order. Adding the same content twice
// stores it twice.
func (m *VectorStoreManager) AddDocuments(ctx context.Context, docs []domain.Document) (ids []string, err error) {
	ctx, span := startSpan(ctx, "vectorstore.add_documents",
		attribute.String("collection", m.collection),
		attribute.Int("documents", len(docs)))
	defer func() { endSpan(span, err) }()

	if err := m.ready(); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return []string{}, nil
	}

	ids = make([]string, 0, len(docs))
	for start := 0; start < len(docs); start += m.batchSize {
		end := min(start+m.batchSize, len(docs))
		batch := docs[start:end]

		if err := m.limiter.Wait(ctx); err != nil {
			return ids, err
		}

		texts := make([]string, len(batch))
		for i, d := range batch {
			texts[i] = d.Content
		}

		vectors, err := m.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return ids, fmt.Errorf("embed batch %d-%d: %w", start, end, err)
		}
		if len(vectors) != len(batch) {
			return ids, fmt.Errorf("embed batch %d-%d: got %d vectors for %d texts", start, end, len(vectors), len(batch))
		}

		records := make([]driven.VectorRecord, len(batch))
		for i, d := range batch {
			id := m.newID()
			d.ID = id
			d.Metadata = d.Metadata.Clone()
			records[i] = driven.VectorRecord{ID: id, Document: d, Embedding: vectors[i]}
		}

		if err := m.upsert(ctx, len(vectors[0]), records); err != nil {
			return ids, fmt.Errorf("upsert batch %d-%d: %w", start, end, err)
		}
		for _, r := range records {
			ids = append(ids, r.ID)
		}
		logger.Debug("Stored batch %d-%d of %d", start, end, len(docs))
	}

	logger.Info("Added %d documents to vector store", len(ids))
	return ids, nil
}

// upsert writes records, creating the collection first if needed. When the
// collection was dropped behind our back (another process ran a delete),
// it is recreated and the write retried once.
func (m *VectorStoreManager) upsert(ctx context.Context, dims int, records []driven.VectorRecord) error {
	if err := m.ensureCollection(ctx, dims); err != nil {
		return err
	}
	err := m.index.Upsert(ctx, m.collection, records)
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	logger.Warn("Collection %s disappeared; recreating", m.collection)
	m.mu.Lock()
	m.ensured = false
	m.mu.Unlock()
	if err := m.ensureCollection(ctx, dims); err != nil {
		return err
	}
	return m.index.Upsert(ctx, m.collection, records)
}

func (m *VectorStoreManager) ensureCollection(ctx context.Context, dims int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ensured {
		return nil
	}
	if err := m.index.EnsureCollection(ctx, m.collection, dims); err != nil {
		return fmt.Errorf("ensure collection %s: %w", m.collection, err)
	}
	m.ensured = true
	return nil
}

// SimilaritySearch returns up to k documents nearest to query.
func (m *VectorStoreManager) SimilaritySearch(
	ctx context.Context, query string, k int, filter *domain.Filter,
) ([]domain.Document, error) {
	scored, err := m.SimilaritySearchWithScore(ctx, query, k, filter)
	if err != nil {
		return nil, err
	}
	docs := make([]domain.Document, len(scored))
	for i, s := range scored {
		docs[i] = s.Document
	}
	return docs, nil
}

// SimilaritySearchWithScore returns up to k documents with their cosine
// distance from query, nearest first.
func (m *VectorStoreManager) SimilaritySearchWithScore(
	ctx context.Context, query string, k int, filter *domain.Filter,
) (results []domain.ScoredDocument, err error) {
	ctx, span := startSpan(ctx, "vectorstore.similarity_search",
		attribute.String("collection", m.collection),
		attribute.Int("k", k))
	defer func() { endSpan(span, err) }()

	if err := m.ready(); err != nil {
		return nil, err
	}
	if k <= 0 {
		return []domain.ScoredDocument{}, nil
	}

	vector, err := m.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := m.index.Query(ctx, m.collection, vector, k, filter)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", m.collection, err)
	}

	results = make([]domain.ScoredDocument, len(hits))
	for i, h := range hits {
		results[i] = domain.ScoredDocument{Document: h.Document, Distance: h.Distance}
	}
	return results, nil
}

// Stats returns the collection name, document count and persist location.
func (m *VectorStoreManager) Stats(ctx context.Context) (domain.CollectionStats, error) {
	if m.index == nil {
		return domain.CollectionStats{}, domain.ErrVectorIndexUnavailable
	}
	count, err := m.index.Count(ctx, m.collection)
	if err != nil {
		return domain.CollectionStats{}, fmt.Errorf("count %s: %w", m.collection, err)
	}
	return domain.CollectionStats{
		Name:             m.collection,
		Count:            count,
		PersistDirectory: m.index.Location(),
	}, nil
}

// DeleteSource removes the chunks loaded from source, so the file can be
// re-added without duplicates.
func (m *VectorStoreManager) DeleteSource(ctx context.Context, source string) error {
	if m.index == nil {
		return domain.ErrVectorIndexUnavailable
	}
	if err := m.index.DeleteBySource(ctx, m.collection, source); err != nil {
		return fmt.Errorf("delete chunks of %s: %w", source, err)
	}
	logger.Debug("Removed chunks of %s from %s", source, m.collection)
	return nil
}

// DeleteCollection removes the collection. The next AddDocuments recreates it.
func (m *VectorStoreManager) DeleteCollection(ctx context.Context) error {
	if m.index == nil {
		return domain.ErrVectorIndexUnavailable
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.index.DeleteCollection(ctx, m.collection); err != nil {
		return fmt.Errorf("delete collection %s: %w", m.collection, err)
	}
	m.ensured = false
	logger.Warn("Deleted collection: %s", m.collection)
	return nil
}

// Reset wipes the backing store.
func (m *VectorStoreManager) Reset(ctx context.Context) error {
	if m.index == nil {
		return domain.ErrVectorIndexUnavailable
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.index.Reset(ctx); err != nil {
		return fmt.Errorf("reset vector store: %w", err)
	}
	m.ensured = false
	logger.Warn("Vector store reset")
	return nil
}
