package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/custodia-labs/interview-pilot/internal/core/domain"
	"github.com/custodia-labs/interview-pilot/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbedder maps texts to fixed vectors by keyword, so tests can
// place documents at known distances.
type mockEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float32
	err     error
	batches [][]string
}

func newMockEmbedder(vectors map[string][]float32) *mockEmbedder {
	return &mockEmbedder{vectors: vectors}
}

func (m *mockEmbedder) vectorFor(text string) []float32 {
	for key, v := range m.vectors {
		if strings.Contains(text, key) {
			return v
		}
	}
	return []float32{0, 0, 1}
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.vectorFor(text), nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.batches = append(m.batches, texts)
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = m.vectorFor(t)
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int { return 3 }
func (m *mockEmbedder) ModelName() string { return "mock-embed" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error { return nil }

// mockLLM records chat requests and returns a canned reply.
type mockLLM struct {
	mu       sync.Mutex
	reply    string
	err      error
	messages [][]driven.ChatMessage
	opts     []driven.ChatOptions
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, messages)
	m.opts = append(m.opts, opts)
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func (m *mockLLM) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

func (m *mockLLM) ModelName() string { return "mock-llm" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error { return nil }

// mockPromptStore serves prompts from a map.
type mockPromptStore struct {
	prompts map[string]string
}

func newMockPromptStore() *mockPromptStore {
	return &mockPromptStore{prompts: map[string]string{
		driven.PromptBaseSystem:   "BASE\nContext: {context}\nCandidate: {candidate_info}\n",
		driven.PromptBehavioral:   "BEHAVIORAL",
		driven.PromptTechnical:    "TECHNICAL",
		driven.PromptSystemDesign: "SYSTEM_DESIGN",
		driven.PromptEvaluation:   "EVALUATE",
	}}
}

func (m *mockPromptStore) Load(name string) (string, error) {
	p, ok := m.prompts[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}

// mockVectorStore returns preset scored results.
type mockVectorStore struct {
	results []domain.ScoredDocument
	err     error

	lastQuery  string
	lastK      int
	lastFilter *domain.Filter
}

func (m *mockVectorStore) AddDocuments(_ context.Context, docs []domain.Document) ([]string, error) {
	return make([]string, len(docs)), m.err
}

func (m *mockVectorStore) SimilaritySearch(
	ctx context.Context, query string, k int, filter *domain.Filter,
) ([]domain.Document, error) {
	scored, err := m.SimilaritySearchWithScore(ctx, query, k, filter)
	docs := make([]domain.Document, len(scored))
	for i, s := range scored {
		docs[i] = s.Document
	}
	return docs, err
}

func (m *mockVectorStore) SimilaritySearchWithScore(
	_ context.Context, query string, k int, filter *domain.Filter,
) ([]domain.ScoredDocument, error) {
	m.lastQuery, m.lastK, m.lastFilter = query, k, filter
	if m.err != nil {
		return nil, m.err
	}
	if k < len(m.results) {
		return m.results[:k], nil
	}
	return m.results, nil
}

func (m *mockVectorStore) Stats(_ context.Context) (domain.CollectionStats, error) {
	return domain.CollectionStats{Count: len(m.results)}, m.err
}

func (m *mockVectorStore) DeleteSource(_ context.Context, _ string) error { return m.err }
func (m *mockVectorStore) DeleteCollection(_ context.Context) error { return m.err }
func (m *mockVectorStore) Reset(_ context.Context) error { return m.err }

// mockPublisher captures published summaries.
type mockPublisher struct {
	mu        sync.Mutex
	summaries []domain.SessionSummary
	err       error
}

func (m *mockPublisher) PublishSessionEnded(_ context.Context, s domain.SessionSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summaries = append(m.summaries, s)
	return m.err
}

func (m *mockPublisher) Close() error { return nil }

// failingSessionStore fails every call.
type failingSessionStore struct{}

var errStoreDown = errors.New("store down")

func (failingSessionStore) Save(context.Context, domain.SessionMetrics) error { return errStoreDown }
func (failingSessionStore) Get(context.Context, string) (*domain.SessionMetrics, error) {
	return nil, errStoreDown
}
func (failingSessionStore) List(context.Context, int) ([]domain.SessionMetrics, error) {
	return nil, errStoreDown
}
func (failingSessionStore) Delete(context.Context, string) error { return errStoreDown }

// mockLoader returns preset documents.
type mockLoader struct {
	docs []domain.Document
}

func (m *mockLoader) LoadFile(_ context.Context, path string) []domain.Document {
	var out []domain.Document
	for _, d := range m.docs {
		if d.Source() == path {
			out = append(out, d)
		}
	}
	return out
}

func (m *mockLoader) LoadDirectory(_ context.Context, _ string, _ bool) []domain.Document {
	return m.docs
}

func (m *mockLoader) Resolve(path string) string { return path }

func (m *mockLoader) Supports(path string) bool {
	return strings.HasSuffix(path, ".md") || strings.HasSuffix(path, ".txt")
}

// passthroughPipeline turns each document into one chunk.
type passthroughPipeline struct {
	err error
}

func (p passthroughPipeline) Process(_ context.Context, doc *domain.Document) ([]domain.Document, error) {
	if p.err != nil {
		return nil, p.err
	}
	return []domain.Document{{Content: doc.Content, Metadata: doc.Metadata.Clone()}}, nil
}

// chanWatcher delivers events from a test-controlled channel.
type chanWatcher struct {
	events chan driven.FileEvent
	err    error
}

func (w *chanWatcher) Watch(_ context.Context, _ string) (<-chan driven.FileEvent, error) {
	if w.err != nil {
		return nil, w.err
	}
	return w.events, nil
}

func (w *chanWatcher) Close() error { return nil }
