package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/interview-pilot/internal/core/domain"
	"github.com/custodia-labs/interview-pilot/internal/core/ports/driven"
)

func testKnowledgeBase() *mockLoader {
	return &mockLoader{docs: []domain.Document{
		kbDoc("goroutine basics", "technical"),
		kbDoc("conflict with a peer", "behavioral"),
	}}
}

func TestIngestService_IngestDirectory(t *testing.T) {
	store, _ := newTestVectorStore()
	svc := NewIngestService(testKnowledgeBase(), passthroughPipeline{}, store, nil)
	ctx := context.Background()

	report, err := svc.IngestDirectory(ctx, "kb", true)

	require.NoError(t, err)
	assert.Equal(t, 2, report.Documents)
	assert.Equal(t, 2, report.Chunks)
	assert.Len(t, report.IDs, 2)

	stats, _ := store.Stats(ctx)
	assert.Equal(t, 2, stats.Count)
}

func TestIngestService_IngestFile(t *testing.T) {
	store, _ := newTestVectorStore()
	svc := NewIngestService(testKnowledgeBase(), passthroughPipeline{}, store, nil)

	report, err := svc.IngestFile(context.Background(), "technical.md")

	require.NoError(t, err)
	assert.Equal(t, 1, report.Documents)
	assert.Equal(t, 1, report.Chunks)
}

func TestIngestService_NothingToIndex(t *testing.T) {
	store, embedder := newTestVectorStore()
	svc := NewIngestService(&mockLoader{}, passthroughPipeline{}, store, nil)

	report, err := svc.IngestDirectory(context.Background(), "empty", false)

	require.NoError(t, err)
	assert.Zero(t, report.Chunks)
	assert.Empty(t, report.IDs)
	assert.Empty(t, embedder.batches)
}

func TestIngestService_PipelineError(t *testing.T) {
	store, _ := newTestVectorStore()
	svc := NewIngestService(testKnowledgeBase(), passthroughPipeline{err: errors.New("bad chunk")}, store, nil)

	_, err := svc.IngestDirectory(context.Background(), "kb", true)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad chunk")
}

func TestIngestService_NotConfigured(t *testing.T) {
	ctx := context.Background()

	_, err := NewIngestService(nil, passthroughPipeline{}, &mockVectorStore{}, nil).IngestDirectory(ctx, "", true)
	assert.ErrorIs(t, err, domain.ErrMissingConfig)

	_, err = NewIngestService(&mockLoader{}, passthroughPipeline{}, nil, nil).IngestFile(ctx, "a.md")
	assert.ErrorIs(t, err, domain.ErrVectorIndexUnavailable)

	err = NewIngestService(&mockLoader{}, passthroughPipeline{}, &mockVectorStore{}, nil).Watch(ctx, "kb", nil)
	assert.ErrorIs(t, err, domain.ErrMissingConfig)
}

func TestIngestService_Watch(t *testing.T) {
	store, _ := newTestVectorStore()
	watcher := &chanWatcher{events: make(chan driven.FileEvent, 8)}
	svc := NewIngestService(testKnowledgeBase(), passthroughPipeline{}, store, watcher)
	svc.SetDebounce(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var ingested []string
	done := make(chan error, 1)
	go func() {
		done <- svc.Watch(ctx, "kb", func(path string, _ domain.IngestReport) {
			mu.Lock()
			ingested = append(ingested, path)
			mu.Unlock()
		})
	}()

	// A burst of writes to one file collapses into one ingest.
	watcher.events <- driven.FileEvent{Path: "technical.md", Type: driven.FileCreated}
	watcher.events <- driven.FileEvent{Path: "technical.md", Type: driven.FileModified}
	watcher.events <- driven.FileEvent{Path: "notes.docx", Type: driven.FileModified}
	watcher.events <- driven.FileEvent{Path: "behavioral.md", Type: driven.FileRemoved}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(ingested) == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	mu.Lock()
	assert.Equal(t, []string{"technical.md"}, ingested)
	mu.Unlock()
	stats, _ := store.Stats(context.Background())
	assert.Equal(t, 1, stats.Count)
}

func TestIngestService_WatchStopsWhenEventsClose(t *testing.T) {
	watcher := &chanWatcher{events: make(chan driven.FileEvent)}
	svc := NewIngestService(&mockLoader{}, passthroughPipeline{}, &mockVectorStore{}, watcher)
	close(watcher.events)

	assert.NoError(t, svc.Watch(context.Background(), "kb", nil))
}

func TestIngestService_ReingestReplacesChunks(t *testing.T) {
	store, _ := newTestVectorStore()
	svc := NewIngestService(testKnowledgeBase(), passthroughPipeline{}, store, nil)
	ctx := context.Background()

	_, err := svc.IngestDirectory(ctx, "kb", true)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := svc.IngestFile(ctx, "technical.md")
		require.NoError(t, err)
	}
	_, err = svc.IngestDirectory(ctx, "kb", true)
	require.NoError(t, err)

	stats, _ := store.Stats(ctx)
	assert.Equal(t, 2, stats.Count)
	docs, err := store.SimilaritySearch(ctx, "goroutine", 5, nil)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestIngestService_WatchDropsRemovedFiles(t *testing.T) {
	store, _ := newTestVectorStore()
	watcher := &chanWatcher{events: make(chan driven.FileEvent, 4)}
	svc := NewIngestService(testKnowledgeBase(), passthroughPipeline{}, store, watcher)
	svc.SetDebounce(20 * time.Millisecond)
	_, err := svc.IngestDirectory(context.Background(), "kb", true)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- svc.Watch(ctx, "kb", nil) }()

	watcher.events <- driven.FileEvent{Path: "behavioral.md", Type: driven.FileRemoved}

	require.Eventually(t, func() bool {
		stats, _ := store.Stats(context.Background())
		return stats.Count == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	docs, err := store.SimilaritySearch(context.Background(), "conflict", 5, nil)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "technical.md", docs[0].Source())
}
