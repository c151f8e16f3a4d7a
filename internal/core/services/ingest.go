package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/custodia-labs/interview-pilot/internal/core/domain"
	"github.com/custodia-labs/interview-pilot/internal/core/ports/driven"
	"github.com/custodia-labs/interview-pilot/internal/core/ports/driving"
	"github.com/custodia-labs/interview-pilot/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// DefaultWatchDebounce is how long a file must be quiet before it is re-ingested.
const DefaultWatchDebounce = 500 * time.Millisecond

// IngestService runs the load, chunk and index pipeline.
type IngestService struct {
	loader   driven.DocumentLoader
	pipeline driven.PostProcessorPipeline
	store    driving.VectorStore
	watcher  driven.FileWatcher
	debounce time.Duration
}

// NewIngestService creates an ingest service. watcher is only needed for Watch.
func NewIngestService(
	loader driven.DocumentLoader,
	pipeline driven.PostProcessorPipeline,
	store driving.VectorStore,
	watcher driven.FileWatcher,
) *IngestService {
	return &IngestService{
		loader:   loader,
		pipeline: pipeline,
		store:    store,
		watcher:  watcher,
		debounce: DefaultWatchDebounce,
	}
}

// SetDebounce changes the quiet period used by Watch.
func (s *IngestService) SetDebounce(d time.Duration) {
	if d > 0 {
		s.debounce = d
	}
}

// IngestDirectory loads, chunks and indexes every supported file under dir.
func (s *IngestService) IngestDirectory(ctx context.Context, dir string, recursive bool) (domain.IngestReport, error) {
	if err := s.ready(); err != nil {
		return domain.IngestReport{}, err
	}
	logger.Section("Ingest")
	logger.Info("Loading knowledge base from %s", dir)
	docs := s.loader.LoadDirectory(ctx, dir, recursive)
	return s.index(ctx, "ingest.directory", docs, sourcesOf(docs))
}

// IngestFile loads, chunks and indexes one file, replacing whatever was
// indexed for it before.
func (s *IngestService) IngestFile(ctx context.Context, path string) (domain.IngestReport, error) {
	if err := s.ready(); err != nil {
		return domain.IngestReport{}, err
	}
	docs := s.loader.LoadFile(ctx, path)
	return s.index(ctx, "ingest.file", docs, []string{s.loader.Resolve(path)})
}

// sourcesOf returns the distinct sources of docs in first-seen order.
func sourcesOf(docs []domain.Document) []string {
	seen := make(map[string]bool, len(docs))
	var out []string
	for i := range docs {
		src := docs[i].Source()
		if src == "" || seen[src] {
			continue
		}
		seen[src] = true
		out = append(out, src)
	}
	return out
}

func (s *IngestService) ready() error {
	switch {
	case s.loader == nil:
		return fmt.Errorf("document loader: %w", domain.ErrMissingConfig)
	case s.pipeline == nil:
		return fmt.Errorf("chunk pipeline: %w", domain.ErrMissingConfig)
	case s.store == nil:
		return domain.ErrVectorIndexUnavailable
	}
	return nil
}

// index chunks docs and stores them. The chunks previously stored for each
// of sources are removed first, so re-ingesting a file does not duplicate it.
func (s *IngestService) index(
	ctx context.Context, spanName string, docs []domain.Document, sources []string,
) (report domain.IngestReport, err error) {
	start := time.Now()
	ctx, span := startSpan(ctx, spanName, attribute.Int("documents", len(docs)))
	defer func() { endSpan(span, err) }()

	report.Documents = len(docs)
	report.IDs = []string{}

	var chunks []domain.Document
	for i := range docs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		out, err := s.pipeline.Process(ctx, &docs[i])
		if err != nil {
			return report, fmt.Errorf("chunk %s: %w", docs[i].Source(), err)
		}
		chunks = append(chunks, out...)
	}
	report.Chunks = len(chunks)
	logger.Info("Split %d documents into %d chunks", len(docs), len(chunks))

	for _, src := range sources {
		if err := s.store.DeleteSource(ctx, src); err != nil {
			return report, fmt.Errorf("replace %s: %w", src, err)
		}
	}

	if len(chunks) > 0 {
		ids, err := s.store.AddDocuments(ctx, chunks)
		report.IDs = append(report.IDs, ids...)
		if err != nil {
			return report, fmt.Errorf("index chunks: %w", err)
		}
	}

	report.Duration = time.Since(start)
	span.SetAttributes(attribute.Int("chunks", report.Chunks))
	return report, nil
}

// Watch re-ingests supported files under dir after they are created or
// modified, replacing their old chunks. Bursts of events for one file are
// collapsed by the debounce period. Removed files are dropped from the
// index. Watch returns when ctx is cancelled.
func (s *IngestService) Watch(
	ctx context.Context, dir string, onIngest func(path string, report domain.IngestReport),
) error {
	if err := s.ready(); err != nil {
		return err
	}
	if s.watcher == nil {
		return fmt.Errorf("file watcher: %w", domain.ErrMissingConfig)
	}

	events, err := s.watcher.Watch(ctx, dir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	logger.Info("Watching %s for changes", dir)

	ticker := time.NewTicker(s.debounce / 2)
	defer ticker.Stop()

	pending := make(map[string]time.Time)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !s.loader.Supports(ev.Path) {
				continue
			}
			if ev.Type == driven.FileRemoved {
				delete(pending, ev.Path)
				if err := s.store.DeleteSource(ctx, s.loader.Resolve(ev.Path)); err != nil {
					logger.Warn("Dropping %s from the index failed: %v", ev.Path, err)
					continue
				}
				logger.Info("Removed %s from the index", ev.Path)
				continue
			}
			pending[ev.Path] = time.Now()
		case now := <-ticker.C:
			for path, last := range pending {
				if now.Sub(last) < s.debounce {
					continue
				}
				delete(pending, path)
				report, err := s.IngestFile(ctx, path)
				if err != nil {
					if errors.Is(err, context.Canceled) {
						return nil
					}
					logger.Warn("Re-ingest %s failed: %v", path, err)
					continue
				}
				logger.Info("Re-ingested %s: %d chunks", path, report.Chunks)
				if onIngest != nil {
					onIngest(path, report)
				}
			}
		}
	}
}
