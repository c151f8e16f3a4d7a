package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/interview-pilot/internal/core/domain"
	"github.com/custodia-labs/interview-pilot/internal/core/ports/driven"
	"github.com/custodia-labs/interview-pilot/internal/logger"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// SupportedExtensions lists loadable file types in directory load order.
var SupportedExtensions = []string{".md", ".txt", ".pdf"}

// Loader loads knowledge-base files relative to a base directory.
type Loader struct {
	baseDir string
	pdf     PageExtractor
}

// Option configures the loader.
type Option func(*Loader)

// WithPageExtractor replaces the PDF page extractor.
func WithPageExtractor(e PageExtractor) Option {
	return func(l *Loader) {
		if e != nil {
			l.pdf = e
		}
	}
}

// New creates a loader rooted at baseDir.
func New(baseDir string, opts ...Option) *Loader {
	if abs, err := filepath.Abs(baseDir); err == nil {
		baseDir = abs
	}

	l := &Loader{
		baseDir: baseDir,
		pdf:     NewPDFToText(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// BaseDir returns the absolute base directory.
func (l *Loader) BaseDir() string {
	return l.baseDir
}

// Supports reports whether the file extension is loadable.
func (l *Loader) Supports(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SupportedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// LoadFile loads a single file. Failures are logged and yield no documents.
func (l *Loader) LoadFile(ctx context.Context, path string) []domain.Document {
	path = l.resolve(path)

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		logger.Warn("File not found: %s", path)
		return []domain.Document{}
	}

	ext := strings.ToLower(filepath.Ext(path))
	var docs []domain.Document
	switch ext {
	case ".md", ".txt":
		docs, err = l.loadText(path, ext)
	case ".pdf":
		docs, err = l.loadPDF(ctx, path)
	default:
		logger.Warn("Unsupported file type: %s", ext)
		return []domain.Document{}
	}

	if err != nil {
		logger.Error("Error loading %s: %v", path, err)
		return []domain.Document{}
	}

	logger.Debug("Loaded %d document(s) from %s", len(docs), path)
	return docs
}

// LoadDirectory loads every supported file under dir, grouped by
// extension in SupportedExtensions order and lexically within a group.
func (l *Loader) LoadDirectory(ctx context.Context, dir string, recursive bool) []domain.Document {
	if dir == "" {
		dir = l.baseDir
	} else {
		dir = l.resolve(dir)
	}

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		logger.Warn("Directory not found: %s", dir)
		return []domain.Document{}
	}

	files, err := listFiles(dir, recursive)
	if err != nil {
		logger.Error("Error walking %s: %v", dir, err)
		return []domain.Document{}
	}

	docs := []domain.Document{}
	for _, ext := range SupportedExtensions {
		for _, path := range files {
			if ctx.Err() != nil {
				logger.Warn("Directory load cancelled: %v", ctx.Err())
				return docs
			}
			if strings.ToLower(filepath.Ext(path)) == ext {
				docs = append(docs, l.LoadFile(ctx, path)...)
			}
		}
	}

	logger.Info("Loaded %d documents from %s", len(docs), dir)
	return docs
}

// listFiles returns regular files under dir in lexical order.
func listFiles(dir string, recursive bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func (l *Loader) loadText(path, ext string) ([]domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, errors.New("file is not valid UTF-8")
	}

	return []domain.Document{{
		Content:  string(data),
		Metadata: l.baseMetadata(path, ext),
	}}, nil
}

func (l *Loader) loadPDF(ctx context.Context, path string) ([]domain.Document, error) {
	pages, err := l.pdf.ExtractPages(ctx, path)
	if err != nil {
		return nil, err
	}

	docs := make([]domain.Document, 0, len(pages))
	for i, text := range pages {
		if strings.TrimSpace(text) == "" {
			continue
		}
		meta := l.baseMetadata(path, ".pdf")
		meta[domain.MetaPage] = i + 1
		docs = append(docs, domain.Document{Content: text, Metadata: meta})
	}
	return docs, nil
}

func (l *Loader) baseMetadata(path, ext string) domain.Metadata {
	return domain.Metadata{
		domain.MetaSource:   path,
		domain.MetaFilename: filepath.Base(path),
		domain.MetaCategory: l.Category(path),
		domain.MetaFileType: ext,
	}
}

// Category derives the category from the first path segment below the
// base directory. Files directly under the base, or outside it, are "general".
func (l *Loader) Category(path string) string {
	rel, err := filepath.Rel(l.baseDir, l.resolve(path))
	if err != nil {
		return domain.CategoryGeneral
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return domain.CategoryGeneral
	}

	parts := strings.Split(rel, "/")
	if len(parts) > 1 {
		return parts[0]
	}
	return domain.CategoryGeneral
}

// resolve makes relative paths relative to the base directory.
// Resolve returns the path recorded as a document's source for path.
func (l *Loader) Resolve(path string) string {
	return l.resolve(path)
}

func (l *Loader) resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(l.baseDir, path)
}
