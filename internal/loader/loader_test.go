package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/interview-pilot/internal/core/domain"
	"github.com/custodia-labs/interview-pilot/internal/core/ports/driven"
)

// stubExtractor returns fixed pages.
type stubExtractor struct {
	pages []string
	err   error
}

func (s *stubExtractor) ExtractPages(_ context.Context, _ string) ([]string, error) {
	return s.pages, s.err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// knowledgeBase builds a small tree:
//
//	base/intro.md
//	base/behavioral/star.md
//	base/technical/go.txt
//	base/technical/deep/mutex.md
//	base/notes.csv
func knowledgeBase(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "intro.md"), "# Welcome")
	writeFile(t, filepath.Join(base, "behavioral", "star.md"), "Q: Tell me about a conflict.")
	writeFile(t, filepath.Join(base, "technical", "go.txt"), "Goroutines are cheap.")
	writeFile(t, filepath.Join(base, "technical", "deep", "mutex.md"), "A mutex guards state.")
	writeFile(t, filepath.Join(base, "notes.csv"), "a,b,c")
	return base
}

func TestLoader_ImplementsInterface(t *testing.T) {
	var _ driven.DocumentLoader = (*Loader)(nil)
}

func TestLoadFile_Markdown(t *testing.T) {
	base := knowledgeBase(t)
	l := New(base)

	docs := l.LoadFile(context.Background(), filepath.Join("behavioral", "star.md"))

	require.Len(t, docs, 1)
	doc := docs[0]
	assert.Equal(t, "Q: Tell me about a conflict.", doc.Content)
	assert.Equal(t, filepath.Join(base, "behavioral", "star.md"), doc.Metadata[domain.MetaSource])
	assert.Equal(t, "star.md", doc.Metadata[domain.MetaFilename])
	assert.Equal(t, "behavioral", doc.Metadata[domain.MetaCategory])
	assert.Equal(t, ".md", doc.Metadata[domain.MetaFileType])
	assert.NotContains(t, doc.Metadata, domain.MetaPage)
}

func TestLoadFile_TopLevelIsGeneral(t *testing.T) {
	base := knowledgeBase(t)
	docs := New(base).LoadFile(context.Background(), filepath.Join(base, "intro.md"))

	require.Len(t, docs, 1)
	assert.Equal(t, domain.CategoryGeneral, docs[0].Category())
}

func TestLoadFile_Failures(t *testing.T) {
	base := knowledgeBase(t)
	writeFile(t, filepath.Join(base, "bad.txt"), string([]byte{0xff, 0xfe, 0x00}))
	l := New(base)
	ctx := context.Background()

	assert.Empty(t, l.LoadFile(ctx, "missing.md"), "missing file")
	assert.Empty(t, l.LoadFile(ctx, "notes.csv"), "unsupported type")
	assert.Empty(t, l.LoadFile(ctx, "bad.txt"), "invalid utf-8")
	assert.Empty(t, l.LoadFile(ctx, "technical"), "directory")
}

func TestLoadFile_PDF(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "system_design", "scaling.pdf")
	writeFile(t, path, "%PDF-1.4")

	l := New(base, WithPageExtractor(&stubExtractor{
		pages: []string{"Load balancers", "   \n", "Caching layers"},
	}))

	docs := l.LoadFile(context.Background(), path)

	require.Len(t, docs, 2)
	assert.Equal(t, "Load balancers", docs[0].Content)
	assert.Equal(t, 1, docs[0].Metadata[domain.MetaPage])
	assert.Equal(t, "Caching layers", docs[1].Content)
	assert.Equal(t, 3, docs[1].Metadata[domain.MetaPage])
	assert.Equal(t, "system_design", docs[1].Category())
	assert.Equal(t, ".pdf", docs[1].Metadata[domain.MetaFileType])
}

func TestLoadFile_PDFExtractionError(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "broken.pdf")
	writeFile(t, path, "not a pdf")

	l := New(base, WithPageExtractor(&stubExtractor{err: errors.New("corrupt")}))

	assert.Empty(t, l.LoadFile(context.Background(), path))
}

func TestLoadDirectory_Recursive(t *testing.T) {
	base := knowledgeBase(t)
	docs := New(base).LoadDirectory(context.Background(), "", true)

	require.Len(t, docs, 4)
	// Markdown files come first, then text files.
	var names []string
	for _, d := range docs {
		names = append(names, d.Metadata.String(domain.MetaFilename))
	}
	assert.Equal(t, []string{"star.md", "intro.md", "mutex.md", "go.txt"}, names)

	categories := map[string]string{}
	for _, d := range docs {
		categories[d.Metadata.String(domain.MetaFilename)] = d.Category()
	}
	assert.Equal(t, "technical", categories["mutex.md"])
	assert.Equal(t, "technical", categories["go.txt"])
	assert.Equal(t, domain.CategoryGeneral, categories["intro.md"])
}

func TestLoadDirectory_NonRecursive(t *testing.T) {
	base := knowledgeBase(t)
	docs := New(base).LoadDirectory(context.Background(), "technical", false)

	require.Len(t, docs, 1)
	assert.Equal(t, "go.txt", docs[0].Metadata[domain.MetaFilename])
	assert.Equal(t, "technical", docs[0].Category())
}

func TestLoadDirectory_Missing(t *testing.T) {
	docs := New(t.TempDir()).LoadDirectory(context.Background(), "nowhere", true)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestCategory_OutsideBase(t *testing.T) {
	base := t.TempDir()
	other := t.TempDir()
	l := New(base)

	assert.Equal(t, domain.CategoryGeneral, l.Category(filepath.Join(other, "x", "y.md")))
}

func TestSupports(t *testing.T) {
	l := New(t.TempDir())

	assert.True(t, l.Supports("a.md"))
	assert.True(t, l.Supports("a.TXT"))
	assert.True(t, l.Supports("a.pdf"))
	assert.False(t, l.Supports("a.docx"))
	assert.False(t, l.Supports("README"))
}

func TestResolve_MatchesRecordedSource(t *testing.T) {
	base := knowledgeBase(t)
	l := New(base)
	rel := filepath.Join("technical", "go.txt")

	docs := l.LoadFile(context.Background(), rel)

	require.Len(t, docs, 1)
	assert.Equal(t, docs[0].Source(), l.Resolve(rel))
	assert.Equal(t, l.Resolve(rel), l.Resolve(filepath.Join(base, "technical", ".", "go.txt")))
	for _, d := range l.LoadDirectory(context.Background(), "technical", false) {
		assert.Equal(t, l.Resolve(rel), d.Source())
	}
}
