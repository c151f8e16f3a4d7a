package annotator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/interview-pilot/internal/core/domain"
)

func TestProcessor_Name(t *testing.T) {
	assert.Equal(t, "annotator", New().Name())
}

func TestProcessor_Process(t *testing.T) {
	chunks := []domain.Document{
		{Content: "# Behavioral", Metadata: domain.Metadata{domain.MetaCategory: "behavioral"}},
		{Content: "Q: Describe a failure.", Metadata: domain.Metadata{}},
		{Content: "Résumé: lead with the situation."},
	}

	out, err := New().Process(context.Background(), &domain.Document{}, chunks)
	require.NoError(t, err)
	require.Len(t, out, 3)

	first := out[0].Metadata
	assert.Equal(t, 0, first[domain.MetaChunkIndex])
	assert.Equal(t, 3, first[domain.MetaTotalChunks])
	assert.Equal(t, 12, first[domain.MetaChunkSize])
	assert.Equal(t, true, first[domain.MetaIsFirstChunk])
	assert.Equal(t, false, first[domain.MetaIsLastChunk])
	assert.Equal(t, "heading", first[domain.MetaContentType])
	assert.Equal(t, "behavioral", first[domain.MetaCategory])

	assert.Equal(t, "qa_pair", out[1].Metadata[domain.MetaContentType])
	assert.Equal(t, false, out[1].Metadata[domain.MetaIsFirstChunk])

	last := out[2].Metadata
	assert.Equal(t, true, last[domain.MetaIsLastChunk])
	assert.Equal(t, "text", last[domain.MetaContentType])
	// Sizes count characters, not bytes.
	assert.Equal(t, 32, last[domain.MetaChunkSize])
}

func TestProcessor_SingleChunkIsFirstAndLast(t *testing.T) {
	out, err := New().Process(context.Background(), nil, []domain.Document{{Content: "only"}})
	require.NoError(t, err)

	assert.Equal(t, true, out[0].Metadata[domain.MetaIsFirstChunk])
	assert.Equal(t, true, out[0].Metadata[domain.MetaIsLastChunk])
	assert.Equal(t, 1, out[0].Metadata[domain.MetaTotalChunks])
}

func TestProcessor_NoChunks(t *testing.T) {
	out, err := New().Process(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}
