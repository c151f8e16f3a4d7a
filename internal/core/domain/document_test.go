package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyContent(t *testing.T) {
	tests := []struct {
		content string
		want    ContentType
	}{
		{"Q: Tell me about a conflict.", ContentTypeQAPair},
		{"**Q: What is a mutex?**", ContentTypeQAPair},
		{"# Behavioral Questions", ContentTypeHeading},
		{"## STAR method", ContentTypeHeading},
		{"Plain paragraph about caching.", ContentTypeText},
		{"", ContentTypeText},
	}

	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyContent(tt.content))
		})
	}
}

func TestMetadata_Int(t *testing.T) {
	m := Metadata{"a": 3, "b": int64(4), "c": float64(5), "d": "6"}

	v, ok := m.Int("a")
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	v, ok = m.Int("b")
	assert.True(t, ok)
	assert.Equal(t, 4, v)

	v, ok = m.Int("c")
	assert.True(t, ok)
	assert.Equal(t, 5, v)

	_, ok = m.Int("d")
	assert.False(t, ok)

	_, ok = m.Int("missing")
	assert.False(t, ok)
}

func TestMetadata_NilSafe(t *testing.T) {
	var m Metadata

	assert.Equal(t, "", m.String("x"))
	assert.False(t, m.Bool("x"))
	_, ok := m.Int("x")
	assert.False(t, ok)
	assert.NotNil(t, m.Clone())
}

func TestMetadata_Clone(t *testing.T) {
	m := Metadata{"category": "technical"}
	c := m.Clone()
	c["category"] = "behavioral"

	assert.Equal(t, "technical", m["category"])
}

func TestDocument_Category(t *testing.T) {
	assert.Equal(t, "technical", Document{Metadata: Metadata{MetaCategory: "technical"}}.Category())
	assert.Equal(t, CategoryGeneral, Document{}.Category())
}

func TestFilter_Matches(t *testing.T) {
	var none *Filter
	assert.True(t, none.Matches(Metadata{"category": "x"}))

	f := CategoryFilter("technical")
	assert.True(t, f.Matches(Metadata{"category": "technical"}))
	assert.False(t, f.Matches(Metadata{"category": "behavioral"}))
	assert.False(t, f.Matches(nil))

	assert.Nil(t, CategoryFilter(""))
}

func TestScoredDocument_Similarity(t *testing.T) {
	assert.InDelta(t, 0.8, ScoredDocument{Distance: 0.2}.Similarity(), 1e-9)
	assert.InDelta(t, -1.0, ScoredDocument{Distance: 2}.Similarity(), 1e-9)
}
