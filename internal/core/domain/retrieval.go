package domain

// ScoredDocument pairs a document with its cosine distance from a query.
// Distances range over [0, 2]; lower is more similar.
type ScoredDocument struct {
	Document Document `json:"document"`
	Distance float64  `json:"distance"`
}

// Similarity converts the distance to a similarity score (1 - distance).
func (s ScoredDocument) Similarity() float64 {
	return 1 - s.Distance
}

// Filter restricts a similarity search to documents whose metadata
// field equals the given value. A nil *Filter means no restriction.
type Filter struct {
	Field string
	Value string
}

// CategoryFilter returns a filter on the category metadata field.
// An empty category yields nil.
func CategoryFilter(category string) *Filter {
	if category == "" {
		return nil
	}
	return &Filter{Field: MetaCategory, Value: category}
}

// Matches reports whether the metadata satisfies the filter.
// A nil filter matches everything.
func (f *Filter) Matches(m Metadata) bool {
	if f == nil {
		return true
	}
	return m.String(f.Field) == f.Value
}

// CollectionStats describes a vector collection.
type CollectionStats struct {
	Name             string `json:"name"`
	Count            int    `json:"count"`
	PersistDirectory string `json:"persist_directory"`
}
