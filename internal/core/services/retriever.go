package services

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/custodia-labs/interview-pilot/internal/core/domain"
	"github.com/custodia-labs/interview-pilot/internal/core/ports/driving"
	"github.com/custodia-labs/interview-pilot/internal/logger"
)

// Ensure ContextRetriever implements the interface.
var _ driving.ContextRetriever = (*ContextRetriever)(nil)

const (
	// DefaultRetrievalK is the number of documents returned when k is not set.
	DefaultRetrievalK = 4

	// DefaultSimilarityThreshold is the minimum similarity (1 - distance) kept.
	DefaultSimilarityThreshold = 0.7

	questionContextK   = 3
	evaluationContextK = 4

	// fetchMultiplier over-fetches so thresholding still leaves k results.
	fetchMultiplier = 2
)

// ContextRetriever filters vector search results by similarity and
// formats them as LLM context.
type ContextRetriever struct {
	store     driving.VectorStore
	defaultK  int
	threshold float64
}

// RetrieverOption configures a ContextRetriever.
type RetrieverOption func(*ContextRetriever)

// WithDefaultK sets the result count used when callers pass k <= 0.
func WithDefaultK(k int) RetrieverOption {
	return func(r *ContextRetriever) {
		if k > 0 {
			r.defaultK = k
		}
	}
}

// WithThreshold sets the minimum similarity in [0, 1].
func WithThreshold(t float64) RetrieverOption {
	return func(r *ContextRetriever) {
		if t >= 0 && t <= 1 {
			r.threshold = t
		}
	}
}

// NewContextRetriever creates a retriever over store.
func NewContextRetriever(store driving.VectorStore, opts ...RetrieverOption) *ContextRetriever {
	r := &ContextRetriever{
		store:     store,
		defaultK:  DefaultRetrievalK,
		threshold: DefaultSimilarityThreshold,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Threshold returns the minimum similarity.
func (r *ContextRetriever) Threshold() float64 {
	return r.threshold
}

// Retrieve fetches 2k candidates, drops those below the similarity
// threshold and returns at most k, nearest first.
func (r *ContextRetriever) Retrieve(ctx context.Context, query, category string, k int) (docs []domain.Document, err error) {
	if k <= 0 {
		k = r.defaultK
	}

	ctx, span := startSpan(ctx, "retriever.retrieve",
		attribute.String("category", category),
		attribute.Int("k", k))
	defer func() { endSpan(span, err) }()

	if r.store == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}

	results, err := r.store.SimilaritySearchWithScore(ctx, query, k*fetchMultiplier, domain.CategoryFilter(category))
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}

	docs = make([]domain.Document, 0, k)
	for _, res := range results {
		if len(docs) == k {
			break
		}
		if res.Similarity() < r.threshold {
			continue
		}
		docs = append(docs, res.Document)
	}

	span.SetAttributes(attribute.Int("results", len(docs)))
	logger.Debug("Retrieved %d documents for query: %s", len(docs), truncate(query, 50))
	return docs, nil
}

// RetrieveForQuestion returns formatted context scoped to the interview type.
func (r *ContextRetriever) RetrieveForQuestion(
	ctx context.Context, question string, interviewType domain.InterviewType,
) string {
	docs, err := r.Retrieve(ctx, question, string(interviewType), questionContextK)
	if err != nil {
		logger.Warn("Question context unavailable: %v", err)
		return ""
	}
	return r.FormatContext(docs)
}

// RetrieveForEvaluation returns formatted context matching both the
// question and the candidate's answer, across all categories.
func (r *ContextRetriever) RetrieveForEvaluation(ctx context.Context, question, answer string) string {
	docs, err := r.Retrieve(ctx, question+" "+answer, "", evaluationContextK)
	if err != nil {
		logger.Warn("Evaluation context unavailable: %v", err)
		return ""
	}
	return r.FormatContext(docs)
}

// FormatContext renders docs as "[Context i - category]" blocks
// separated by blank lines. No documents yields "".
func (r *ContextRetriever) FormatContext(docs []domain.Document) string {
	if len(docs) == 0 {
		return ""
	}
	parts := make([]string, len(docs))
	for i, d := range docs {
		parts[i] = fmt.Sprintf("[Context %d - %s]\n%s\n", i+1, d.Category(), strings.TrimSpace(d.Content))
	}
	return strings.Join(parts, "\n")
}

// SampleQuestions pulls question lines out of Q&A chunks for the
// interview type. The query is topic, or "<type> interview questions".
func (r *ContextRetriever) SampleQuestions(
	ctx context.Context, interviewType domain.InterviewType, topic string, count int,
) []string {
	if count <= 0 {
		return []string{}
	}
	query := strings.TrimSpace(topic)
	if query == "" {
		query = fmt.Sprintf("%s interview questions", interviewType)
	}

	docs, err := r.Retrieve(ctx, query, string(interviewType), count)
	if err != nil {
		logger.Warn("Sample questions unavailable: %v", err)
		return []string{}
	}

	questions := make([]string, 0, count)
	for _, d := range docs {
		if d.ContentType() != domain.ContentTypeQAPair {
			continue
		}
		for _, line := range strings.Split(d.Content, "\n") {
			if q, ok := questionLine(line); ok {
				questions = append(questions, q)
			}
		}
	}
	if len(questions) > count {
		questions = questions[:count]
	}
	return questions
}

// questionLine extracts the question from a "Q:" or "**Q:" line.
func questionLine(line string) (string, bool) {
	if !strings.HasPrefix(line, "Q:") && !strings.HasPrefix(line, "**Q:") {
		return "", false
	}
	q := strings.TrimPrefix(line, "**")
	q = strings.TrimPrefix(q, "Q:")
	q = strings.TrimSpace(strings.Trim(strings.TrimSpace(q), "*"))
	return q, q != ""
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
