package driving

import (
	"context"

	"github.com/custodia-labs/interview-pilot/internal/core/domain"
)

// ContextRetriever finds knowledge-base passages relevant to the interview.
type ContextRetriever interface {
	// Retrieve returns up to k documents whose similarity to query meets
	// the threshold. An empty category searches all categories.
	// Errors are returned only when the backend fails.
	Retrieve(ctx context.Context, query, category string, k int) ([]domain.Document, error)

	// RetrieveForQuestion returns formatted context for asking a question.
	// Returns "" when nothing relevant is found or retrieval fails.
	RetrieveForQuestion(ctx context.Context, question string, interviewType domain.InterviewType) string

	// RetrieveForEvaluation returns formatted reference material for scoring an answer.
	RetrieveForEvaluation(ctx context.Context, question, answer string) string

	// FormatContext renders documents as numbered context blocks.
	FormatContext(docs []domain.Document) string

	// SampleQuestions extracts up to count "Q:" lines from stored Q&A chunks.
	SampleQuestions(ctx context.Context, interviewType domain.InterviewType, topic string, count int) []string
}
