package driven

import "github.com/custodia-labs/interview-pilot/internal/core/domain"

// EvaluationParser turns raw evaluator output into a structured score.
// Parsing never fails: unparseable text yields the default score.
type EvaluationParser interface {
	Parse(raw string) domain.ResponseScore
}
