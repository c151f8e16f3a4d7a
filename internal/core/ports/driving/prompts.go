package driving

import "github.com/custodia-labs/interview-pilot/internal/core/domain"

// PromptAssembler builds the system prompts that steer the interviewer.
type PromptAssembler interface {
	// SystemPrompt fills the base persona with context and candidate info
	// and appends the interview-type section.
	SystemPrompt(interviewType domain.InterviewType, context, candidateInfo string) string

	// EvaluationPrompt returns the system prompt for scoring one answer.
	EvaluationPrompt() string
}
