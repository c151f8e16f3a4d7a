package services

import (
	"strings"

	"github.com/custodia-labs/interview-pilot/internal/core/domain"
	"github.com/custodia-labs/interview-pilot/internal/core/ports/driven"
	"github.com/custodia-labs/interview-pilot/internal/core/ports/driving"
	"github.com/custodia-labs/interview-pilot/internal/logger"
)

// Ensure PromptAssembler implements the interface.
var _ driving.PromptAssembler = (*PromptAssembler)(nil)

// Placeholder fallbacks.
const (
	NoContext       = "No additional context."
	NoCandidateInfo = "No specific information provided."
)

// PromptAssembler composes interviewer prompts from stored templates.
type PromptAssembler struct {
	store driven.PromptStore
}

// NewPromptAssembler creates an assembler reading templates from store.
func NewPromptAssembler(store driven.PromptStore) *PromptAssembler {
	return &PromptAssembler{store: store}
}

// SystemPrompt fills the base template's {context} and {candidate_info}
// placeholders and appends the section for interviewType. Unknown types
// get the behavioral section.
func (a *PromptAssembler) SystemPrompt(interviewType domain.InterviewType, context, candidateInfo string) string {
	if strings.TrimSpace(context) == "" {
		context = NoContext
	}
	if strings.TrimSpace(candidateInfo) == "" {
		candidateInfo = NoCandidateInfo
	}

	base := strings.NewReplacer(
		"{context}", context,
		"{candidate_info}", candidateInfo,
	).Replace(a.load(driven.PromptBaseSystem))

	return base + "\n\n" + a.load(typePromptName(interviewType))
}

// EvaluationPrompt returns the evaluator system prompt.
func (a *PromptAssembler) EvaluationPrompt() string {
	return a.load(driven.PromptEvaluation)
}

func (a *PromptAssembler) load(name string) string {
	if a.store == nil {
		logger.Warn("Prompt store not configured; %s prompt is empty", name)
		return ""
	}
	text, err := a.store.Load(name)
	if err != nil {
		logger.Warn("Failed to load %s prompt: %v", name, err)
		return ""
	}
	return text
}

func typePromptName(t domain.InterviewType) string {
	switch t {
	case domain.InterviewTechnical:
		return driven.PromptTechnical
	case domain.InterviewSystemDesign:
		return driven.PromptSystemDesign
	default:
		return driven.PromptBehavioral
	}
}
