package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/custodia-labs/interview-pilot/internal/core/domain"
	"github.com/custodia-labs/interview-pilot/internal/core/ports/driving"
	"github.com/custodia-labs/interview-pilot/internal/logger"
)

// Ensure Coach implements the interface.
var _ driving.Coach = (*Coach)(nil)

// DefaultSampleQuestions is the number of seed questions in a plan.
const DefaultSampleQuestions = 5

// Coach turns room metadata into a ready-to-run interview plan.
type Coach struct {
	retriever   driving.ContextRetriever
	prompts     driving.PromptAssembler
	evaluator   driving.ResponseEvaluator
	sampleCount int
}

// NewCoach creates a coach. retriever and evaluator may be nil.
func NewCoach(
	retriever driving.ContextRetriever,
	prompts driving.PromptAssembler,
	evaluator driving.ResponseEvaluator,
) *Coach {
	return &Coach{
		retriever:   retriever,
		prompts:     prompts,
		evaluator:   evaluator,
		sampleCount: DefaultSampleQuestions,
	}
}

// Prepare parses rawMetadata, gathers knowledge-base context and seed
// questions, builds the system prompt and opens an evaluation session.
func (c *Coach) Prepare(ctx context.Context, sessionID, rawMetadata string) (domain.InterviewPlan, error) {
	if err := ctx.Err(); err != nil {
		return domain.InterviewPlan{}, err
	}
	if c.prompts == nil {
		return domain.InterviewPlan{}, fmt.Errorf("prompt assembler: %w", domain.ErrMissingConfig)
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	meta := domain.ParseRoomMetadata(rawMetadata)
	logger.Section("Interview Preparation")
	logger.Debug("Session %s: %s interview", sessionID, meta.InterviewType)

	var kbContext string
	questions := []string{}
	if c.retriever != nil {
		kbContext = c.retriever.RetrieveForQuestion(ctx, meta.InterviewType.DisplayName()+" interview", meta.InterviewType)
		questions = c.retriever.SampleQuestions(ctx, meta.InterviewType, "", c.sampleCount)
	}

	if c.evaluator != nil {
		c.evaluator.StartSession(ctx, sessionID, meta.InterviewType)
	}

	return domain.InterviewPlan{
		SessionID:       sessionID,
		InterviewType:   meta.InterviewType,
		CandidateInfo:   meta.CandidateInfo,
		SystemPrompt:    c.prompts.SystemPrompt(meta.InterviewType, kbContext, meta.CandidateInfo),
		SampleQuestions: questions,
		Greeting:        domain.Greeting,
	}, nil
}
