package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/interview-pilot/internal/core/domain"
)

func TestCoach_Prepare(t *testing.T) {
	store := &mockVectorStore{results: []domain.ScoredDocument{
		qaDoc("Q: How would you design a URL shortener?", 0.1),
	}}
	retriever := NewContextRetriever(store)
	evaluator := newTestEvaluator(&mockLLM{})
	coach := NewCoach(retriever, NewPromptAssembler(newMockPromptStore()), evaluator)
	ctx := context.Background()

	plan, err := coach.Prepare(ctx, "room-1", `{"interview_type": "system_design", "candidate_info": "Staff engineer"}`)

	require.NoError(t, err)
	assert.Equal(t, "room-1", plan.SessionID)
	assert.Equal(t, domain.InterviewSystemDesign, plan.InterviewType)
	assert.Equal(t, "Staff engineer", plan.CandidateInfo)
	assert.Contains(t, plan.SystemPrompt, "Candidate: Staff engineer")
	assert.Contains(t, plan.SystemPrompt, "[Context 1 - behavioral]")
	assert.Contains(t, plan.SystemPrompt, "SYSTEM_DESIGN")
	assert.Equal(t, []string{"How would you design a URL shortener?"}, plan.SampleQuestions)
	assert.Equal(t, domain.Greeting, plan.Greeting)

	m, ok := evaluator.GetSession(ctx, "room-1")
	require.True(t, ok)
	assert.Equal(t, domain.InterviewSystemDesign, m.InterviewType)
}

func TestCoach_Prepare_MalformedMetadata(t *testing.T) {
	coach := NewCoach(nil, NewPromptAssembler(newMockPromptStore()), nil)

	plan, err := coach.Prepare(context.Background(), "", "{not json")

	require.NoError(t, err)
	assert.NotEmpty(t, plan.SessionID)
	assert.Equal(t, domain.InterviewBehavioral, plan.InterviewType)
	assert.Empty(t, plan.CandidateInfo)
	assert.Contains(t, plan.SystemPrompt, NoContext)
	assert.Contains(t, plan.SystemPrompt, NoCandidateInfo)
	assert.Contains(t, plan.SystemPrompt, "BEHAVIORAL")
	assert.Empty(t, plan.SampleQuestions)
}

func TestCoach_Prepare_Errors(t *testing.T) {
	_, err := NewCoach(nil, nil, nil).Prepare(context.Background(), "s", "")
	assert.ErrorIs(t, err, domain.ErrMissingConfig)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewCoach(nil, NewPromptAssembler(newMockPromptStore()), nil).Prepare(ctx, "s", "")
	assert.ErrorIs(t, err, context.Canceled)
}
