package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/interview-pilot/internal/core/domain"
)

func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()
	if ports.Retriever == nil {
		ports.Retriever = &mockRetriever{}
	}
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}

func TestServer_handleRetrieve(t *testing.T) {
	ctx := context.Background()

	t.Run("returns passages", func(t *testing.T) {
		retriever := &mockRetriever{
			docs: []domain.Document{{
				Content: "Use the STAR method.",
				Metadata: domain.Metadata{
					domain.MetaSource:   "kb/behavioral/star.md",
					domain.MetaCategory: "behavioral",
				},
			}},
		}
		server := newTestServer(t, &Ports{Retriever: retriever})

		_, output, err := server.handleRetrieve(ctx, nil, RetrieveInput{Query: "star", Category: "behavioral", K: 2})

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		assert.Equal(t, "Use the STAR method.", output.Passages[0].Content)
		assert.Equal(t, "kb/behavioral/star.md", output.Passages[0].Source)
		assert.Equal(t, "behavioral", output.Passages[0].Category)
		assert.Contains(t, output.Context, "[Context 1]")
		assert.Equal(t, "behavioral", retriever.lastCategory)
		assert.Equal(t, 2, retriever.lastK)
	})

	t.Run("default k is 4", func(t *testing.T) {
		retriever := &mockRetriever{}
		server := newTestServer(t, &Ports{Retriever: retriever})

		_, output, err := server.handleRetrieve(ctx, nil, RetrieveInput{Query: "anything"})

		require.NoError(t, err)
		assert.Equal(t, 0, output.Count)
		assert.Equal(t, 4, retriever.lastK)
	})

	t.Run("returns error on backend failure", func(t *testing.T) {
		server := newTestServer(t, &Ports{Retriever: &mockRetriever{err: errors.New("index offline")}})

		_, _, err := server.handleRetrieve(ctx, nil, RetrieveInput{Query: "q"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "index offline")
	})
}

func TestServer_handleSampleQuestions(t *testing.T) {
	retriever := &mockRetriever{questions: []string{"Tell me about a conflict."}}
	server := newTestServer(t, &Ports{Retriever: retriever})

	_, output, err := server.handleSampleQuestions(context.Background(), nil, QuestionsInput{InterviewType: "nonsense"})

	require.NoError(t, err)
	assert.Equal(t, "behavioral", output.InterviewType)
	assert.Equal(t, []string{"Tell me about a conflict."}, output.Questions)
	assert.Equal(t, domain.InterviewBehavioral, retriever.lastType)
	assert.Equal(t, 5, retriever.lastCount)
}

func TestServer_handlePrepare(t *testing.T) {
	ctx := context.Background()

	t.Run("passes metadata to coach", func(t *testing.T) {
		coach := &mockCoach{}
		server := newTestServer(t, &Ports{Coach: coach})

		_, plan, err := server.handlePrepare(ctx, nil, PrepareInput{
			SessionID:     "s-1",
			InterviewType: "system_design",
			CandidateInfo: "Staff engineer",
		})

		require.NoError(t, err)
		assert.Equal(t, "s-1", plan.SessionID)
		assert.Equal(t, domain.InterviewSystemDesign, plan.InterviewType)
		assert.Equal(t, "Staff engineer", plan.CandidateInfo)

		var meta map[string]string
		require.NoError(t, json.Unmarshal([]byte(coach.lastMetadata), &meta))
		assert.Equal(t, "system_design", meta["interview_type"])
	})

	t.Run("missing coach", func(t *testing.T) {
		server := newTestServer(t, &Ports{})

		_, _, err := server.handlePrepare(ctx, nil, PrepareInput{})

		assert.ErrorIs(t, err, ErrMissingCoach)
	})
}

func TestServer_handleEvaluateAndEnd(t *testing.T) {
	ctx := context.Background()
	evaluator := newMockEvaluator()
	evaluator.score = domain.ResponseScore{Overall: 8, Strengths: []string{"Clear"}, Improvements: []string{}}
	evaluator.StartSession(ctx, "s-1", domain.InterviewTechnical)
	server := newTestServer(t, &Ports{Evaluator: evaluator})

	_, score, err := server.handleEvaluate(ctx, nil, EvaluateInput{
		SessionID: "s-1",
		Question:  "What is a hash map?",
		Response:  "A key-value structure.",
	})
	require.NoError(t, err)
	assert.Equal(t, 8, score.Overall)

	_, summary, err := server.handleEndSession(ctx, nil, EndSessionInput{SessionID: "s-1"})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.QuestionsAnswered)
	assert.InDelta(t, 8.0, summary.AverageScore, 1e-9)
	assert.InDelta(t, 30.0, summary.DurationMinutes, 1e-9)
	assert.Equal(t, []string{"Clear"}, summary.TopStrengths)
}

func TestServer_handleEvaluate_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing evaluator", func(t *testing.T) {
		server := newTestServer(t, &Ports{})
		_, _, err := server.handleEvaluate(ctx, nil, EvaluateInput{Question: "q", Response: "r"})
		assert.ErrorIs(t, err, ErrMissingEvaluator)
	})

	t.Run("empty response", func(t *testing.T) {
		server := newTestServer(t, &Ports{Evaluator: newMockEvaluator()})
		_, _, err := server.handleEvaluate(ctx, nil, EvaluateInput{Question: "q"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("unknown session on end", func(t *testing.T) {
		server := newTestServer(t, &Ports{Evaluator: newMockEvaluator()})
		_, _, err := server.handleEndSession(ctx, nil, EndSessionInput{SessionID: "missing"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
