package cli

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/interview-pilot/internal/config"
	"github.com/custodia-labs/interview-pilot/internal/core/domain"
)

func TestPrepareCmd_PrintsPlan(t *testing.T) {
	kb := setupTestServices(t)
	ingestTestKnowledge(t, kb)

	out, err := execute(t, "prepare", "--session", "room-1", "--type", "behavioral",
		"--candidate", "Five years of backend work")

	require.NoError(t, err)
	assert.Contains(t, out, "Behavioral")
	assert.Contains(t, out, "Session:  room-1")
	assert.Contains(t, out, "Candidate: Five years of backend work")
	assert.Contains(t, out, "Greeting: "+domain.Greeting)
	assert.Contains(t, out, "1. Tell me about a conflict with a teammate.")
	assert.NotContains(t, out, "Use the STAR method")
}

func TestPrepareCmd_OpensSession(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "prepare", "--session", "room-2", "--type", "technical")
	require.NoError(t, err)

	metrics, ok := evaluator.GetSession(context.Background(), "room-2")
	require.True(t, ok)
	assert.Equal(t, domain.InterviewTechnical, metrics.InterviewType)
	assert.Zero(t, metrics.QuestionsAnswered)
}

func TestPrepareCmd_MetadataJSON(t *testing.T) {
	kb := setupTestServices(t)
	ingestTestKnowledge(t, kb)

	out, err := execute(t, "prepare", "--json", "--session", "room-3",
		"--metadata", `{"interview_type":"technical","candidate_info":"Go developer"}`)
	require.NoError(t, err)

	var plan domain.InterviewPlan
	require.NoError(t, json.Unmarshal([]byte(out), &plan))
	assert.Equal(t, "room-3", plan.SessionID)
	assert.Equal(t, domain.InterviewTechnical, plan.InterviewType)
	assert.Equal(t, "Go developer", plan.CandidateInfo)
	assert.Contains(t, plan.SystemPrompt, "Go developer")
	assert.Equal(t, []string{"How would you index a database table?"}, plan.SampleQuestions)
}

func TestPrepareCmd_MalformedMetadataFallsBack(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "prepare", "--json", "--metadata", "not json")
	require.NoError(t, err)

	var plan domain.InterviewPlan
	require.NoError(t, json.Unmarshal([]byte(out), &plan))
	assert.Equal(t, domain.DefaultInterviewType, plan.InterviewType)
	assert.NotEmpty(t, plan.SessionID)
	assert.Empty(t, plan.SampleQuestions)
}

func TestPrepareCmd_ShowPrompt(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "prepare", "--show-prompt", "--candidate", "CANDIDATE-MARKER")

	require.NoError(t, err)
	assert.Contains(t, out, "CANDIDATE-MARKER")
}

func TestPrepareCmd_RequiresCredentials(t *testing.T) {
	setupTestServices(t)
	appConfig.LiveKit = config.LiveKitConfig{}

	_, err := execute(t, "prepare")

	require.ErrorIs(t, err, domain.ErrMissingConfig)
	assert.Contains(t, err.Error(), "LIVEKIT_URL")
}
