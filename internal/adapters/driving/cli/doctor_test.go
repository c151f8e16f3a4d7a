package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/interview-pilot/internal/adapters/driven/ai"
	"github.com/custodia-labs/interview-pilot/internal/config"
)

func TestDoctorCmd_AllPass(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "doctor")

	require.NoError(t, err)
	assert.Contains(t, out, "✓ credentials")
	assert.Contains(t, out, "✓ embedding")
	assert.Contains(t, out, "✓ vector index (memory)")
	assert.Contains(t, out, "All required checks passed.")
}

func TestDoctorCmd_OptionalNotConfigured(t *testing.T) {
	setupTestServices(t)
	aiValidator = &stubValidator{llm: ai.ErrNotConfigured}
	appConfig.LiveKit = config.LiveKitConfig{}

	out, err := execute(t, "doctor")

	require.NoError(t, err)
	assert.Contains(t, out, "- evaluation model: not configured")
	assert.Contains(t, out, "! credentials:")
	assert.Contains(t, out, "LIVEKIT_URL")
}

func TestDoctorCmd_RequiredFailure(t *testing.T) {
	setupTestServices(t)
	aiValidator = &stubValidator{
		embedding: errors.New("401 unauthorized"),
		index:     errors.New("connection refused"),
	}

	out, err := execute(t, "doctor")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 required check(s) failed")
	assert.Contains(t, out, "✗ embedding: 401 unauthorized")
	assert.Contains(t, out, "✗ vector index (memory): connection refused")
}
