package ai

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/interview-pilot/internal/core/domain"
	"github.com/custodia-labs/interview-pilot/internal/core/ports/driven"
)

func TestConfigValidator_ImplementsInterface(t *testing.T) {
	var _ driven.AIConfigValidator = (*ConfigValidator)(nil)
}

func TestConfigValidator_NotConfigured(t *testing.T) {
	cfg := testConfig(t)
	cfg.OpenAI.APIKey = ""
	v := NewConfigValidator(cfg)

	assert.ErrorIs(t, v.ValidateEmbedding(context.Background()), ErrNotConfigured)
	assert.ErrorIs(t, v.ValidateLLM(context.Background()), ErrNotConfigured)
}

func TestConfigValidator_Reachable(t *testing.T) {
	cfg := testConfig(t)
	cfg.OpenAI.BaseURL = fakeOpenAI(t, http.StatusOK)
	v := NewConfigValidator(cfg)

	require.NoError(t, v.ValidateEmbedding(context.Background()))
	require.NoError(t, v.ValidateLLM(context.Background()))
	require.NoError(t, v.ValidateVectorIndex(context.Background()))
}

func TestConfigValidator_Unreachable(t *testing.T) {
	cfg := testConfig(t)
	cfg.OpenAI.BaseURL = fakeOpenAI(t, http.StatusInternalServerError)
	v := NewConfigValidator(cfg)

	assert.ErrorIs(t, v.ValidateEmbedding(context.Background()), domain.ErrEmbeddingUnavailable)
}

func TestConfigValidator_BadBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Vector.Backend = "nope"

	err := NewConfigValidator(cfg).ValidateVectorIndex(context.Background())

	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}
