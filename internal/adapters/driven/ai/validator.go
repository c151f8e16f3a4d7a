package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/interview-pilot/internal/config"
	"github.com/custodia-labs/interview-pilot/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ErrNotConfigured is returned when a service has no configuration to validate.
var ErrNotConfigured = errors.New("not configured")

// ConfigValidator checks that configured services are reachable.
type ConfigValidator struct {
	cfg *config.Config
}

// NewConfigValidator creates a validator for cfg.
func NewConfigValidator(cfg *config.Config) *ConfigValidator {
	return &ConfigValidator{cfg: cfg}
}

// ValidateEmbedding pings the embedding provider.
func (v *ConfigValidator) ValidateEmbedding(ctx context.Context) error {
	if v.cfg.OpenAI.APIKey == "" {
		return fmt.Errorf("embedding: %w", ErrNotConfigured)
	}
	svc, err := CreateAndValidateEmbeddingService(ctx, v.cfg)
	if err != nil {
		return err
	}
	return svc.Close()
}

// ValidateLLM pings the evaluation model provider.
func (v *ConfigValidator) ValidateLLM(ctx context.Context) error {
	if v.cfg.OpenAI.APIKey == "" {
		return fmt.Errorf("llm: %w", ErrNotConfigured)
	}
	svc, err := CreateAndValidateLLMService(ctx, v.cfg)
	if err != nil {
		return err
	}
	return svc.Close()
}

// ValidateVectorIndex opens the vector backend and counts the configured collection.
func (v *ConfigValidator) ValidateVectorIndex(ctx context.Context) error {
	index, err := CreateVectorIndex(v.cfg)
	if err != nil {
		return err
	}
	defer index.Close()

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if _, err := index.Count(ctx, v.cfg.Vector.Collection); err != nil {
		return err
	}
	return nil
}
