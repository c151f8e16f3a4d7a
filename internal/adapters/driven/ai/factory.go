// Package ai provides factory functions for creating the AI, storage and
// messaging adapters from configuration.
package ai

import (
	"context"
	"fmt"
	"io"
	"time"

	openaiembed "github.com/custodia-labs/interview-pilot/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/interview-pilot/internal/adapters/driven/events/natsbus"
	openaillm "github.com/custodia-labs/interview-pilot/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/interview-pilot/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/interview-pilot/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/interview-pilot/internal/adapters/driven/vector/qdrant"
	"github.com/custodia-labs/interview-pilot/internal/config"
	"github.com/custodia-labs/interview-pilot/internal/core/domain"
	"github.com/custodia-labs/interview-pilot/internal/core/ports/driven"
	"github.com/custodia-labs/interview-pilot/internal/logger"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult contains the services built by Init.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService // nil when evaluation falls back to the default score
	VectorIndex      driven.VectorIndex
	SessionStore     driven.SessionStore
	EventPublisher   driven.EventPublisher // nil when NATS is not configured
	Warnings         []string              // Non-fatal issues that caused fallback.

	closers []io.Closer
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EventPublisher != nil {
		r.EventPublisher.Close()
	}
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.VectorIndex != nil {
		r.VectorIndex.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
	for _, c := range r.closers {
		c.Close()
	}
}

func (r *InitResult) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	logger.Warn("%s", msg)
	r.Warnings = append(r.Warnings, msg)
}

// Init builds every service the coach needs.
// The embedding service and vector index are required; the LLM, session
// store and event publisher degrade with a warning when unavailable.
func Init(ctx context.Context, cfg *config.Config) (*InitResult, error) {
	result := &InitResult{}

	embed, err := CreateAndValidateEmbeddingService(ctx, cfg)
	if err != nil {
		return nil, err
	}
	result.EmbeddingService = embed

	index, err := CreateVectorIndex(cfg)
	if err != nil {
		result.Close()
		return nil, err
	}
	result.VectorIndex = index

	llm, err := CreateAndValidateLLMService(ctx, cfg)
	if err != nil {
		result.warn("evaluation disabled: %v", err)
	} else {
		result.LLMService = llm
	}

	store, closer, err := CreateSessionStore(cfg)
	if err != nil {
		result.warn("session history kept in memory only: %v", err)
		store = memory.NewSessionStore()
	}
	result.SessionStore = store
	if closer != nil {
		result.closers = append(result.closers, closer)
	}

	pub, err := CreateEventPublisher(cfg)
	if err != nil {
		result.warn("session events disabled: %v", err)
	} else if pub != nil {
		result.EventPublisher = pub
	}

	return result, nil
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateEmbeddingService(ctx context.Context, cfg *config.Config) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Set OPENAI_API_KEY or run 'pilot config set openai.api_key <key>'",
			domain.ErrEmbeddingUnavailable, err)
	}

	if err := ping(ctx, svc.Ping); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
func CreateAndValidateLLMService(ctx context.Context, cfg *config.Config) (driven.LLMService, error) {
	svc, err := CreateLLMService(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}

	if err := ping(ctx, svc.Ping); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

func ping(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return fn(ctx)
}

// CreateEmbeddingService creates the OpenAI embedding service from configuration.
func CreateEmbeddingService(cfg *config.Config) (driven.EmbeddingService, error) {
	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:     cfg.OpenAI.APIKey,
		BaseURL:    cfg.OpenAI.BaseURL,
		Model:      cfg.OpenAI.EmbeddingModel,
		Dimensions: cfg.OpenAI.EmbeddingDimensions,
		Timeout:    cfg.OpenAI.Timeout(),
		MaxRetries: retries(cfg.OpenAI.MaxRetries),
	})
}

// CreateLLMService creates the OpenAI chat service used for evaluation.
func CreateLLMService(cfg *config.Config) (driven.LLMService, error) {
	return openaillm.NewLLMService(openaillm.LLMConfig{
		APIKey:     cfg.OpenAI.APIKey,
		BaseURL:    cfg.OpenAI.BaseURL,
		Model:      cfg.Evaluation.Model,
		Timeout:    cfg.OpenAI.Timeout(),
		MaxRetries: retries(cfg.OpenAI.MaxRetries),
	})
}

// retries maps the configured retry count onto the adapters, where zero means default.
func retries(n int) int {
	if n <= 0 {
		return -1
	}
	return n
}

// CreateVectorIndex opens the configured vector backend.
func CreateVectorIndex(cfg *config.Config) (driven.VectorIndex, error) {
	switch cfg.Vector.Backend {
	case config.BackendSQLite, "":
		store, err := sqlite.NewStore(cfg.Vector.PersistDir)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrVectorIndexUnavailable, err)
		}
		return store.VectorIndex(), nil

	case config.BackendQdrant:
		store, err := qdrant.New(cfg.Vector.QdrantAddr)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrVectorIndexUnavailable, err)
		}
		return store, nil

	case config.BackendMemory:
		return memory.NewVectorIndex(), nil

	default:
		return nil, fmt.Errorf("%w: vector backend %q", domain.ErrUnsupportedType, cfg.Vector.Backend)
	}
}

// CreateSessionStore opens the session history database.
// The returned closer is nil for in-memory stores.
func CreateSessionStore(cfg *config.Config) (driven.SessionStore, io.Closer, error) {
	if cfg.Vector.Backend == config.BackendMemory {
		return memory.NewSessionStore(), nil, nil
	}
	store, err := sqlite.NewStore(cfg.SessionDBDir())
	if err != nil {
		return nil, nil, err
	}
	return store.SessionStore(), store, nil
}

// CreateEventPublisher connects to NATS. Returns nil when no URL is configured.
func CreateEventPublisher(cfg *config.Config) (driven.EventPublisher, error) {
	if cfg.NATS.URL == "" {
		return nil, nil
	}
	pub, err := natsbus.Connect(cfg.NATS.URL, cfg.NATS.Subject)
	if err != nil {
		return nil, err
	}
	return pub, nil
}
