package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a file type or backend the application cannot handle.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrMissingConfig indicates a required configuration value is absent.
	// Raised at startup; the process should not continue.
	ErrMissingConfig = errors.New("missing required configuration")

	// ErrInvalidConfig indicates a configuration value is out of range or not allowed.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrLLMUnavailable indicates the LLM service is not configured or unreachable.
	// Evaluation degrades to the default score.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Indexing and retrieval are disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector backend is not configured.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
