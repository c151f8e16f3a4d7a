package driven

import "context"

// AIConfigValidator verifies that configured services are reachable.
// Implementations test connectivity rather than just checking fields.
type AIConfigValidator interface {
	// ValidateEmbedding pings the embedding provider.
	ValidateEmbedding(ctx context.Context) error

	// ValidateLLM pings the evaluation model provider.
	ValidateLLM(ctx context.Context) error

	// ValidateVectorIndex opens the vector backend and runs a cheap query.
	ValidateVectorIndex(ctx context.Context) error
}
