package mcp

import (
	"github.com/custodia-labs/interview-pilot/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retriever answers context and sample-question queries.
	Retriever driving.ContextRetriever

	// Coach prepares interview plans.
	Coach driving.Coach

	// Evaluator scores answers and tracks sessions.
	Evaluator driving.ResponseEvaluator

	// Prompts renders system prompts for the prompt resources.
	Prompts driving.PromptAssembler

	// VectorStore reports collection statistics.
	VectorStore driving.VectorStore
}

// Validate ensures all required ports are set.
// Only the retriever is required; tools backed by a missing port return
// an error when called.
func (p *Ports) Validate() error {
	if p.Retriever == nil {
		return ErrMissingRetriever
	}
	return nil
}
