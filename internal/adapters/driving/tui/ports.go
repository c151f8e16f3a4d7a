// Package tui provides an interactive terminal interface for practising
// interviews. It implements a driving adapter following hexagonal
// architecture principles.
package tui

import (
	"github.com/custodia-labs/interview-pilot/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Coach prepares the interview plan.
	Coach driving.Coach

	// Evaluator scores answers and closes the session.
	Evaluator driving.ResponseEvaluator
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Coach == nil {
		return ErrMissingCoach
	}
	if p.Evaluator == nil {
		return ErrMissingEvaluator
	}
	return nil
}
