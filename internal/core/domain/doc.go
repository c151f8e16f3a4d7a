// Package domain defines the core business entities for Interview Pilot.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A unit of knowledge-base text with metadata (chunks are Documents too)
//   - ScoredDocument: A Document paired with its vector distance
//   - ResponseScore: The evaluation of one candidate answer
//   - SessionMetrics: Per-interview score accumulation and summary
//   - InterviewType: The kind of mock interview being conducted
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
