// Package mcp provides an MCP (Model Context Protocol) server adapter for Interview Pilot.
// It lets AI assistants retrieve interview context, prepare sessions and
// score practice answers against the local knowledge base.
package mcp

import "errors"

// ErrMissingRetriever is returned when the context retriever is not provided.
var ErrMissingRetriever = errors.New("mcp: context retriever is required")

// ErrMissingEvaluator is returned by session tools when no evaluator is wired.
var ErrMissingEvaluator = errors.New("mcp: response evaluator is not configured")

// ErrMissingCoach is returned by prepare_interview when no coach is wired.
var ErrMissingCoach = errors.New("mcp: interview coach is not configured")
