package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/interview-pilot/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for Interview Pilot resources.
	uriScheme = "interview://"

	// sessionListLimit caps the sessions resource.
	sessionListLimit = 50
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "sessions",
		Name:        "sessions",
		Description: "Recent practice sessions, newest first",
		MIMEType:    "application/json",
	}, s.handleSessionsResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "collection",
		Name:        "collection",
		Description: "Knowledge-base collection statistics",
		MIMEType:    "application/json",
	}, s.handleCollectionResource)

	// Template for a single session.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "sessions/{sessionId}",
		Name:        "session",
		Description: "Scores and summary for one practice session",
		MIMEType:    "application/json",
	}, s.handleSessionResource)

	// Template for interviewer system prompts.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "prompts/{interviewType}",
		Name:        "system-prompt",
		Description: "Interviewer system prompt for an interview type",
		MIMEType:    "text/plain",
	}, s.handlePromptResource)
}

// handleSessionsResource lists recent sessions.
func (s *Server) handleSessionsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Evaluator == nil {
		return textResult(req.Params.URI, "application/json", "[]"), nil
	}

	sessions, err := s.ports.Evaluator.ListSessions(ctx, sessionListLimit)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}

	type sessionInfo struct {
		SessionID         string               `json:"session_id"`
		InterviewType     domain.InterviewType `json:"interview_type"`
		QuestionsAnswered int                  `json:"questions_answered"`
		AverageScore      float64              `json:"average_score"`
		Ended             bool                 `json:"ended"`
	}

	infos := make([]sessionInfo, len(sessions))
	for i := range sessions {
		infos[i] = sessionInfo{
			SessionID:         sessions[i].SessionID,
			InterviewType:     sessions[i].InterviewType,
			QuestionsAnswered: sessions[i].QuestionsAnswered,
			AverageScore:      sessions[i].AverageScore,
			Ended:             sessions[i].Ended(),
		}
	}

	return jsonResult(req.Params.URI, infos)
}

// handleSessionResource returns one session with its summary.
func (s *Server) handleSessionResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Evaluator == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	sessionID := extractSessionID(req.Params.URI)
	if sessionID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	metrics, err := s.ports.Evaluator.LoadSession(ctx, sessionID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}

	return jsonResult(req.Params.URI, struct {
		Metrics *domain.SessionMetrics `json:"metrics"`
		Summary domain.SessionSummary  `json:"summary"`
	}{metrics, metrics.Summary()})
}

// handleCollectionResource reports collection statistics.
func (s *Server) handleCollectionResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.VectorStore == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	stats, err := s.ports.VectorStore.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("collection stats: %w", err)
	}
	return jsonResult(req.Params.URI, stats)
}

// handlePromptResource renders the system prompt for an interview type.
func (s *Server) handlePromptResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Prompts == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	interviewType, ok := domain.ParseInterviewType(extractInterviewType(req.Params.URI))
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	prompt := s.ports.Prompts.SystemPrompt(interviewType, "", "")
	return textResult(req.Params.URI, "text/plain", prompt), nil
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return textResult(uri, "application/json", string(data)), nil
}

func textResult(uri, mimeType, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: mimeType,
			Text:     text,
		}},
	}
}

// extractSessionID extracts the session ID from a URI like interview://sessions/{sessionId}.
func extractSessionID(uri string) string {
	return trimPrefixOnly(uri, uriScheme+"sessions/")
}

// extractInterviewType extracts the type from a URI like interview://prompts/{interviewType}.
func extractInterviewType(uri string) string {
	return trimPrefixOnly(uri, uriScheme+"prompts/")
}

func trimPrefixOnly(uri, prefix string) string {
	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	rest := strings.TrimPrefix(uri, prefix)
	if strings.Contains(rest, "/") {
		return ""
	}
	return rest
}
