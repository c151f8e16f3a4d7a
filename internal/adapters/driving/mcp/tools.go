package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/interview-pilot/internal/core/domain"
)

// Tool defaults.
const (
	defaultRetrieveK     = 4
	defaultQuestionCount = 5
)

// RetrieveInput is the input schema for the retrieve_context tool.
type RetrieveInput struct {
	Query    string `json:"query" jsonschema:"what to look up in the interview knowledge base"`
	Category string `json:"category,omitempty" jsonschema:"restrict to one category such as behavioral or technical"`
	K        int    `json:"k,omitempty" jsonschema:"maximum number of passages to return (default 4)"`
}

// RetrieveOutput is the output schema for the retrieve_context tool.
type RetrieveOutput struct {
	Passages []PassageOutput `json:"passages"`
	Count    int             `json:"count"`
	Context  string          `json:"context"`
}

// PassageOutput represents a single retrieved passage.
type PassageOutput struct {
	Content  string `json:"content"`
	Source   string `json:"source"`
	Category string `json:"category"`
}

// QuestionsInput is the input schema for the sample_questions tool.
type QuestionsInput struct {
	InterviewType string `json:"interview_type,omitempty" jsonschema:"behavioral, technical or system_design"`
	Topic         string `json:"topic,omitempty" jsonschema:"optional topic to focus the questions"`
	Count         int    `json:"count,omitempty" jsonschema:"maximum number of questions (default 5)"`
}

// QuestionsOutput is the output schema for the sample_questions tool.
type QuestionsOutput struct {
	InterviewType string   `json:"interview_type"`
	Questions     []string `json:"questions"`
}

// PrepareInput is the input schema for the prepare_interview tool.
type PrepareInput struct {
	SessionID     string `json:"session_id,omitempty" jsonschema:"session identifier; generated when empty"`
	InterviewType string `json:"interview_type,omitempty" jsonschema:"behavioral, technical or system_design"`
	CandidateInfo string `json:"candidate_info,omitempty" jsonschema:"background on the candidate"`
}

// EvaluateInput is the input schema for the evaluate_response tool.
type EvaluateInput struct {
	SessionID string `json:"session_id" jsonschema:"session returned by prepare_interview"`
	Question  string `json:"question" jsonschema:"the interview question that was asked"`
	Response  string `json:"response" jsonschema:"the candidate's answer"`
}

// EndSessionInput is the input schema for the end_session tool.
type EndSessionInput struct {
	SessionID string `json:"session_id" jsonschema:"session to finish"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve_context",
		Description: "Search the interview knowledge base for relevant passages",
	}, s.handleRetrieve)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "sample_questions",
		Description: "List example interview questions from the knowledge base",
	}, s.handleSampleQuestions)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "prepare_interview",
		Description: "Start a mock interview session and return its system prompt, seed questions and greeting",
	}, s.handlePrepare)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "evaluate_response",
		Description: "Score a candidate answer from 1 to 10 and record it against the session",
	}, s.handleEvaluate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "end_session",
		Description: "Finish a session and return its summary",
	}, s.handleEndSession)
}

func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	k := input.K
	if k <= 0 {
		k = defaultRetrieveK
	}

	docs, err := s.ports.Retriever.Retrieve(ctx, input.Query, input.Category, k)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	output := RetrieveOutput{
		Passages: make([]PassageOutput, len(docs)),
		Count:    len(docs),
		Context:  s.ports.Retriever.FormatContext(docs),
	}
	for i, doc := range docs {
		output.Passages[i] = PassageOutput{
			Content:  doc.Content,
			Source:   doc.Source(),
			Category: doc.Category(),
		}
	}

	return nil, output, nil
}

func (s *Server) handleSampleQuestions(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QuestionsInput,
) (*mcp.CallToolResult, QuestionsOutput, error) {
	count := input.Count
	if count <= 0 {
		count = defaultQuestionCount
	}
	interviewType, _ := domain.ParseInterviewType(input.InterviewType)

	questions := s.ports.Retriever.SampleQuestions(ctx, interviewType, input.Topic, count)
	return nil, QuestionsOutput{
		InterviewType: interviewType.String(),
		Questions:     questions,
	}, nil
}

func (s *Server) handlePrepare(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input PrepareInput,
) (*mcp.CallToolResult, domain.InterviewPlan, error) {
	if s.ports.Coach == nil {
		return nil, domain.InterviewPlan{}, ErrMissingCoach
	}

	raw, err := json.Marshal(map[string]string{
		"interview_type": input.InterviewType,
		"candidate_info": input.CandidateInfo,
	})
	if err != nil {
		return nil, domain.InterviewPlan{}, fmt.Errorf("encoding room metadata: %w", err)
	}

	plan, err := s.ports.Coach.Prepare(ctx, input.SessionID, string(raw))
	if err != nil {
		return nil, domain.InterviewPlan{}, err
	}
	return nil, plan, nil
}

func (s *Server) handleEvaluate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input EvaluateInput,
) (*mcp.CallToolResult, domain.ResponseScore, error) {
	if s.ports.Evaluator == nil {
		return nil, domain.ResponseScore{}, ErrMissingEvaluator
	}
	if input.Question == "" || input.Response == "" {
		return nil, domain.ResponseScore{}, fmt.Errorf("%w: question and response are required", domain.ErrInvalidInput)
	}

	score := s.ports.Evaluator.EvaluateResponse(ctx, input.SessionID, input.Question, input.Response)
	return nil, score, nil
}

func (s *Server) handleEndSession(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input EndSessionInput,
) (*mcp.CallToolResult, domain.SessionSummary, error) {
	if s.ports.Evaluator == nil {
		return nil, domain.SessionSummary{}, ErrMissingEvaluator
	}

	metrics, ok := s.ports.Evaluator.EndSession(ctx, input.SessionID)
	if !ok {
		return nil, domain.SessionSummary{}, fmt.Errorf("session %q: %w", input.SessionID, domain.ErrNotFound)
	}
	return nil, metrics.Summary(), nil
}
