package domain

// Greeting opens every mock interview.
const Greeting = "Hello! Welcome to InterviewPilot. I'm Alex, your AI interview coach. " +
	"I'll be conducting your mock interview today. Are you ready to begin?"

// InterviewPlan is everything a voice runtime needs to start a session:
// the assembled system prompt, seed questions and the opening line.
type InterviewPlan struct {
	SessionID       string        `json:"session_id"`
	InterviewType   InterviewType `json:"interview_type"`
	CandidateInfo   string        `json:"candidate_info"`
	SystemPrompt    string        `json:"system_prompt"`
	SampleQuestions []string      `json:"sample_questions"`
	Greeting        string        `json:"greeting"`
}
