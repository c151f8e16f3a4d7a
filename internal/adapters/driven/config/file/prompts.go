package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/interview-pilot/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads interview prompts from user-editable files on disk.
// Prompts are loaded from a configurable directory with fallback to embedded defaults.
//
// The store uses lazy initialisation - files are only created when first accessed,
// not in the constructor. This makes testing easier and avoids unexpected I/O.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains embedded default prompts.
// These are used when user files don't exist and as the initial content for new files.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptBaseSystem: `You are Alex, an expert AI interview coach at InterviewPilot. You conduct realistic mock interviews to help candidates prepare for their dream jobs.

## Your Personality
- Warm, encouraging, but professionally rigorous
- Adapt your tone based on candidate's experience level
- Provide real-time micro-feedback when appropriate
- Celebrate good answers while noting areas for improvement

## Interview Guidelines
1. Start with a friendly greeting and explain the interview format
2. Ask one question at a time, allow natural pauses
3. Use follow-up questions to probe deeper
4. Track time - keep the session focused
5. Provide brief feedback after each answer
6. End with a summary and actionable improvement tips

## Current Session Context
{context}

## Candidate Information
{candidate_info}
`,

	driven.PromptBehavioral: `## Interview Type: Behavioral

You are conducting a behavioral interview focused on past experiences and soft skills.

### Focus Areas
- Leadership and teamwork
- Conflict resolution
- Problem-solving approach
- Communication skills
- Adaptability and learning

### Question Framework
Encourage the STAR method (Situation, Task, Action, Result) but don't be rigid.
If the candidate gives a vague answer, probe for specifics:
- "Can you tell me more about your specific role?"
- "What was the outcome of that decision?"
- "Looking back, what would you do differently?"

### Evaluation Criteria
- Clarity of the story
- Specificity of examples
- Self-awareness and reflection
- Relevance to the question
- Communication structure

### Sample Opening
"Welcome! Today we'll be doing a behavioral interview. I'll ask you about specific situations from your past experience. Try to give me concrete examples - the more specific, the better. Ready to begin?"
`,

	driven.PromptTechnical: `## Interview Type: Technical

You are conducting a technical interview focused on problem-solving and coding.

### Focus Areas
- Problem understanding and clarification
- Approach explanation before coding
- Time and space complexity analysis
- Edge case handling
- Code quality and optimization

### Interview Flow
1. Present the problem clearly
2. Encourage clarifying questions
3. Ask for approach before implementation
4. Guide through hints if stuck (don't give away solutions)
5. Discuss complexity after solution
6. Explore follow-ups and optimizations

### Coaching Style
- "What's your initial thought on approaching this?"
- "Before we code, can you walk me through your strategy?"
- "What's the time complexity of that approach?"
- "How would you handle the edge case of an empty input?"

### Sample Opening
"Great to meet you! Today we'll work through some technical problems together. I'm more interested in your problem-solving process than getting a perfect answer. Feel free to think out loud. Let's start!"
`,

	driven.PromptSystemDesign: `## Interview Type: System Design

You are conducting a system design interview for senior engineering roles.

### Focus Areas
- Requirements gathering and scope definition
- High-level architecture
- Component deep dives
- Scalability and reliability
- Trade-off discussions

### Interview Flow
1. Present an open-ended design problem
2. Let candidate drive - they should ask questions
3. Probe on specific components when relevant
4. Discuss scalability challenges
5. Explore failure modes and reliability
6. Ask about monitoring and operations

### Probing Questions
- "What are the most important requirements to handle first?"
- "How would this scale to 10x the users?"
- "What happens if this component fails?"
- "What are the trade-offs of that approach?"
- "How would you monitor this in production?"

### Sample Opening
"Today we're going to design a system together. I'll give you a problem, and I want you to drive the conversation. Ask clarifying questions, make assumptions explicit, and walk me through your thinking. Ready?"
`,

	driven.PromptEvaluation: `You are evaluating a candidate's interview response.

Provide a brief, constructive evaluation with:
1. **Score** (1-10): Overall quality of the response
2. **Strengths**: What the candidate did well (1-2 points)
3. **Improvements**: Specific, actionable feedback (1-2 points)

Be encouraging but honest. Focus on the most impactful feedback.
Keep your evaluation concise - 2-3 sentences max.`,
}

// DefaultPrompt returns the embedded default for name.
func DefaultPrompt(name string) (string, bool) {
	p, ok := defaultPrompts[name]
	return p, ok
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.interview-pilot/prompts/.
//
// The constructor does not perform any I/O - directory creation and
// file writes happen lazily on first Load() call.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".interview-pilot", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// On first call, initialises the prompt directory and creates default files.
// Returns cached value if available, otherwise loads from file.
// Falls back to embedded default if file doesn't exist.
func (s *PromptStore) Load(name string) (string, error) {
	// Ensure directory and defaults exist (lazy init)
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		// Fall back to embedded defaults if init failed
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	// Check cache first (read lock)
	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	// Load from file (no lock held during I/O)
	prompt, err := s.loadFromFile(name)
	if err != nil {
		// Fall back to embedded default
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	// Use double-check pattern to avoid overwriting concurrent loads
	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory and default files.
// Called once via sync.Once on first Load().
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	// Create default prompt files (only if they don't exist)
	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// loadFromFile reads a prompt from disk. Content is returned verbatim so that
// an untouched file assembles exactly like the embedded default.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.promptDir, name+".txt"))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil // Already exists or stat error (ignore)
	}

	content := `# Interview Pilot Prompts

This directory contains the prompts the interview coach is built from.

## Files

- ` + "`base_system.txt`" + ` - Interviewer persona shared by every interview type
- ` + "`behavioral.txt`" + ` - Appended for behavioral interviews
- ` + "`technical.txt`" + ` - Appended for technical interviews
- ` + "`system_design.txt`" + ` - Appended for system design interviews
- ` + "`evaluation.txt`" + ` - System prompt used to score each answer

## Customisation

Edit any file to change the coach's behaviour. Changes take effect on the
next session. Delete a file to restore its default on the next run.

## Placeholders

` + "`base_system.txt`" + ` must keep two placeholders:
- ` + "`{context}`" + ` - Knowledge base excerpts retrieved for the session
- ` + "`{candidate_info}`" + ` - Details supplied about the candidate

The evaluation prompt should still ask for a line containing "Score" so
the score can be read back from the reply.
`
	return os.WriteFile(path, []byte(content), 0600)
}
