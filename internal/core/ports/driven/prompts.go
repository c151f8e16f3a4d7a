package driven

// PromptStore provides access to interview prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptBaseSystem is the interviewer persona. It carries the
	// {context} and {candidate_info} placeholders.
	PromptBaseSystem = "base_system"

	// PromptBehavioral is appended for behavioral interviews.
	PromptBehavioral = "behavioral"

	// PromptTechnical is appended for technical interviews.
	PromptTechnical = "technical"

	// PromptSystemDesign is appended for system design interviews.
	PromptSystemDesign = "system_design"

	// PromptEvaluation is the system prompt for scoring a single answer.
	PromptEvaluation = "evaluation"
)
