package domain

// Score bounds for evaluated responses.
const (
	MinScore     = 1
	MaxScore     = 10
	DefaultScore = 7
)

// ResponseScore is the evaluation of a single candidate answer.
type ResponseScore struct {
	// Overall is the score in 1..10.
	Overall int `json:"overall"`

	// Strengths lists what the candidate did well.
	Strengths []string `json:"strengths"`

	// Improvements lists concrete suggestions.
	Improvements []string `json:"improvements"`

	// RawFeedback is the unparsed evaluator output.
	RawFeedback string `json:"raw_feedback"`
}

// NewResponseScore returns a score with the default overall value and
// empty lists, ready to be filled by a parser.
func NewResponseScore(raw string) ResponseScore {
	return ResponseScore{
		Overall:      DefaultScore,
		Strengths:    []string{},
		Improvements: []string{},
		RawFeedback:  raw,
	}
}

// ValidScore reports whether n is inside the 1..10 range.
func ValidScore(n int) bool {
	return n >= MinScore && n <= MaxScore
}
