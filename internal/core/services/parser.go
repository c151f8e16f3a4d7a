package services

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/custodia-labs/interview-pilot/internal/core/domain"
	"github.com/custodia-labs/interview-pilot/internal/core/ports/driven"
)

// Ensure parsers implement the interface.
var (
	_ driven.EvaluationParser = LineParser{}
	_ driven.EvaluationParser = JSONParser{}
)

// formatHinter is implemented by parsers that need the evaluator to ask
// for a particular response format.
type formatHinter interface {
	FormatHint() string
}

// LineParser reads free-text evaluator output line by line.
//
// A line mentioning "score" or "/10" sets the score from its first token
// that reads as an integer in 1..10; later lines override earlier ones.
// Lines with "strength" and a colon add a strength; lines with "improve",
// "suggestion" or "consider" and a colon add an improvement.
type LineParser struct{}

// Parse implements driven.EvaluationParser.
func (LineParser) Parse(raw string) domain.ResponseScore {
	score := domain.NewResponseScore(raw)

	for _, line := range strings.Split(raw, "\n") {
		lower := strings.ToLower(line)

		if strings.Contains(lower, "score") || strings.Contains(line, "/10") {
			for _, tok := range strings.Fields(line) {
				if n, ok := scoreToken(tok); ok {
					score.Overall = n
					break
				}
			}
		}

		if strings.Contains(lower, "strength") {
			if content, ok := afterColon(line); ok {
				score.Strengths = append(score.Strengths, content)
			}
		}

		if strings.Contains(lower, "improve") ||
			strings.Contains(lower, "suggestion") ||
			strings.Contains(lower, "consider") {
			if content, ok := afterColon(line); ok {
				score.Improvements = append(score.Improvements, content)
			}
		}
	}

	return score
}

// scoreToken accepts tokens like "8", "(8)", "8:" or "8/10". Only
// brackets, slashes and colons are trimmed, so "**8**" and "8." do not
// count.
func scoreToken(tok string) (int, bool) {
	t := strings.Trim(tok, "()/:")
	if i := strings.Index(t, "/"); i > 0 {
		t = t[:i]
	}
	n, err := strconv.Atoi(t)
	if err != nil || !domain.ValidScore(n) {
		return 0, false
	}
	return n, true
}

func afterColon(line string) (string, bool) {
	_, content, found := strings.Cut(line, ":")
	if !found {
		return "", false
	}
	content = strings.TrimSpace(content)
	return content, content != ""
}

// JSONParser reads a JSON object of the form
// {"score": 8, "strengths": [...], "improvements": [...]}, optionally
// wrapped in a markdown code fence. Anything else is handed to LineParser.
type JSONParser struct{}

type jsonEvaluation struct {
	Score        any      `json:"score"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
}

// FormatHint is appended to the evaluation prompt.
func (JSONParser) FormatHint() string {
	return `Respond with only a JSON object: {"score": <integer 1-10>, "strengths": ["..."], "improvements": ["..."]}`
}

// Parse implements driven.EvaluationParser.
func (JSONParser) Parse(raw string) domain.ResponseScore {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return LineParser{}.Parse(raw)
	}

	var ev jsonEvaluation
	if err := json.Unmarshal([]byte(raw[start:end+1]), &ev); err != nil {
		return LineParser{}.Parse(raw)
	}

	n, ok := jsonScore(ev.Score)
	if !ok {
		return LineParser{}.Parse(raw)
	}

	score := domain.NewResponseScore(raw)
	score.Overall = n
	score.Strengths = nonEmpty(ev.Strengths)
	score.Improvements = nonEmpty(ev.Improvements)
	return score
}

func jsonScore(v any) (int, bool) {
	switch s := v.(type) {
	case float64:
		if s != math.Trunc(s) {
			return 0, false
		}
		n := int(s)
		return n, domain.ValidScore(n)
	case string:
		return scoreToken(strings.TrimSpace(s))
	default:
		return 0, false
	}
}

func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// NewEvaluationParser returns the parser registered under name
// ("line" or "json"). Unknown names return ErrUnsupportedType.
func NewEvaluationParser(name string) (driven.EvaluationParser, error) {
	switch strings.ToLower(name) {
	case "", "line":
		return LineParser{}, nil
	case "json":
		return JSONParser{}, nil
	default:
		return nil, domain.ErrUnsupportedType
	}
}
