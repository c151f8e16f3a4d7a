package domain

import (
	"encoding/json"
	"strings"
)

// CategoryGeneral is assigned to knowledge-base files that sit directly
// under the base directory rather than in a category subdirectory.
const CategoryGeneral = "general"

// InterviewType identifies the kind of mock interview.
// Each type doubles as a knowledge-base category name.
type InterviewType string

const (
	// InterviewBehavioral covers STAR-style past-experience questions.
	InterviewBehavioral InterviewType = "behavioral"

	// InterviewTechnical covers coding and computer science questions.
	InterviewTechnical InterviewType = "technical"

	// InterviewSystemDesign covers architecture and scaling questions.
	InterviewSystemDesign InterviewType = "system_design"
)

// DefaultInterviewType is used when none is supplied or the value is unknown.
const DefaultInterviewType = InterviewBehavioral

// InterviewTypes returns all supported interview types.
func InterviewTypes() []InterviewType {
	return []InterviewType{InterviewBehavioral, InterviewTechnical, InterviewSystemDesign}
}

// IsValid reports whether t is a supported interview type.
func (t InterviewType) IsValid() bool {
	switch t {
	case InterviewBehavioral, InterviewTechnical, InterviewSystemDesign:
		return true
	}
	return false
}

// String returns the string form.
func (t InterviewType) String() string {
	return string(t)
}

// DisplayName returns a human-readable label such as "System Design".
func (t InterviewType) DisplayName() string {
	words := strings.Split(string(t), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// ParseInterviewType normalises s and returns the matching type.
// Unknown or empty values return the default and false.
func ParseInterviewType(s string) (InterviewType, bool) {
	t := InterviewType(strings.ToLower(strings.TrimSpace(s)))
	if t.IsValid() {
		return t, true
	}
	return DefaultInterviewType, false
}

// RoomMetadata is the JSON document attached to a voice room by the
// scheduling side. Both fields are optional.
type RoomMetadata struct {
	InterviewType InterviewType `json:"interview_type"`
	CandidateInfo string        `json:"candidate_info"`
}

// ParseRoomMetadata decodes room metadata. Malformed JSON is ignored and
// yields defaults; an unknown interview type falls back to behavioral.
func ParseRoomMetadata(raw string) RoomMetadata {
	meta := RoomMetadata{InterviewType: DefaultInterviewType}
	if strings.TrimSpace(raw) == "" {
		return meta
	}

	var decoded struct {
		InterviewType string `json:"interview_type"`
		CandidateInfo string `json:"candidate_info"`
	}
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return meta
	}

	meta.InterviewType, _ = ParseInterviewType(decoded.InterviewType)
	meta.CandidateInfo = decoded.CandidateInfo
	return meta
}
