package domain

import (
	"math"
	"time"
)

// ScoreTrend describes how scores moved across a session.
type ScoreTrend string

const (
	TrendNotEnoughData ScoreTrend = "not_enough_data"
	TrendImproving     ScoreTrend = "improving"
	TrendDeclining     ScoreTrend = "declining"
	TrendStable        ScoreTrend = "stable"
)

// Summary tuning.
const (
	// minTrendScores is the number of scores needed before a trend is reported.
	minTrendScores = 3

	// trendThreshold is the half-to-half average difference that counts as movement.
	trendThreshold = 0.5

	// maxSummaryItems caps the strengths and improvements in a summary.
	maxSummaryItems = 5
)

// SessionMetrics accumulates scores for one interview session.
// It is created when a session starts, mutated as answers are scored,
// and finalised when the session ends. Callers serialise access.
type SessionMetrics struct {
	SessionID         string          `json:"session_id"`
	InterviewType     InterviewType   `json:"interview_type"`
	StartedAt         time.Time       `json:"started_at"`
	EndedAt           *time.Time      `json:"ended_at,omitempty"`
	QuestionsAnswered int             `json:"questions_answered"`
	Scores            []ResponseScore `json:"scores"`
	AverageScore      float64         `json:"average_score"`
}

// NewSessionMetrics creates metrics for a session that starts at startedAt.
func NewSessionMetrics(sessionID string, interviewType InterviewType, startedAt time.Time) *SessionMetrics {
	return &SessionMetrics{
		SessionID:     sessionID,
		InterviewType: interviewType,
		StartedAt:     startedAt,
		Scores:        []ResponseScore{},
	}
}

// AddScore records a score and updates the running average.
func (m *SessionMetrics) AddScore(score ResponseScore) {
	m.Scores = append(m.Scores, score)
	m.QuestionsAnswered++

	total := 0
	for _, s := range m.Scores {
		total += s.Overall
	}
	m.AverageScore = float64(total) / float64(len(m.Scores))
}

// End marks the session as finished at the given time.
func (m *SessionMetrics) End(at time.Time) {
	m.EndedAt = &at
}

// Ended reports whether the session has finished.
func (m *SessionMetrics) Ended() bool {
	return m.EndedAt != nil
}

// Clone returns a deep copy safe to hand to other goroutines.
func (m *SessionMetrics) Clone() SessionMetrics {
	out := *m
	if m.EndedAt != nil {
		ended := *m.EndedAt
		out.EndedAt = &ended
	}
	out.Scores = make([]ResponseScore, len(m.Scores))
	for i, s := range m.Scores {
		out.Scores[i] = ResponseScore{
			Overall:      s.Overall,
			Strengths:    append([]string(nil), s.Strengths...),
			Improvements: append([]string(nil), s.Improvements...),
			RawFeedback:  s.RawFeedback,
		}
	}
	return out
}

// SessionSummary is the end-of-interview report.
type SessionSummary struct {
	SessionID         string        `json:"session_id"`
	InterviewType     InterviewType `json:"interview_type"`
	DurationMinutes   float64       `json:"duration_minutes"`
	QuestionsAnswered int           `json:"questions_answered"`
	AverageScore      float64       `json:"average_score"`
	ScoreTrend        ScoreTrend    `json:"score_trend"`
	TopStrengths      []string      `json:"top_strengths"`
	AreasToImprove    []string      `json:"areas_to_improve"`
}

// Summary builds the session report.
// Duration is zero until the session has ended.
func (m *SessionMetrics) Summary() SessionSummary {
	var duration float64
	if m.EndedAt != nil {
		duration = round1(m.EndedAt.Sub(m.StartedAt).Minutes())
	}

	var strengths, improvements []string
	for _, s := range m.Scores {
		strengths = append(strengths, s.Strengths...)
		improvements = append(improvements, s.Improvements...)
	}

	return SessionSummary{
		SessionID:         m.SessionID,
		InterviewType:     m.InterviewType,
		DurationMinutes:   duration,
		QuestionsAnswered: m.QuestionsAnswered,
		AverageScore:      round1(m.AverageScore),
		ScoreTrend:        m.trend(),
		TopStrengths:      firstUnique(strengths, maxSummaryItems),
		AreasToImprove:    firstUnique(improvements, maxSummaryItems),
	}
}

// trend compares the average of the first half of scores with the second.
// With an odd count the extra score falls in the second half.
func (m *SessionMetrics) trend() ScoreTrend {
	if len(m.Scores) < minTrendScores {
		return TrendNotEnoughData
	}

	half := len(m.Scores) / 2
	first := meanScore(m.Scores[:half])
	second := meanScore(m.Scores[half:])

	switch diff := second - first; {
	case diff > trendThreshold:
		return TrendImproving
	case diff < -trendThreshold:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func meanScore(scores []ResponseScore) float64 {
	if len(scores) == 0 {
		return 0
	}
	total := 0
	for _, s := range scores {
		total += s.Overall
	}
	return float64(total) / float64(len(scores))
}

// firstUnique deduplicates items preserving first-seen order, keeping at most limit.
func firstUnique(items []string, limit int) []string {
	out := make([]string, 0, limit)
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if len(out) == limit {
			break
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
