package driving

import (
	"context"

	"github.com/custodia-labs/interview-pilot/internal/core/domain"
)

// Coach prepares interview sessions for a voice runtime.
type Coach interface {
	// Prepare parses room metadata and assembles everything needed to
	// open the interview. An empty sessionID gets a generated one.
	Prepare(ctx context.Context, sessionID, rawMetadata string) (domain.InterviewPlan, error)
}
