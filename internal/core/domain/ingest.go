package domain

import "time"

// IngestReport summarises one ingestion run.
type IngestReport struct {
	Documents int           `json:"documents"`
	Chunks    int           `json:"chunks"`
	IDs       []string      `json:"ids"`
	Duration  time.Duration `json:"duration"`
}
