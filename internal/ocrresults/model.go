package ocrresults

import "time"

// Status of one text-extraction run.
const (
	StatusProcessed = "processed"
	StatusPending   = "pending"
	StatusFailed    = "failed"
)

// Result represents one text-extraction run for a submission batch. Created
// exactly once per batch, never mutated; a later submission supersedes it
// with a new record and older ones are retained for audit.
type Result struct {
	ID           string
	DocumentID   string
	ApplicantID  string
	BusinessName string
	TaxID1       string
	TaxID2       string
	RawText      string
	Status       string
	CreatedAt    time.Time
}
