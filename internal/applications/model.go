package applications

import "time"

// Lifecycle status of a vendor application.
const (
	StatusDraft     = "draft"
	StatusSubmitted = "submitted"
)

// Application is the durable, applicant-scoped aggregate that accumulates
// documents and verification outcomes over time. One row per applicant.
type Application struct {
	ID                string
	ApplicantID       string
	BusinessName      string
	TaxID1            string
	TaxID2            string
	LatestOCRResultID string
	Status            string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ExtractedFields carries newly extracted business identifiers into a merge.
// Merging is keep-existing: automated extraction never overwrites a field a
// human (or an earlier extraction) already populated.
type ExtractedFields struct {
	BusinessName string
	TaxID1       string
	TaxID2       string
}
