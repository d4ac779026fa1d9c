package applications

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no aggregate exists for an applicant.
var ErrNotFound = errors.New("vendor application not found")

// Repo defines persistence operations for the vendor application aggregate.
type Repo interface {
	GetByApplicant(ctx context.Context, applicantID string) (Application, error)
	// Upsert creates the aggregate if absent and returns the stored row.
	Upsert(ctx context.Context, applicantID string) (Application, error)
	// MergeExtractedFields applies keep-existing field merge and repoints the
	// latest OCR result reference, returning the updated row.
	MergeExtractedFields(ctx context.Context, applicantID string, fields ExtractedFields, ocrResultID string) (Application, error)
}
