package ocrresults

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no OCR result exists.
var ErrNotFound = errors.New("ocr result not found")

// Repo defines persistence operations for OCR results.
type Repo interface {
	Create(ctx context.Context, result Result) error
	GetByID(ctx context.Context, id string) (Result, error)
	LatestByApplicant(ctx context.Context, applicantID string) (Result, error)
}
