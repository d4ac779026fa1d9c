package applications

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Application // applicantID -> aggregate
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string]Application),
	}
}

// GetByApplicant returns the aggregate for an applicant.
func (r *MemoryRepo) GetByApplicant(ctx context.Context, applicantID string) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	app, ok := r.data[applicantID]
	if !ok {
		return Application{}, ErrNotFound
	}
	return app, nil
}

// Upsert creates the aggregate if absent and returns the stored row.
func (r *MemoryRepo) Upsert(ctx context.Context, applicantID string) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	app, ok := r.data[applicantID]
	if !ok {
		app = Application{
			ID:          uuid.NewString(),
			ApplicantID: applicantID,
			Status:      StatusDraft,
			CreatedAt:   now,
		}
	}
	app.UpdatedAt = now
	r.data[applicantID] = app
	return app, nil
}

// MergeExtractedFields applies keep-existing field merge and repoints the
// latest OCR result reference.
func (r *MemoryRepo) MergeExtractedFields(ctx context.Context, applicantID string, fields ExtractedFields, ocrResultID string) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.data[applicantID]
	if !ok {
		return Application{}, ErrNotFound
	}
	if app.BusinessName == "" {
		app.BusinessName = fields.BusinessName
	}
	if app.TaxID1 == "" {
		app.TaxID1 = fields.TaxID1
	}
	if app.TaxID2 == "" {
		app.TaxID2 = fields.TaxID2
	}
	app.LatestOCRResultID = ocrResultID
	app.Status = StatusSubmitted
	app.UpdatedAt = time.Now().UTC()
	r.data[applicantID] = app
	return app, nil
}

var _ Repo = (*MemoryRepo)(nil)
