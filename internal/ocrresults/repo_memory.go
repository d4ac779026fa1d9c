package ocrresults

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu      sync.RWMutex
	results []Result
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

// Create stores an OCR result record.
func (r *MemoryRepo) Create(ctx context.Context, result Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if result.Status == "" {
		result.Status = StatusProcessed
	}
	r.results = append(r.results, result)
	return nil
}

// GetByID fetches an OCR result by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.results {
		if r.results[i].ID == id {
			return r.results[i], nil
		}
	}
	return Result{}, ErrNotFound
}

// LatestByApplicant returns the newest OCR result for an applicant.
func (r *MemoryRepo) LatestByApplicant(ctx context.Context, applicantID string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := len(r.results) - 1; i >= 0; i-- {
		if r.results[i].ApplicantID == applicantID {
			return r.results[i], nil
		}
	}
	return Result{}, ErrNotFound
}

// Count returns the number of stored results.
func (r *MemoryRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.results)
}

var _ Repo = (*MemoryRepo)(nil)
