package documents

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Document // applicantID -> documents in insert order
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string][]Document),
	}
}

// Create appends a document record for an applicant.
func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if doc.Category == "" {
		doc.Category = "vendor_application"
	}
	if doc.SchemaVersion == 0 {
		doc.SchemaVersion = SchemaVersion
	}
	r.data[doc.ApplicantID] = append(r.data[doc.ApplicantID], doc)
	return nil
}

// ListByApplicant returns documents in upload order.
func (r *MemoryRepo) ListByApplicant(ctx context.Context, applicantID string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	docs := r.data[applicantID]
	out := make([]Document, len(docs))
	copy(out, docs)
	return out, nil
}

// LatestByApplicant returns the most recently stored document.
func (r *MemoryRepo) LatestByApplicant(ctx context.Context, applicantID string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	docs := r.data[applicantID]
	if len(docs) == 0 {
		return Document{}, ErrNotFound
	}
	return docs[len(docs)-1], nil
}

// ChecksumsForApplicant returns all checksums stored for an applicant.
func (r *MemoryRepo) ChecksumsForApplicant(ctx context.Context, applicantID string) (map[string]struct{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]struct{})
	for _, doc := range r.data[applicantID] {
		out[doc.Checksum] = struct{}{}
	}
	return out, nil
}

// ChecksumExistsInCategory reports whether any applicant stored this checksum
// under the given category.
func (r *MemoryRepo) ChecksumExistsInCategory(ctx context.Context, category, checksum string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, docs := range r.data {
		for _, doc := range docs {
			if doc.Category == category && doc.Checksum == checksum {
				return true, nil
			}
		}
	}
	return false, nil
}

var _ Repo = (*MemoryRepo)(nil)
