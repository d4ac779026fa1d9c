package documents

import "context"

// Repo defines persistence operations for documents.
//
// ChecksumsForApplicant and ChecksumExistsInCategory together form the
// duplicate-check scope: an applicant's own history plus every checksum ever
// stored under the same category, across all applicants.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	ListByApplicant(ctx context.Context, applicantID string) ([]Document, error)
	LatestByApplicant(ctx context.Context, applicantID string) (Document, error)
	ChecksumsForApplicant(ctx context.Context, applicantID string) (map[string]struct{}, error)
	ChecksumExistsInCategory(ctx context.Context, category, checksum string) (bool, error)
}
