package object

import (
	"context"
	"io"
)

// ObjectStore defines the contract for saving and retrieving document bytes.
// Save must not return until the content is durably retrievable at the
// returned storage key; callers never observe partial writes.
type ObjectStore interface {
	Save(ctx context.Context, applicantID string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}
