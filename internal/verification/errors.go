package verification

import "errors"

var (
	// ErrNoFilesProvided rejects an empty batch before any I/O.
	ErrNoFilesProvided = errors.New("no files provided")
	// ErrDuplicateDocument fails the whole batch when any file's checksum was
	// already seen, in-batch or against history. Nothing is persisted.
	ErrDuplicateDocument = errors.New("duplicate document detected")
	// ErrStorageUnavailable means a file could not be durably persisted.
	// Documents stored earlier in the batch remain.
	ErrStorageUnavailable = errors.New("document storage unavailable")
	// ErrAggregateWriteFailed means the final aggregate upsert did not
	// complete. Documents and OCR/fraud records already written are retained.
	ErrAggregateWriteFailed = errors.New("application update failed")
)

const (
	ErrorCodeValidation = "validation_error"
	ErrorCodeDuplicate  = "duplicate_document"
	ErrorCodeStorage    = "storage_unavailable"
	ErrorCodeInternal   = "internal_error"
)
