package documents

import "time"

// SchemaVersion is stamped on every new document record.
const SchemaVersion = 1

// Document represents one uploaded file owned by an applicant. Records are
// immutable once created; the pipeline never deletes them.
type Document struct {
	ID              string
	ApplicantID     string
	Category        string
	ParentID        string
	FileName        string
	StorageKey      string
	StorageProvider string
	MimeType        string
	SizeBytes       int64
	Checksum        string
	SchemaVersion   int
	CreatedAt       time.Time
}
