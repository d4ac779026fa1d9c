package documents

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new document record.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
    id,
    applicant_id,
    category,
    parent_id,
    file_name,
    storage_key,
    storage_provider,
    mime_type,
    size_bytes,
    checksum,
    schema_version,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	category := doc.Category
	if category == "" {
		category = "vendor_application"
	}
	provider := doc.StorageProvider
	if provider == "" {
		provider = "local"
	}
	schemaVersion := doc.SchemaVersion
	if schemaVersion == 0 {
		schemaVersion = SchemaVersion
	}

	var parentID sql.NullString
	if doc.ParentID != "" {
		parentID = sql.NullString{String: doc.ParentID, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.ApplicantID,
		category,
		parentID,
		doc.FileName,
		doc.StorageKey,
		provider,
		doc.MimeType,
		doc.SizeBytes,
		doc.Checksum,
		schemaVersion,
		doc.CreatedAt,
	)
	return err
}

// ListByApplicant returns an applicant's documents in upload order.
func (r *PGRepo) ListByApplicant(ctx context.Context, applicantID string) ([]Document, error) {
	const query = `
SELECT id, applicant_id, category, parent_id, file_name, storage_key, storage_provider, mime_type, size_bytes, checksum, schema_version, created_at
FROM documents
WHERE applicant_id = $1
ORDER BY created_at ASC`

	rows, err := r.DB.QueryContext(ctx, query, applicantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// LatestByApplicant returns the most recently stored document for an applicant.
func (r *PGRepo) LatestByApplicant(ctx context.Context, applicantID string) (Document, error) {
	const query = `
SELECT id, applicant_id, category, parent_id, file_name, storage_key, storage_provider, mime_type, size_bytes, checksum, schema_version, created_at
FROM documents
WHERE applicant_id = $1
ORDER BY created_at DESC
LIMIT 1`

	row := r.DB.QueryRowContext(ctx, query, applicantID)
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// ChecksumsForApplicant returns all checksums already attached to an applicant.
func (r *PGRepo) ChecksumsForApplicant(ctx context.Context, applicantID string) (map[string]struct{}, error) {
	const query = `SELECT checksum FROM documents WHERE applicant_id = $1`

	rows, err := r.DB.QueryContext(ctx, query, applicantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]struct{})
	for rows.Next() {
		var checksum string
		if err := rows.Scan(&checksum); err != nil {
			return nil, err
		}
		out[checksum] = struct{}{}
	}
	return out, rows.Err()
}

// ChecksumExistsInCategory reports whether any applicant has stored this
// checksum under the given category. Cross-applicant reuse is a fraud signal,
// not a dedup convenience.
func (r *PGRepo) ChecksumExistsInCategory(ctx context.Context, category, checksum string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM documents WHERE category = $1 AND checksum = $2)`

	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, category, checksum).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var parentID sql.NullString
	err := row.Scan(
		&doc.ID,
		&doc.ApplicantID,
		&doc.Category,
		&parentID,
		&doc.FileName,
		&doc.StorageKey,
		&doc.StorageProvider,
		&doc.MimeType,
		&doc.SizeBytes,
		&doc.Checksum,
		&doc.SchemaVersion,
		&doc.CreatedAt,
	)
	if err != nil {
		return Document{}, err
	}
	if parentID.Valid {
		doc.ParentID = parentID.String
	}
	return doc, nil
}

var _ Repo = (*PGRepo)(nil)
