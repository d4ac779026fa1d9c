package ocrresults

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts an OCR result record.
func (r *PGRepo) Create(ctx context.Context, result Result) error {
	const query = `
INSERT INTO ocr_results (id, document_id, applicant_id, business_name, tax_id1, tax_id2, raw_text, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	status := result.Status
	if status == "" {
		status = StatusProcessed
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		result.ID,
		result.DocumentID,
		result.ApplicantID,
		result.BusinessName,
		result.TaxID1,
		result.TaxID2,
		result.RawText,
		status,
		result.CreatedAt,
	)
	return err
}

// GetByID fetches an OCR result by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Result, error) {
	const query = `
SELECT id, document_id, applicant_id, business_name, tax_id1, tax_id2, raw_text, status, created_at
FROM ocr_results
WHERE id = $1`

	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

// LatestByApplicant returns the newest OCR result for an applicant.
func (r *PGRepo) LatestByApplicant(ctx context.Context, applicantID string) (Result, error) {
	const query = `
SELECT id, document_id, applicant_id, business_name, tax_id1, tax_id2, raw_text, status, created_at
FROM ocr_results
WHERE applicant_id = $1
ORDER BY created_at DESC
LIMIT 1`

	return r.scanOne(r.DB.QueryRowContext(ctx, query, applicantID))
}

func (r *PGRepo) scanOne(row *sql.Row) (Result, error) {
	var result Result
	err := row.Scan(
		&result.ID,
		&result.DocumentID,
		&result.ApplicantID,
		&result.BusinessName,
		&result.TaxID1,
		&result.TaxID2,
		&result.RawText,
		&result.Status,
		&result.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Result{}, ErrNotFound
		}
		return Result{}, err
	}
	return result, nil
}

var _ Repo = (*PGRepo)(nil)
