package applications

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `id, applicant_id, business_name, tax_id1, tax_id2, latest_ocr_result_id, status, created_at, updated_at`

// GetByApplicant returns the aggregate for an applicant.
func (r *PGRepo) GetByApplicant(ctx context.Context, applicantID string) (Application, error) {
	const query = `SELECT ` + selectColumns + ` FROM vendor_applications WHERE applicant_id = $1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, applicantID))
}

// Upsert creates the aggregate if absent and returns the stored row.
func (r *PGRepo) Upsert(ctx context.Context, applicantID string) (Application, error) {
	const query = `
INSERT INTO vendor_applications (id, applicant_id, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $4)
ON CONFLICT (applicant_id) DO UPDATE SET updated_at = EXCLUDED.updated_at
RETURNING ` + selectColumns

	now := time.Now().UTC()
	return r.scanOne(r.DB.QueryRowContext(ctx, query, uuid.NewString(), applicantID, StatusDraft, now))
}

// MergeExtractedFields updates business identifiers with keep-existing
// semantics: a field only takes the new value when the stored value is empty.
// The latest OCR result reference always moves forward.
func (r *PGRepo) MergeExtractedFields(ctx context.Context, applicantID string, fields ExtractedFields, ocrResultID string) (Application, error) {
	const query = `
UPDATE vendor_applications
SET business_name = COALESCE(NULLIF(business_name, ''), $2),
    tax_id1 = COALESCE(NULLIF(tax_id1, ''), $3),
    tax_id2 = COALESCE(NULLIF(tax_id2, ''), $4),
    latest_ocr_result_id = $5,
    status = $6,
    updated_at = $7
WHERE applicant_id = $1
RETURNING ` + selectColumns

	row := r.DB.QueryRowContext(
		ctx,
		query,
		applicantID,
		fields.BusinessName,
		fields.TaxID1,
		fields.TaxID2,
		nullableID(ocrResultID),
		StatusSubmitted,
		time.Now().UTC(),
	)
	return r.scanOne(row)
}

func nullableID(id string) any {
	if id == "" {
		return nil
	}
	return id
}

func (r *PGRepo) scanOne(row *sql.Row) (Application, error) {
	var app Application
	var latestOCR sql.NullString
	err := row.Scan(
		&app.ID,
		&app.ApplicantID,
		&app.BusinessName,
		&app.TaxID1,
		&app.TaxID2,
		&latestOCR,
		&app.Status,
		&app.CreatedAt,
		&app.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Application{}, ErrNotFound
		}
		return Application{}, err
	}
	if latestOCR.Valid {
		app.LatestOCRResultID = latestOCR.String
	}
	return app, nil
}

var _ Repo = (*PGRepo)(nil)
