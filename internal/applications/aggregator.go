package applications

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"vendor-backend/internal/documents"
	"vendor-backend/internal/extract"
	"vendor-backend/internal/fraud"
	"vendor-backend/internal/ocrresults"
)

// Aggregator is the only component permitted to mutate the vendor application
// aggregate during the verification pipeline.
type Aggregator struct {
	Applications Repo
	Documents    documents.Repo
	OCRResults   ocrresults.Repo
	FraudFlags   fraud.Repo
}

// AppendDocuments appends document records to the applicant's aggregate,
// creating the aggregate if absent. Safe to call with an empty list.
func (a *Aggregator) AppendDocuments(ctx context.Context, applicantID string, docs []documents.Document) error {
	if len(docs) == 0 {
		return nil
	}
	if _, err := a.Applications.Upsert(ctx, applicantID); err != nil {
		return fmt.Errorf("upsert application: %w", err)
	}
	for _, doc := range docs {
		if err := a.Documents.Create(ctx, doc); err != nil {
			return fmt.Errorf("append document %s: %w", doc.ID, err)
		}
	}
	return nil
}

// RecordOcrAndFraud creates the OCR result and fraud flag records, then
// merges the extracted business identifiers into the aggregate with
// keep-existing semantics and repoints its latest-OCR-result reference.
// documentID is the first newly stored document of the batch.
func (a *Aggregator) RecordOcrAndFraud(ctx context.Context, applicantID, documentID string, payload extract.Payload, score fraud.Result) (Application, ocrresults.Result, error) {
	now := time.Now().UTC()

	ocrResult := ocrresults.Result{
		ID:           uuid.NewString(),
		DocumentID:   documentID,
		ApplicantID:  applicantID,
		BusinessName: payload.BusinessName,
		TaxID1:       payload.TaxID1,
		TaxID2:       payload.TaxID2,
		RawText:      payload.RawText,
		Status:       ocrresults.StatusProcessed,
		CreatedAt:    now,
	}
	if err := a.OCRResults.Create(ctx, ocrResult); err != nil {
		return Application{}, ocrresults.Result{}, fmt.Errorf("create ocr result: %w", err)
	}

	flag := fraud.Flag{
		ID:         uuid.NewString(),
		EntityType: fraud.EntityTypeOCRResult,
		EntityID:   ocrResult.ID,
		Flags:      score.Flags,
		Severity:   score.Severity,
		CreatedAt:  now,
	}
	if err := a.FraudFlags.Create(ctx, flag); err != nil {
		return Application{}, ocrresults.Result{}, fmt.Errorf("create fraud flag: %w", err)
	}

	if _, err := a.Applications.Upsert(ctx, applicantID); err != nil {
		return Application{}, ocrresults.Result{}, fmt.Errorf("upsert application: %w", err)
	}

	app, err := a.Applications.MergeExtractedFields(ctx, applicantID, ExtractedFields{
		BusinessName: payload.BusinessName,
		TaxID1:       payload.TaxID1,
		TaxID2:       payload.TaxID2,
	}, ocrResult.ID)
	if err != nil {
		return Application{}, ocrresults.Result{}, fmt.Errorf("merge extracted fields: %w", err)
	}

	return app, ocrResult, nil
}
