package verification

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"vendor-backend/internal/applications"
	"vendor-backend/internal/documents"
	"vendor-backend/internal/extract"
	"vendor-backend/internal/fraud"
	"vendor-backend/internal/ocr"
	"vendor-backend/internal/ocrresults"
	"vendor-backend/internal/queue"
	"vendor-backend/internal/shared/metrics"
	"vendor-backend/internal/shared/storage/object"
	"vendor-backend/internal/shared/telemetry"
	"vendor-backend/internal/shared/util"
)

// UploadFile is one file of a submission batch.
type UploadFile struct {
	Name     string
	MimeType string
	Data     []byte
}

// Result is the outcome of a successful submission: the updated aggregate,
// the documents stored by this batch, and the fraud verdict.
type Result struct {
	Application applications.Application
	Documents   []documents.Document
	OCRResult   ocrresults.Result
	Fraud       fraud.Result
}

// Service orchestrates the verification pipeline: dedup, store, OCR, field
// extraction, fraud scoring and the aggregate merge.
type Service struct {
	Store      object.ObjectStore
	OCR        *ocr.Adapter
	Aggregator *applications.Aggregator
	Documents  documents.Repo
	Queue      queue.Client
	Category   string
	Provider   string
}

// Submit runs the full pipeline for one batch of uploaded files.
//
// Files are processed strictly in submission order: the duplicate-check scope
// grows file by file so intra-batch copies are caught, and a purely parallel
// layout would miss them. The whole batch is checksummed before any byte is
// stored, so a rejected batch persists nothing.
func (s *Service) Submit(ctx context.Context, applicantID string, files []UploadFile) (Result, error) {
	if len(files) == 0 {
		return Result{}, ErrNoFilesProvided
	}

	metrics.IncVerificationStarted()
	start := time.Now()

	checksums, err := s.dedup(ctx, applicantID, files)
	if err != nil {
		metrics.IncVerificationFailed()
		return Result{}, err
	}

	var (
		stored   []documents.Document
		payloads []extract.Payload
	)
	for i, file := range files {
		doc, err := s.storeOne(ctx, applicantID, file, checksums[i])
		if err != nil {
			metrics.IncVerificationFailed()
			return Result{}, err
		}
		stored = append(stored, doc)

		// Best-effort enrichment: a degraded OCR call yields an empty
		// recognition and the pipeline carries on.
		recognition := s.OCR.Extract(ctx, doc.StorageKey)
		payloads = append(payloads, payloadFrom(recognition))
	}

	merged := extract.Merge(payloads...)
	score := fraud.Score(merged)

	app, ocrResult, err := s.Aggregator.RecordOcrAndFraud(ctx, applicantID, stored[0].ID, merged, score)
	if err != nil {
		metrics.IncVerificationFailed()
		telemetry.Error("verification.aggregate_write_failed", map[string]any{
			"applicant_id": applicantID,
			"error":        err.Error(),
		})
		return Result{}, fmt.Errorf("%w: %v", ErrAggregateWriteFailed, err)
	}

	s.notify(ctx, app, score)

	metrics.IncVerificationCompleted()
	metrics.ObserveVerificationDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	telemetry.Info("verification.completed", map[string]any{
		"applicant_id":   applicantID,
		"application_id": app.ID,
		"documents":      len(stored),
		"fraud_severity": string(score.Severity),
		"flag_count":     len(score.Flags),
	})

	return Result{
		Application: app,
		Documents:   stored,
		OCRResult:   ocrResult,
		Fraud:       score,
	}, nil
}

// dedup checksums every file of the batch up front and rejects the whole
// submission on any collision, in-batch or against history. The scope is the
// union of the applicant's own documents and every checksum stored under the
// same category across all applicants; cross-applicant reuse of a document is
// itself a fraud signal.
func (s *Service) dedup(ctx context.Context, applicantID string, files []UploadFile) ([]string, error) {
	scope, err := s.Documents.ChecksumsForApplicant(ctx, applicantID)
	if err != nil {
		return nil, fmt.Errorf("%w: load checksum history: %v", ErrAggregateWriteFailed, err)
	}

	checksums := make([]string, len(files))
	for i, file := range files {
		sum := util.ContentChecksum(file.Data)
		checksums[i] = sum

		if _, seen := scope[sum]; seen {
			metrics.IncDuplicateRejected()
			telemetry.Info("verification.duplicate_rejected", map[string]any{
				"applicant_id": applicantID,
				"file_name":    file.Name,
				"position":     i,
			})
			return nil, ErrDuplicateDocument
		}
		exists, err := s.Documents.ChecksumExistsInCategory(ctx, s.category(), sum)
		if err != nil {
			return nil, fmt.Errorf("%w: checksum lookup: %v", ErrAggregateWriteFailed, err)
		}
		if exists {
			metrics.IncDuplicateRejected()
			telemetry.Info("verification.duplicate_rejected", map[string]any{
				"applicant_id": applicantID,
				"file_name":    file.Name,
				"position":     i,
				"cross":        true,
			})
			return nil, ErrDuplicateDocument
		}
		scope[sum] = struct{}{}
	}
	return checksums, nil
}

func (s *Service) storeOne(ctx context.Context, applicantID string, file UploadFile, checksum string) (documents.Document, error) {
	storageKey, size, detectedMime, err := s.Store.Save(ctx, applicantID, file.Name, bytes.NewReader(file.Data))
	if err != nil {
		telemetry.Error("verification.store_failed", map[string]any{
			"applicant_id": applicantID,
			"file_name":    file.Name,
			"error":        err.Error(),
		})
		return documents.Document{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	mimeType := file.MimeType
	if mimeType == "" {
		mimeType = detectedMime
	}

	doc := documents.Document{
		ID:              uuid.NewString(),
		ApplicantID:     applicantID,
		Category:        s.category(),
		FileName:        file.Name,
		StorageKey:      storageKey,
		StorageProvider: s.provider(),
		MimeType:        mimeType,
		SizeBytes:       size,
		Checksum:        checksum,
		SchemaVersion:   documents.SchemaVersion,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.Aggregator.AppendDocuments(ctx, applicantID, []documents.Document{doc}); err != nil {
		telemetry.Error("verification.append_failed", map[string]any{
			"applicant_id": applicantID,
			"document_id":  doc.ID,
			"error":        err.Error(),
		})
		return documents.Document{}, fmt.Errorf("%w: %v", ErrAggregateWriteFailed, err)
	}
	return doc, nil
}

// payloadFrom folds the provider's structured fields over what the field
// extractor recovers from raw text; provider fields win when present.
func payloadFrom(rec ocr.Recognition) extract.Payload {
	payload := extract.Fields(rec.Text)
	if rec.BusinessName != "" {
		payload.BusinessName = rec.BusinessName
	}
	if rec.TaxID1 != "" {
		payload.TaxID1 = rec.TaxID1
	}
	if rec.TaxID2 != "" {
		payload.TaxID2 = rec.TaxID2
	}
	return payload
}

// notify publishes the verification outcome for downstream review tooling.
// Best-effort: a publish failure is logged and never fails the submission.
func (s *Service) notify(ctx context.Context, app applications.Application, score fraud.Result) {
	if s.Queue == nil {
		return
	}
	msg := queue.Message{
		ApplicationID: app.ID,
		ApplicantID:   app.ApplicantID,
		Severity:      string(score.Severity),
		EnqueuedAt:    time.Now().UTC().Format(time.RFC3339),
		Version:       1,
	}
	if err := s.Queue.Send(ctx, msg); err != nil {
		telemetry.Warn("verification.notify_failed", map[string]any{
			"application_id": app.ID,
			"error":          err.Error(),
		})
	}
}

func (s *Service) category() string {
	if s.Category == "" {
		return "vendor_application"
	}
	return s.Category
}

func (s *Service) provider() string {
	if s.Provider == "" {
		return "local"
	}
	return s.Provider
}
