package verification

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"vendor-backend/internal/applications"
	"vendor-backend/internal/documents"
	"vendor-backend/internal/fraud"
	"vendor-backend/internal/ocr"
	"vendor-backend/internal/ocrresults"
	"vendor-backend/internal/queue"
)

type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	failOn  string // file name that triggers a save failure
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (s *fakeStore) Save(ctx context.Context, applicantID, fileName string, r io.Reader) (string, int64, string, error) {
	if s.failOn != "" && fileName == s.failOn {
		return "", 0, "", errors.New("disk full")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, "", err
	}
	key := fmt.Sprintf("mem/%s/%s", applicantID, fileName)
	s.mu.Lock()
	s.objects[key] = data
	s.mu.Unlock()
	return key, int64(len(data)), "application/octet-stream", nil
}

func (s *fakeStore) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	s.mu.Lock()
	data, ok := s.objects[storageKey]
	s.mu.Unlock()
	if !ok {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(strings.NewReader(string(data))), nil
}

// textRecognizer returns canned text keyed by the file name embedded in the
// storage locator.
type textRecognizer struct {
	texts map[string]string
	err   error
}

func (r *textRecognizer) Recognize(ctx context.Context, locator string) (ocr.Recognition, error) {
	if r.err != nil {
		return ocr.Recognition{}, r.err
	}
	for name, text := range r.texts {
		if strings.HasSuffix(locator, "/"+name) {
			return ocr.Recognition{Text: text}, nil
		}
	}
	return ocr.Recognition{}, nil
}

type failingQueue struct {
	calls int
}

func (q *failingQueue) Send(ctx context.Context, msg queue.Message) error {
	q.calls++
	return errors.New("queue unreachable")
}

type testEnv struct {
	svc     *Service
	store   *fakeStore
	docs    *documents.MemoryRepo
	apps    *applications.MemoryRepo
	results *ocrresults.MemoryRepo
	flags   *fraud.MemoryRepo
}

func newTestEnv(rec ocr.Recognizer) *testEnv {
	store := newFakeStore()
	docs := documents.NewMemoryRepo()
	apps := applications.NewMemoryRepo()
	results := ocrresults.NewMemoryRepo()
	flags := fraud.NewMemoryRepo()
	if rec == nil {
		rec = &textRecognizer{}
	}
	return &testEnv{
		svc: &Service{
			Store: store,
			OCR:   ocr.NewAdapter(rec, time.Second),
			Aggregator: &applications.Aggregator{
				Applications: apps,
				Documents:    docs,
				OCRResults:   results,
				FraudFlags:   flags,
			},
			Documents: docs,
			Queue:     queue.NoopClient{},
		},
		store:   store,
		docs:    docs,
		apps:    apps,
		results: results,
		flags:   flags,
	}
}

func TestSubmitNoFiles(t *testing.T) {
	env := newTestEnv(nil)
	_, err := env.svc.Submit(context.Background(), "applicant-1", nil)
	if !errors.Is(err, ErrNoFilesProvided) {
		t.Fatalf("expected ErrNoFilesProvided, got %v", err)
	}
}

func TestSubmitEndToEnd(t *testing.T) {
	rec := &textRecognizer{texts: map[string]string{
		"pan.pdf": "INCOME TAX\nAcme Traders\nPAN: ABCDE1234F",
	}}
	env := newTestEnv(rec)

	res, err := env.svc.Submit(context.Background(), "applicant-1", []UploadFile{
		{Name: "pan.pdf", MimeType: "application/pdf", Data: []byte("%PDF-fake pan")},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if len(res.Documents) != 1 {
		t.Fatalf("expected 1 document, got %d", len(res.Documents))
	}
	if res.Application.BusinessName != "Acme Traders" {
		t.Errorf("business name = %q, want Acme Traders", res.Application.BusinessName)
	}
	if res.Application.TaxID1 != "ABCDE1234F" {
		t.Errorf("tax id 1 = %q, want ABCDE1234F", res.Application.TaxID1)
	}
	if res.Application.TaxID2 != "" {
		t.Errorf("tax id 2 = %q, want empty", res.Application.TaxID2)
	}
	if res.Application.Status != applications.StatusSubmitted {
		t.Errorf("status = %q, want %q", res.Application.Status, applications.StatusSubmitted)
	}
	if res.Application.LatestOCRResultID != res.OCRResult.ID {
		t.Errorf("latest ocr result id not repointed")
	}
	if res.Fraud.Severity != fraud.SeverityMedium {
		t.Errorf("severity = %q, want medium (tax id 2 absent)", res.Fraud.Severity)
	}
	if env.results.Count() != 1 || env.flags.Count() != 1 {
		t.Errorf("counts = %d ocr results, %d flags; want 1 and 1", env.results.Count(), env.flags.Count())
	}
}

func TestSubmitDuplicateResubmission(t *testing.T) {
	env := newTestEnv(nil)
	files := []UploadFile{{Name: "gst.pdf", Data: []byte("certificate bytes")}}

	if _, err := env.svc.Submit(context.Background(), "applicant-1", files); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	_, err := env.svc.Submit(context.Background(), "applicant-1", files)
	if !errors.Is(err, ErrDuplicateDocument) {
		t.Fatalf("expected ErrDuplicateDocument, got %v", err)
	}

	docs, err := env.docs.ListByApplicant(context.Background(), "applicant-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 1 {
		t.Errorf("document count after rejected resubmission = %d, want 1", len(docs))
	}
	if env.results.Count() != 1 {
		t.Errorf("ocr result count = %d, want 1", env.results.Count())
	}
}

func TestSubmitAllDuplicateBatchPersistsNothing(t *testing.T) {
	env := newTestEnv(nil)
	same := []byte("identical content")

	_, err := env.svc.Submit(context.Background(), "applicant-1", []UploadFile{
		{Name: "first.pdf", Data: same},
		{Name: "second.pdf", Data: same},
	})
	if !errors.Is(err, ErrDuplicateDocument) {
		t.Fatalf("expected ErrDuplicateDocument, got %v", err)
	}

	docs, err := env.docs.ListByApplicant(context.Background(), "applicant-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("document count = %d, want 0", len(docs))
	}
	if len(env.store.objects) != 0 {
		t.Errorf("stored objects = %d, want 0", len(env.store.objects))
	}
	if env.results.Count() != 0 || env.flags.Count() != 0 {
		t.Errorf("ocr/fraud records persisted for rejected batch")
	}
	if _, err := env.apps.GetByApplicant(context.Background(), "applicant-1"); !errors.Is(err, applications.ErrNotFound) {
		t.Errorf("aggregate created for rejected batch: %v", err)
	}
}

func TestSubmitCrossApplicantDuplicate(t *testing.T) {
	env := newTestEnv(nil)
	content := []byte("shared certificate")

	if _, err := env.svc.Submit(context.Background(), "applicant-1", []UploadFile{{Name: "cert.pdf", Data: content}}); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	_, err := env.svc.Submit(context.Background(), "applicant-2", []UploadFile{{Name: "renamed.pdf", Data: content}})
	if !errors.Is(err, ErrDuplicateDocument) {
		t.Fatalf("expected ErrDuplicateDocument for cross-applicant reuse, got %v", err)
	}
}

func TestSubmitStorageFailureKeepsEarlierDocuments(t *testing.T) {
	env := newTestEnv(nil)
	env.store.failOn = "second.pdf"

	_, err := env.svc.Submit(context.Background(), "applicant-1", []UploadFile{
		{Name: "first.pdf", Data: []byte("first content")},
		{Name: "second.pdf", Data: []byte("second content")},
	})
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}

	docs, err := env.docs.ListByApplicant(context.Background(), "applicant-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 1 || docs[0].FileName != "first.pdf" {
		t.Errorf("expected the first document to remain, got %+v", docs)
	}
}

func TestSubmitOCRDegradationDoesNotFail(t *testing.T) {
	env := newTestEnv(&textRecognizer{err: errors.New("provider down")})

	res, err := env.svc.Submit(context.Background(), "applicant-1", []UploadFile{
		{Name: "doc.pdf", Data: []byte("some content")},
	})
	if err != nil {
		t.Fatalf("submit with failing recognizer: %v", err)
	}
	if res.Application.BusinessName != "" || res.Application.TaxID1 != "" {
		t.Errorf("degraded recognition should leave fields empty, got %+v", res.Application)
	}
	if res.Fraud.Severity != fraud.SeverityHigh {
		t.Errorf("severity = %q, want high for an empty payload", res.Fraud.Severity)
	}
}

func TestSubmitKeepExistingMerge(t *testing.T) {
	rec := &textRecognizer{texts: map[string]string{
		"pan.pdf": "Acme Traders\nABCDE1234F",
		"gst.pdf": "Bogus Name Ltd\nGSTIN: 22ABCDE1234F1Z5",
	}}
	env := newTestEnv(rec)

	if _, err := env.svc.Submit(context.Background(), "applicant-1", []UploadFile{{Name: "pan.pdf", Data: []byte("pan bytes")}}); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	res, err := env.svc.Submit(context.Background(), "applicant-1", []UploadFile{{Name: "gst.pdf", Data: []byte("gst bytes")}})
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}

	if res.Application.BusinessName != "Acme Traders" {
		t.Errorf("business name = %q, want first-write Acme Traders", res.Application.BusinessName)
	}
	if res.Application.TaxID1 != "ABCDE1234F" {
		t.Errorf("tax id 1 = %q, want ABCDE1234F", res.Application.TaxID1)
	}
	if res.Application.TaxID2 != "22ABCDE1234F1Z5" {
		t.Errorf("tax id 2 = %q, want filled from second batch", res.Application.TaxID2)
	}
}

func TestSubmitQueueFailureIsBestEffort(t *testing.T) {
	env := newTestEnv(nil)
	q := &failingQueue{}
	env.svc.Queue = q

	_, err := env.svc.Submit(context.Background(), "applicant-1", []UploadFile{
		{Name: "doc.pdf", Data: []byte("content")},
	})
	if err != nil {
		t.Fatalf("queue failure must not fail the submission: %v", err)
	}
	if q.calls != 1 {
		t.Errorf("queue send calls = %d, want 1", q.calls)
	}
}
