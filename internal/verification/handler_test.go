package verification

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"vendor-backend/internal/shared/server/middleware"
)

func newTestRouter(env *testEnv) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/api/v1")
	group.Use(middleware.Applicant())
	NewHandler(env.svc, env.apps).RegisterRoutes(group)
	return r
}

func multipartBody(t *testing.T, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, content := range files {
		part, err := writer.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestSubmitHandlerCreated(t *testing.T) {
	env := newTestEnv(&textRecognizer{texts: map[string]string{
		"pan.pdf": "Acme Traders\nPAN\nABCDE1234F",
	}})
	router := newTestRouter(env)

	body, contentType := multipartBody(t, map[string][]byte{"pan.pdf": []byte("pan bytes")})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications/documents", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Applicant-Id", "applicant-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", rec.Code, rec.Body.String())
	}

	var resp submitResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Application.BusinessName != "Acme Traders" {
		t.Errorf("business name = %q, want Acme Traders", resp.Application.BusinessName)
	}
	if resp.Application.TaxID1 != "ABCDE1234F" {
		t.Errorf("tax id 1 = %q, want ABCDE1234F", resp.Application.TaxID1)
	}
	if len(resp.Documents) != 1 {
		t.Errorf("document count = %d, want 1", len(resp.Documents))
	}
	if resp.Fraud.Severity != "medium" {
		t.Errorf("severity = %q, want medium", resp.Fraud.Severity)
	}
}

func TestSubmitHandlerNoFiles(t *testing.T) {
	env := newTestEnv(nil)
	router := newTestRouter(env)

	body, contentType := multipartBody(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications/documents", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Applicant-Id", "applicant-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	assertErrorCode(t, rec.Body.Bytes(), ErrorCodeValidation)
}

func TestSubmitHandlerDuplicateConflict(t *testing.T) {
	env := newTestEnv(nil)
	router := newTestRouter(env)

	content := map[string][]byte{"cert.pdf": []byte("certificate")}
	for i, wantStatus := range []int{http.StatusCreated, http.StatusConflict} {
		body, contentType := multipartBody(t, content)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/applications/documents", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("X-Applicant-Id", "applicant-1")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != wantStatus {
			t.Fatalf("request %d: status = %d, want %d", i, rec.Code, wantStatus)
		}
		if wantStatus == http.StatusConflict {
			assertErrorCode(t, rec.Body.Bytes(), ErrorCodeDuplicate)
		}
	}
}

func TestSubmitHandlerStorageUnavailable(t *testing.T) {
	env := newTestEnv(nil)
	env.store.failOn = "doc.pdf"
	router := newTestRouter(env)

	body, contentType := multipartBody(t, map[string][]byte{"doc.pdf": []byte("content")})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications/documents", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Applicant-Id", "applicant-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	assertErrorCode(t, rec.Body.Bytes(), ErrorCodeStorage)
}

func TestSubmitHandlerMissingApplicant(t *testing.T) {
	env := newTestEnv(nil)
	router := newTestRouter(env)

	body, contentType := multipartBody(t, map[string][]byte{"doc.pdf": []byte("content")})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestCurrentApplication(t *testing.T) {
	env := newTestEnv(nil)
	router := newTestRouter(env)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/applications/current", nil)
	req.Header.Set("X-Applicant-Id", "applicant-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status before any submission = %d, want 404", rec.Code)
	}

	body, contentType := multipartBody(t, map[string][]byte{"doc.pdf": []byte("content")})
	post := httptest.NewRequest(http.MethodPost, "/api/v1/applications/documents", body)
	post.Header.Set("Content-Type", contentType)
	post.Header.Set("X-Applicant-Id", "applicant-1")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, post)
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit status = %d, want 201", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/applications/current", nil)
	req.Header.Set("X-Applicant-Id", "applicant-1")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status after submission = %d, want 200", rec.Code)
	}

	var resp applicationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ApplicantID != "applicant-1" {
		t.Errorf("applicant id = %q, want applicant-1", resp.ApplicantID)
	}
	if resp.Status != "submitted" {
		t.Errorf("status = %q, want submitted", resp.Status)
	}
}

func assertErrorCode(t *testing.T, body []byte, want string) {
	t.Helper()
	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if resp.Error.Code != want {
		t.Errorf("error code = %q, want %q", resp.Error.Code, want)
	}
}
