package verification

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"vendor-backend/internal/applications"
	"vendor-backend/internal/shared/server/middleware"
	"vendor-backend/internal/shared/server/respond"
)

const maxUploadSize = 25 << 20 // whole multipart batch

// Handler wires HTTP handlers to the verification service.
type Handler struct {
	Svc  *Service
	Apps applications.Repo
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, apps applications.Repo) *Handler {
	return &Handler{Svc: svc, Apps: apps}
}

// RegisterRoutes attaches verification routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/applications/documents", h.submit)
	rg.GET("/applications/current", h.current)
}

func (h *Handler) submit(c *gin.Context) {
	applicantID := middleware.ApplicantIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	form, err := c.MultipartForm()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid multipart body", nil)
		return
	}

	fileHeaders := form.File["files"]
	files := make([]UploadFile, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "unable to read file", nil)
			return
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "unable to read file", nil)
			return
		}
		files = append(files, UploadFile{
			Name:     fh.Filename,
			MimeType: fh.Header.Get("Content-Type"),
			Data:     data,
		})
	}

	result, err := h.Svc.Submit(c.Request.Context(), applicantID, files)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoFilesProvided):
			respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "at least one file is required", nil)
		case errors.Is(err, ErrDuplicateDocument):
			respond.Error(c, http.StatusConflict, ErrorCodeDuplicate, "duplicate document detected", nil)
		case errors.Is(err, ErrStorageUnavailable):
			respond.Error(c, http.StatusServiceUnavailable, ErrorCodeStorage, "document storage is unavailable", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "verification failed", nil)
		}
		return
	}

	c.Set("applicationId", result.Application.ID)
	c.Set("fraudSeverity", string(result.Fraud.Severity))

	respond.JSON(c, http.StatusCreated, toSubmitResponse(result))
}

func (h *Handler) current(c *gin.Context) {
	applicantID := middleware.ApplicantIDFromContext(c)

	app, err := h.Apps.GetByApplicant(c.Request.Context(), applicantID)
	if err != nil {
		if errors.Is(err, applications.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "no application for applicant", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "failed to load application", nil)
		return
	}

	respond.OK(c, toApplicationResponse(app))
}
