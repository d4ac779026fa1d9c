package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vendor-backend/internal/shared/server/respond"
)

const applicantIDKey = "applicantId"

// Applicant resolves the applicant identity for the request. Session and auth
// management live in the surrounding platform; by the time a request reaches
// this service the applicant is carried in the X-Applicant-Id header.
func Applicant() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		applicantID := strings.TrimSpace(c.GetHeader("X-Applicant-Id"))
		if applicantID == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "applicant identity required", nil)
			return
		}

		c.Set(applicantIDKey, applicantID)
		c.Next()
	}
}

// ApplicantIDFromContext fetches the applicant ID stored by Applicant middleware.
func ApplicantIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(applicantIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
