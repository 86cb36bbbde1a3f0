package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/duynhne/franchise-service/internal/core/domain"
)

// sanitizeValidationError returns a user-friendly message for validation/binding errors.
// Never expose raw gin/go validation errors to clients (security + UX).
func sanitizeValidationError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	// Raw validation errors expose internal structure - return generic message
	if strings.Contains(msg, "validation") ||
		strings.Contains(msg, "Field validation") ||
		strings.Contains(msg, "cannot unmarshal") ||
		strings.Contains(msg, "bind") ||
		strings.Contains(msg, "Key:") {
		return "Invalid request"
	}
	// Short, safe messages (e.g. "invalid email") can pass through
	if len(msg) < 100 && !strings.Contains(msg, "Error:") {
		return msg
	}
	return "Invalid request"
}

// statusFor maps domain errors to HTTP status codes and client messages.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "Authentication required"
	case errors.Is(err, domain.ErrInvalidUser):
		return http.StatusBadRequest, "Invalid user identity"
	case errors.Is(err, domain.ErrInvalidFranchise):
		return http.StatusBadRequest, "Franchise id is required"
	case errors.Is(err, domain.ErrUnknownCollection):
		return http.StatusNotFound, "Unknown preference collection"
	case errors.Is(err, domain.ErrUnknownActionType):
		return http.StatusBadRequest, "Unknown pending action type"
	case errors.Is(err, domain.ErrCompareFull):
		return http.StatusConflict, "Compare list is full"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func writeError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	c.JSON(status, gin.H{"error": msg})
}
