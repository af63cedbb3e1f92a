// Package response maps domain errors onto the HTTP surface.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"voting-service/internal/models"
)

// Error writes the shared error payload.
func Error(c *gin.Context, status int, message, details string) {
	c.JSON(status, models.ErrorResponse{
		Code:    status,
		Message: message,
		Details: details,
	})
}

// statusOf maps a domain error to its HTTP status code.
func statusOf(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation),
		errors.Is(err, models.ErrInvalidOption),
		errors.Is(err, models.ErrOptionNotFound):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrAuthRequired):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrDuplicateVote),
		errors.Is(err, models.ErrSessionNotActive),
		errors.Is(err, models.ErrNotEligible),
		errors.Is(err, models.ErrCodeMismatch),
		errors.Is(err, models.ErrResultsNotReady),
		errors.Is(err, models.ErrSessionNotDraft):
		return http.StatusForbidden
	case errors.Is(err, models.ErrSessionNotFound),
		errors.Is(err, models.ErrReceiptNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// DomainError writes err with its mapped status. Internal errors never leak
// hash or signature material; callers log the details themselves.
func DomainError(c *gin.Context, err error) {
	status := statusOf(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	Error(c, status, message, "")
}
