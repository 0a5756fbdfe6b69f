package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-service/internal/core/domain"
)

func mapDomainError(c *gin.Context, err error) {
	var maxBytes *http.MaxBytesError

	switch {
	// Not found errors
	case errors.Is(err, domain.ErrProjectNotFound),
		errors.Is(err, domain.ErrCommentNotFound),
		errors.Is(err, domain.ErrAdminNotFound):
		c.JSON(http.StatusNotFound, errorBody(err))

	// Conflict errors
	case errors.Is(err, domain.ErrAdminExists),
		errors.Is(err, domain.ErrAdminNameConflict):
		c.JSON(http.StatusConflict, errorBody(err))

	// Auth errors
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrSessionMissing),
		errors.Is(err, domain.ErrSessionExpired),
		errors.Is(err, domain.ErrSessionInvalid):
		c.JSON(http.StatusUnauthorized, errorBody(err))

	// Bad request / validation errors
	case errors.Is(err, domain.ErrMissingProjectFields),
		errors.Is(err, domain.ErrMediaItemMissingSrc),
		errors.Is(err, domain.ErrInvalidMediaType),
		errors.Is(err, domain.ErrInvalidCompletionDate),
		errors.Is(err, domain.ErrInvalidCommentFields),
		errors.Is(err, domain.ErrInvalidCommentRating),
		errors.Is(err, domain.ErrMissingCredentials),
		errors.Is(err, domain.ErrBootstrapDisabled),
		errors.Is(err, domain.ErrWeakPassword),
		errors.Is(err, domain.ErrNoFiles),
		errors.Is(err, domain.ErrAllUploadsFailed),
		errors.Is(err, domain.ErrInvalidErrorReport):
		c.JSON(http.StatusBadRequest, errorBody(err))

	// Payload errors
	case errors.Is(err, domain.ErrFileTooLarge), errors.As(err, &maxBytes):
		c.JSON(http.StatusRequestEntityTooLarge, errorBody(domain.ErrFileTooLarge))
	case errors.Is(err, domain.ErrUnsupportedFileType):
		c.JSON(http.StatusUnsupportedMediaType, errorBody(err))

	// Service unavailable errors
	case errors.Is(err, domain.ErrDatabaseUnavailable),
		errors.Is(err, domain.ErrStorageUnavailable):
		c.JSON(http.StatusServiceUnavailable, errorBody(err))
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"success": false, "error": "database query timed out"})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
	}
}

func errorBody(err error) gin.H {
	return gin.H{"success": false, "error": err.Error()}
}
