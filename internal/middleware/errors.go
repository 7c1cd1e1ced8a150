package middleware

import (
	"net/http"

	custom_error "github.com/SarprasYP/sispras/pkg/errors"
	"github.com/gin-gonic/gin"
)

// StatusFor maps an error kind to the HTTP status returned to clients.
func StatusFor(kind custom_error.Kind) int {
	switch kind {
	case custom_error.KindValidation, custom_error.KindInvalidArgument:
		return http.StatusBadRequest
	case custom_error.KindNotFound:
		return http.StatusNotFound
	case custom_error.KindDuplicate, custom_error.KindConflict:
		return http.StatusConflict
	case custom_error.KindInsufficientStock:
		return http.StatusUnprocessableEntity
	case custom_error.KindTransient:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// AbortWithError writes the JSON error body for err and records err on the
// gin context for the request logger.
func AbortWithError(c *gin.Context, err error) {
	_ = c.Error(err)

	tagged, ok := custom_error.As(err)
	if !ok || tagged.Kind == custom_error.KindInternal {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	body := gin.H{
		"error": tagged.Message,
		"kind":  tagged.Kind.String(),
	}
	switch tagged.Kind {
	case custom_error.KindValidation:
		body["errors"] = tagged.Fields
	case custom_error.KindInsufficientStock:
		body["available"] = tagged.Available
	case custom_error.KindTransient:
		body["retryable"] = true
	case custom_error.KindDuplicate:
		body["retryable"] = true
	}

	c.AbortWithStatusJSON(StatusFor(tagged.Kind), body)
}
