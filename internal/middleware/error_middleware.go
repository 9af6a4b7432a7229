package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/logger"
)

// ErrorPage is the template rendered for every error status
const ErrorPage = "error.html"

// HandleError renders the error page matching err
func HandleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound):
		renderError(c, http.StatusNotFound, "The requested page could not be found.")
	case errors.Is(err, apperrors.ErrBadRequest), errors.Is(err, apperrors.ErrValidationFailed):
		renderError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrServiceUnavailable):
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Backing service unavailable")
		renderError(c, http.StatusServiceUnavailable, "The service is temporarily unavailable. Please try again shortly.")
	default:
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Unhandled error while serving request")
		renderError(c, http.StatusInternalServerError, "Something went wrong on our side. Please try again.")
	}
}

// NotFound renders the 404 page for unknown routes
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		renderError(c, http.StatusNotFound, "The requested page could not be found.")
	}
}

// Recovery renders the 500 page when a handler panics
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error().
			Interface("panic", recovered).
			Str("path", c.Request.URL.Path).
			Msg("Recovered from panic")
		renderError(c, http.StatusInternalServerError, "Something went wrong on our side. Please try again.")
		c.Abort()
	})
}

func renderError(c *gin.Context, status int, message string) {
	Render(c, status, ErrorPage, gin.H{
		"Title":   http.StatusText(status),
		"Status":  status,
		"Message": message,
	})
}
