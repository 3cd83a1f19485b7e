package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// APIError is an error with a stable code and the HTTP status it maps to.
// Internal is logged but never sent to the client.
type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

func (e *APIError) Error() string { return e.Message }

func (e *APIError) Unwrap() error { return e.Internal }

// wrap copies sentinel and attaches an internal cause.
func wrap(sentinel *APIError, internal error) *APIError {
	return &APIError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// withMessage copies sentinel with a client-facing message.
func withMessage(sentinel *APIError, message string) *APIError {
	return &APIError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

var (
	ErrInvalidInput        = &APIError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrEmptySelection      = &APIError{Code: "EMPTY_SELECTION", Message: "Select at least one app to share", StatusCode: http.StatusBadRequest}
	ErrUnsupportedCurrency = &APIError{Code: "UNSUPPORTED_CURRENCY", Message: "Currency is not supported", StatusCode: http.StatusBadRequest}
	ErrTemplateNotFound    = &APIError{Code: "TEMPLATE_NOT_FOUND", Message: "Template not found", StatusCode: http.StatusNotFound}
	ErrRateLimited         = &APIError{Code: "RATE_LIMITED", Message: "Too many requests", StatusCode: http.StatusTooManyRequests}
	ErrInternalServer      = &APIError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// respondWithError writes the {"error": {"code", "message"}} envelope.
// Errors that are not *APIError are logged and reported as INTERNAL_ERROR.
func respondWithError(c *gin.Context, log *zap.SugaredLogger, err error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Internal != nil {
			log.Errorw("api error",
				"code", apiErr.Code,
				"internal", apiErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.AbortWithStatusJSON(apiErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    apiErr.Code,
				"message": apiErr.Message,
			},
		})
		return
	}

	log.Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.AbortWithStatusJSON(ErrInternalServer.StatusCode, gin.H{
		"error": gin.H{
			"code":    ErrInternalServer.Code,
			"message": ErrInternalServer.Message,
		},
	})
}
