package errors

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// RespondWithError writes an error response and aborts the handler chain
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Insufficient permissions"
	}
	RespondWithError(c, http.StatusForbidden, AuthzForbidden, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

func Gone(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusGone, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error, please retry later"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

// StorageUnavailable reports a failed store round-trip
func StorageUnavailable(c *gin.Context) {
	RespondWithError(c, http.StatusInternalServerError, InternalStorageError, "Storage is temporarily unavailable")
}

// TooManyRequests writes a 429 with a Retry-After hint in whole seconds (at least 1)
func TooManyRequests(c *gin.Context, retryAfter time.Duration) {
	seconds := int((retryAfter + time.Second - 1) / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	c.Header("Retry-After", strconv.Itoa(seconds))
	RespondWithError(c, http.StatusTooManyRequests, RateLimited, "Too many requests")
}

// ValidationError carries per-field validation messages
type ValidationError struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func RespondWithValidationError(c *gin.Context, fields map[string]string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ValidationError{
		Error:   ValidationInvalidInput,
		Message: "Invalid input",
		Fields:  fields,
	})
}
