package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is a parsed error: a stable code and a user-facing message
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError turns a storage or external error into a code and message
// without leaking driver details to the client.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "Internal server error"}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: ResourceNotFound, Message: notFoundMessage(context)}
	}

	errLower := strings.ToLower(err.Error())

	// postgres 23505 / sqlite UNIQUE
	if strings.Contains(errLower, "duplicate key") || strings.Contains(errLower, "unique constraint") {
		if strings.Contains(errLower, "email") {
			return ErrorInfo{Code: AuthEmailAlreadyExists, Message: "Email already exists"}
		}
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "Resource already exists"}
	}

	if strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "timeout") {
		return ErrorInfo{Code: InternalExternalAPI, Message: "A backing service is unreachable, please retry later"}
	}

	return ErrorInfo{Code: InternalServerError, Message: defaultMessage(context)}
}

func notFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "user"):
		return "User not found"
	case strings.Contains(contextLower, "document"):
		return "Document not found"
	case strings.Contains(contextLower, "token"):
		return "Reset token not found"
	}
	return "Requested resource not found"
}

func defaultMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create"):
		return "Failed to create resource, please retry later"
	case strings.Contains(contextLower, "update"):
		return "Failed to update resource, please retry later"
	case strings.Contains(contextLower, "delete"):
		return "Failed to delete resource, please retry later"
	}
	return "Internal server error, please retry later"
}

// ParseAndRespond parses err and writes it as an ErrorResponse
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	info := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   info.Code,
		Message: info.Message,
	})
}
