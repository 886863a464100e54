package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jobnest/jobnest-backend/internal/app/service"
	apperrors "github.com/jobnest/jobnest-backend/internal/errors"
	"github.com/jobnest/jobnest-backend/internal/middleware"
)

// respondServiceError maps a service error to its HTTP response.
// Every reset-token failure kind gets its own status.
func respondServiceError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, service.ErrStorageUnavailable):
		middleware.GetLoggerFromContext(c).Error("Storage unavailable", err, map[string]interface{}{
			"context": context,
		})
		apperrors.StorageUnavailable(c)
	case errors.Is(err, service.ErrTokenNotFound):
		apperrors.NotFound(c, apperrors.TokenNotFound, "Reset token not found")
	case errors.Is(err, service.ErrTokenExpired):
		apperrors.Gone(c, apperrors.TokenExpired, "Reset token has expired, request a new one")
	case errors.Is(err, service.ErrTokenInvalid):
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.TokenInvalid, "Reset token is not valid")
	case errors.Is(err, service.ErrInvalidCredentials):
		apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Invalid email or password")
	case errors.Is(err, service.ErrAccountInactive):
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthAccountInactive, "Account is deactivated")
	case errors.Is(err, service.ErrEmailAlreadyExists):
		apperrors.Conflict(c, apperrors.AuthEmailAlreadyExists, "Email already in use")
	case errors.Is(err, service.ErrUserNotFound):
		apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
	case errors.Is(err, service.ErrInvalidRole):
		apperrors.BadRequest(c, apperrors.ValidationInvalidRole, "Invalid role")
	case errors.Is(err, service.ErrSelfChange):
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzSelfChange, "You cannot change your own account")
	case errors.Is(err, service.ErrDocumentNotFound):
		apperrors.NotFound(c, apperrors.ResourceNotFound, "Document not found")
	case errors.Is(err, service.ErrNotOwner):
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "Only the owner can modify this document")
	case errors.Is(err, service.ErrInvalidFileType):
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "File type not allowed")
	default:
		middleware.GetLoggerFromContext(c).Error("Request failed", err, map[string]interface{}{
			"context": context,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
		c.Abort()
	}
}

// parseIDParam reads a positive numeric path parameter, answering 400 otherwise
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// currentUserID returns the authenticated identity; Authenticate guarantees presence
func currentUserID(c *gin.Context) (uint, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return 0, false
	}
	return userID, true
}
