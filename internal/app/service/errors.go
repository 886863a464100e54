package service

import (
	"errors"
	"fmt"
)

var (
	// ErrStorageUnavailable wraps any persistence failure other than a missing row
	ErrStorageUnavailable = errors.New("storage unavailable")

	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("account is deactivated")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidRole        = errors.New("invalid role")
	ErrSelfChange         = errors.New("cannot change your own account")

	ErrTokenNotFound = errors.New("reset token not found")
	ErrTokenExpired  = errors.New("reset token has expired")
	ErrTokenInvalid  = errors.New("reset token does not match")

	ErrDocumentNotFound = errors.New("document not found")
	ErrNotOwner         = errors.New("document belongs to another employer")
	ErrInvalidFileType  = errors.New("file type not allowed")
)

func storageError(err error) error {
	return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
}
