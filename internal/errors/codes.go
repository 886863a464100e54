package errors

// Error codes returned in the "error" field of every error response.
// Format: CATEGORY_SPECIFIC_DETAIL. Clients map these to their own messages.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // no or unreadable session
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong email/password
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // session expired
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // session malformed
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"
	AuthAccountInactive    = "AUTH_ACCOUNT_INACTIVE"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"      // role not allowed
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND" // guard ran without a session
	AuthzOwnerOnly    = "AUTHZ_OWNER_ONLY"     // not the resource owner
	AuthzSelfChange   = "AUTHZ_SELF_CHANGE"    // may not change own role/status

	// ==================== Reset tokens (TOKEN_) ====================
	TokenNotFound = "TOKEN_NOT_FOUND"
	TokenExpired  = "TOKEN_EXPIRED"
	TokenInvalid  = "TOKEN_INVALID"

	// ==================== Rate limiting ====================
	RateLimited = "RATE_LIMITED"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationInvalidRole  = "VALIDATION_INVALID_ROLE"
	ValidationRequired     = "VALIDATION_REQUIRED"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"

	// ==================== Uploads (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalStorageError  = "INTERNAL_STORAGE_UNAVAILABLE"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
)
