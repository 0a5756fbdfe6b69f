package domain

import "errors"

// ============================================================================
// Project Errors
// ============================================================================

var (
	ErrProjectNotFound       = errors.New("project not found")
	ErrCommentNotFound       = errors.New("comment not found")
	ErrMissingProjectFields  = errors.New("title, description, category and location are required")
	ErrMediaItemMissingSrc   = errors.New("media item has no source url")
	ErrInvalidMediaType      = errors.New("media item type must be IMAGE or VIDEO")
	ErrInvalidCompletionDate = errors.New("invalid completion date")
	ErrInvalidCommentFields  = errors.New("comment name and message are required")
	ErrInvalidCommentRating  = errors.New("comment rating must be between 1 and 5")
)

// ============================================================================
// Auth Errors
// ============================================================================

var (
	ErrMissingCredentials = errors.New("username and password are required")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrSessionMissing     = errors.New("no active session")
	ErrSessionExpired     = errors.New("session expired")
	ErrSessionInvalid     = errors.New("invalid session")
	ErrAdminNotFound      = errors.New("admin not found")
	ErrAdminExists        = errors.New("an admin account already exists")
	ErrAdminNameConflict  = errors.New("admin with this username already exists")
	ErrBootstrapDisabled  = errors.New("admin bootstrap password is not configured")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

// ============================================================================
// Upload Errors
// ============================================================================

var (
	ErrNoFiles             = errors.New("no files provided for upload")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file is too large")
	ErrAllUploadsFailed    = errors.New("all files failed to upload")
	ErrStorageUnavailable  = errors.New("media storage is not available")
)

// ============================================================================
// Infrastructure Errors
// ============================================================================

var (
	ErrDatabaseUnavailable = errors.New("database connection failed")
	ErrInvalidErrorReport  = errors.New("error report message is required")
)
