/*
Package errs provides custom error types and application-level error code constants.

These codes identify failures raised by this repository itself (the command line and the
development server). Errors reported by the remote Assassin server are not translated
into these codes; they travel as api.APIError with the server's own payload.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that command arguments or request parameters failed validation.
	ErrInvalidParams = 1001

	// ErrNotFound indicates that a requested static asset does not exist.
	ErrNotFound = 1002

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1007
)

// 3xxx: Session Errors
const (
	// ErrNotLoggedIn indicates that no saved session exists for the active profile.
	ErrNotLoggedIn = 3001

	// ErrSessionStoreFailed indicates that the saved session could not be read or written.
	ErrSessionStoreFailed = 3002
)

// 4xxx: Bundle and Deployment Errors
const (
	// ErrStorageNotConfigured indicates that S3 settings required by deploy are missing.
	ErrStorageNotConfigured = 4001

	// ErrBundleMissing indicates that the bundle directory does not exist or is empty.
	ErrBundleMissing = 4002

	// ErrUploadFailed indicates that at least one bundle file could not be uploaded.
	ErrUploadFailed = 4003
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified internal error.
	ErrUnknown = 5000
)
