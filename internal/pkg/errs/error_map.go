/*
Package errs provides custom error types and application-level error code constants.

This file maps every error code to its CustomError template.
*/
package errs

import "net/http"

// errorMap stores the CustomError template for every application error code.
// Messages containing a verb are formatted with the details passed to NewError.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:     {Code: ErrInvalidParams, Message: "Invalid parameters: %s", Status: http.StatusBadRequest},
	ErrNotFound:          {Code: ErrNotFound, Message: "Not found.", Status: http.StatusNotFound},
	ErrRateLimitExceeded: {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 3xxx: Session Errors
	ErrNotLoggedIn:        {Code: ErrNotLoggedIn, Message: "Not logged in. Run `assassin login` first."},
	ErrSessionStoreFailed: {Code: ErrSessionStoreFailed, Message: "Saved session is unavailable: %v"},

	// 4xxx: Bundle and Deployment Errors
	ErrStorageNotConfigured: {Code: ErrStorageNotConfigured, Message: "Deploy requires %s to be set."},
	ErrBundleMissing:        {Code: ErrBundleMissing, Message: "Bundle directory %q is missing or empty."},
	ErrUploadFailed:         {Code: ErrUploadFailed, Message: "Failed to upload %s."},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
