package auth

import "errors"

var (
	// ErrNotAuthenticated is returned when no authenticated actor is present.
	// It is surfaced to callers as a distinct condition from permission denial.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrPermissionDenied is returned when an authenticated actor lacks the
	// required role or flag for an operation.
	ErrPermissionDenied = errors.New("permission denied")
)
