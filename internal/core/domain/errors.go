package domain

import "errors"

// Sentinel errors for session and preference operations.
var (
	// ErrUnauthenticated indicates the operation needs a signed-in user.
	// HTTP Status: 401 Unauthorized
	ErrUnauthenticated = errors.New("authentication required")

	// ErrInvalidUser indicates a sign-in identity without id or valid email.
	// HTTP Status: 400 Bad Request
	ErrInvalidUser = errors.New("invalid user identity")

	// ErrInvalidFranchise indicates a franchise snapshot without an id.
	// HTTP Status: 400 Bad Request
	ErrInvalidFranchise = errors.New("franchise id is required")

	// ErrUnknownCollection indicates an unsupported preference collection.
	// HTTP Status: 404 Not Found
	ErrUnknownCollection = errors.New("unknown preference collection")

	// ErrUnknownActionType indicates an unsupported pending action type.
	// HTTP Status: 400 Bad Request
	ErrUnknownActionType = errors.New("unknown pending action type")

	// ErrCompareFull indicates the compare list already holds the maximum
	// number of franchises.
	// HTTP Status: 409 Conflict
	ErrCompareFull = errors.New("compare list is full")
)
