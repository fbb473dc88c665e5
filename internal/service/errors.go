package service

import "errors"

// Service errors. The API layer maps these to HTTP status codes.
var (
	// ErrNotOwned indicates a resource is owned by a different user than the one making the request.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrInvalidCredentials covers both unknown emails and wrong passwords so
	// callers cannot probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
