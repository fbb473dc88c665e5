package genclient

import (
	"errors"
	"net/http"
)

// User-facing messages.
const (
	MessageLoginAgain     = "Please log in again."
	MessageFailedGenerate = "Failed to generate"
)

var (
	// ErrMissingToken is returned when Generate is called without a session token.
	ErrMissingToken = errors.New("missing session token")

	// ErrUnauthorized matches a GenerationError caused by a 401 response.
	ErrUnauthorized = errors.New("generation endpoint rejected credentials")
)

// GenerationError is a failed generation call. Message is the endpoint's own
// error text when it sent one, otherwise MessageFailedGenerate.
type GenerationError struct {
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	return e.Message
}

// Unwrap returns the transport error, if any.
func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Is reports 401 responses as ErrUnauthorized.
func (e *GenerationError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}
