package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrEmptyNotes is returned when the notes of a generation request are blank.
	ErrEmptyNotes = errors.New("notes cannot be empty")

	// ErrEmptyQuestion is returned when a flashcard has no question text.
	ErrEmptyQuestion = errors.New("flashcard question cannot be empty")

	// ErrEmptyAnswer is returned when a flashcard has no answer text.
	ErrEmptyAnswer = errors.New("flashcard answer cannot be empty")

	// ErrInvalidStyle is returned for a style outside balanced, exam and simple.
	ErrInvalidStyle = errors.New("invalid generation style")

	// ErrInvalidMode is returned for a mode outside auto, questions and short_notes.
	ErrInvalidMode = errors.New("invalid generation mode")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError wrapping err.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Field + " " + e.Message
}

// Unwrap returns the wrapped sentinel so errors.Is works.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
