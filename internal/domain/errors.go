package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidStudyMode is returned when a study mode is not one of the
	// recognized recall directions.
	ErrInvalidStudyMode = errors.New("invalid study mode")

	// ErrInvalidQuality is returned when a review quality score is outside
	// the 0-5 scale.
	ErrInvalidQuality = errors.New("quality must be between 0 and 5")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)
