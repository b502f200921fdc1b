package models

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrValidation indicates malformed input that must not be persisted or aggregated.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized indicates a missing, expired or invalid session.
	ErrUnauthorized = errors.New("unauthorized")
)
