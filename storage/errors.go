package storage

import "errors"

// Common storage errors.
var (
	// ErrNotFound is returned when an envelope is not in the archive.
	ErrNotFound = errors.New("envelope not found")

	// ErrEmptyID is returned when an envelope has no identifier to key it by.
	ErrEmptyID = errors.New("envelope id is empty")
)
