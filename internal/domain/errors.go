package domain

import "errors"

// Error classes. Concrete errors wrap one of these so callers can map them
// with errors.Is.
var (
	// ErrConfiguration: required configuration is missing. Not retryable
	// without operator intervention.
	ErrConfiguration = errors.New("configuration error")
	// ErrConnection: the store could not be reached within the timeout.
	ErrConnection = errors.New("connection error")
	// ErrValidation: the caller sent unusable input.
	ErrValidation = errors.New("validation error")
	// ErrStorage: the store rejected or failed an operation.
	ErrStorage = errors.New("storage error")
)
