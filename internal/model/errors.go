package model

import "errors"

// Domain errors. All are local and recoverable; callers check them with
// errors.Is and choose different input.
var (
	// ErrInvalidInput marks rejected user input (empty name, bad goal).
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks an operation on an unknown task id.
	ErrNotFound = errors.New("task not found")
	// ErrSessionTooShort marks a timer stop under one whole minute.
	ErrSessionTooShort = errors.New("session too short to log")
)
