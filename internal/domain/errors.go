package domain

import "errors"

// Sentinel errors used across layers. Specific causes wrap one of these
// with fmt.Errorf("...: %w", ...) so callers can match with errors.Is.
var (
	// ErrValidation marks malformed or missing command input. Never retried.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a missing order or item index. Never retried.
	ErrNotFound = errors.New("not found")
	// ErrNotReady marks a completion attempt while items are still unprepared.
	ErrNotReady = errors.New("order has unprepared items")
	// ErrTransientIO marks a network or upstream failure. Polls retry on the next tick.
	ErrTransientIO = errors.New("transient i/o failure")
)
