// Package apperror defines the error taxonomy shared by the stores.
//
// Each failure class has a sentinel so callers can branch with errors.Is,
// and an AppError wrapper carrying the human-readable message (usually the
// backend's own words) for display on the screen that triggered the call.
package apperror

import (
	"errors"
	"fmt"
)

var (
	// ErrAuth is a non-success response from signup, login or password
	// reset. Never retried automatically; the screen shows the message.
	ErrAuth = errors.New("authentication failed")

	// ErrStorageUnavailable means the on-device persistence backend could
	// not be read or written. Stores degrade to in-memory state.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrNetwork is a transport-level failure, distinct from ErrAuth.
	// Retryable at the caller's discretion.
	ErrNetwork = errors.New("network failure")

	// ErrTimeout is a backend call exceeding its deadline.
	ErrTimeout = errors.New("request timed out")

	// ErrDeepLink is a malformed inbound URL: wrong scheme, unknown route
	// or missing token. Handled locally, never user-fatal.
	ErrDeepLink = errors.New("invalid deep link")

	// ErrForbidden means the acting role lacks permission for the write.
	ErrForbidden = errors.New("forbidden")
)

// AppError pairs a sentinel with a display message.
type AppError struct {
	Err     error  // sentinel, matched via errors.Is
	Message string // human-readable, safe to show on screen
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Auth returns an authentication failure carrying the server's message,
// or a generic fallback when the server sent none.
func Auth(message string) *AppError {
	if message == "" {
		message = "authentication failed"
	}
	return &AppError{Err: ErrAuth, Message: message}
}

// StorageUnavailable wraps a persistence backend failure for the given
// operation ("load session", "save flags", ...).
func StorageUnavailable(op string, cause error) *AppError {
	return &AppError{
		Err:     ErrStorageUnavailable,
		Message: fmt.Sprintf("storage unavailable while trying to %s: %v", op, cause),
	}
}

// Network wraps a transport failure.
func Network(cause error) *AppError {
	return &AppError{Err: ErrNetwork, Message: fmt.Sprintf("network failure: %v", cause)}
}

// Timeout wraps a deadline exceeded on a backend call.
func Timeout(cause error) *AppError {
	return &AppError{Err: ErrTimeout, Message: fmt.Sprintf("request timed out: %v", cause)}
}

// DeepLink returns a deep-link validation failure.
func DeepLink(message string) *AppError {
	return &AppError{Err: ErrDeepLink, Message: message}
}

// Forbidden returns a role-permission failure.
func Forbidden(message string) *AppError {
	return &AppError{Err: ErrForbidden, Message: message}
}
