package internal

import (
	"errors"
	"fmt"
)

// AuthError represents a failure reported by the identity provider.
// Code carries the provider error code (e.g. "EMAIL_NOT_FOUND").
type AuthError struct {
	Code string
	Err  error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error [%s]: %v", e.Code, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// FriendlyMessage maps the enumerated provider codes to user-facing
// strings, with a generic fallback for everything else.
func (e *AuthError) FriendlyMessage() string {
	switch e.Code {
	case "INVALID_EMAIL":
		return "The email address is not valid."
	case "EMAIL_NOT_FOUND":
		return "No account was found for this email."
	case "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS":
		return "The password is incorrect."
	case "TOO_MANY_ATTEMPTS_TRY_LATER":
		return "Too many failed attempts. Please try again later."
	case "EMAIL_EXISTS":
		return "This email address is already registered."
	case "WEAK_PASSWORD":
		return "The password is too weak. It must be at least 6 characters."
	default:
		return "Sign-in failed. Please try again."
	}
}

// PersistError represents a failed write to the remote document store.
// These are logged and dropped, never surfaced and never retried.
type PersistError struct {
	Path string
	Op   string // "create", "merge", "add"
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// QueryError represents a failed read from the remote document store.
// MissingIndex distinguishes the FAILED_PRECONDITION case, which is
// surfaced with an actionable message instead of a generic one.
type QueryError struct {
	Path         string
	MissingIndex bool
	Err          error
}

func (e *QueryError) Error() string {
	if e.MissingIndex {
		return fmt.Sprintf("query error: %s: missing composite index: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("query error: %s: %v", e.Path, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// APIStatusError represents a non-2xx response from the completion API.
type APIStatusError struct {
	StatusCode int
	Body       string
}

func (e *APIStatusError) Error() string {
	return fmt.Sprintf("completion API returned status %d", e.StatusCode)
}

// ErrInvalidReply is returned when the completion API answers 2xx but the
// payload is missing the expected reply text path. Surfaced as a distinct
// alert from APIStatusError.
var ErrInvalidReply = errors.New("completion API response missing reply text")

// ErrNotAuthenticated is returned by the session gate when a command that
// requires a signed-in user runs without one.
var ErrNotAuthenticated = errors.New("not signed in: run 'chatgpt2 login' first")

// ErrConversationNotFound is returned when a conversation ID is absent
// from the store.
var ErrConversationNotFound = errors.New("conversation not found")
