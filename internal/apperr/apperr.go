// Package apperr defines the error taxonomy shared by handlers. Operations
// return an *Error carrying a Kind; the transport boundary maps the kind to a
// status code exactly once, so no raw failure reaches a client.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for transport mapping.
type Kind int

const (
	// KindInternal is an unexpected store or media-host failure.
	KindInternal Kind = iota
	// KindValidation is missing or malformed input.
	KindValidation
	// KindAuthentication is a missing, invalid, or expired credential.
	KindAuthentication
	// KindAuthorization is an authenticated caller acting on a resource it
	// does not own.
	KindAuthorization
	// KindNotFound is an absent resource or related reference.
	KindNotFound
	// KindConflict is a write that would violate a uniqueness constraint.
	KindConflict
)

// Error is a classified failure with a client-safe message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation constructs a KindValidation error.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Authentication constructs a KindAuthentication error.
func Authentication(message string) *Error {
	return &Error{Kind: KindAuthentication, Message: message}
}

// Authorization constructs a KindAuthorization error.
func Authorization(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

// NotFound constructs a KindNotFound error.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict constructs a KindConflict error.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Internal wraps an unexpected failure with a client-safe message.
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf extracts the Kind from err, defaulting to KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
