// Package voxerr defines the error taxonomy shared by the engine, the CLI,
// and the HTTP API. Every expected failure carries a Kind that maps to a
// process exit code and an HTTP status.
package voxerr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an expected failure.
type Kind int

const (
	// KindInternal covers everything that is not a user-visible category:
	// adapter crashes, filesystem write failures after synthesis, bugs.
	KindInternal Kind = iota

	// KindInvalidInput is a user or configuration error: empty text,
	// unsupported format, unknown profile, ambiguous model selection.
	KindInvalidInput

	// KindMissingDependency is an absent backend, executable, or model.
	KindMissingDependency

	// KindPolicyDenied is a refusal from the policy gate.
	KindPolicyDenied
)

// ExitCode returns the CLI process exit code for the kind.
func (k Kind) ExitCode() int {
	switch k {
	case KindInvalidInput:
		return 2
	case KindMissingDependency:
		return 3
	case KindPolicyDenied:
		return 4
	default:
		return 1
	}
}

// HTTPStatus returns the HTTP response status for the kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindInvalidInput, KindPolicyDenied:
		return http.StatusBadRequest
	case KindMissingDependency:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified failure. The message is safe to show to callers;
// the wrapped cause is kept for operator logs.
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

// InvalidInput builds an InvalidInput error.
func InvalidInput(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// MissingDependency builds a MissingDependency error. The message should be
// actionable: name what to install or add.
func MissingDependency(format string, args ...any) *Error {
	return &Error{Kind: KindMissingDependency, Message: fmt.Sprintf(format, args...)}
}

// PolicyDenied builds a PolicyDenied error carrying the gate's reason.
func PolicyDenied(reason string) *Error {
	return &Error{Kind: KindPolicyDenied, Message: reason}
}

// Internal wraps an unexpected cause with a caller-facing message.
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf extracts the Kind from an error chain. Unclassified errors report
// KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// ExitCode returns the exit code for an arbitrary error. nil maps to 0.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return KindOf(err).ExitCode()
}
