// Package clinerr defines the error taxonomy shared by all domain services.
// Every rejection a service produces is one of four kinds, each carrying a
// human-readable reason that handlers return to the client verbatim.
package clinerr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a domain error.
type Kind int

const (
	// KindNotFound means a referenced entity does not exist.
	KindNotFound Kind = iota + 1
	// KindValidation means the input itself is malformed or out of range.
	KindValidation
	// KindPolicyViolation means the input is well-formed but a business rule
	// forbids the operation.
	KindPolicyViolation
	// KindConflict means the operation collides with existing state, such as
	// a double booking.
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindPolicyViolation:
		return "policy_violation"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Error is a classified domain error. All four kinds are recoverable: the
// caller fixes the input or picks another time and retries.
type Error struct {
	Kind   Kind
	Reason string
}

func (e *Error) Error() string {
	return e.Reason
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Reason: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Reason: fmt.Sprintf(format, args...)}
}

func PolicyViolation(format string, args ...any) *Error {
	return &Error{Kind: KindPolicyViolation, Reason: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Reason: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err, or 0 when err is not a classified error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind reports whether err is a classified error of the given kind.
func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}

// HTTPStatus maps a classified error to its HTTP status code. Unclassified
// errors map to 500.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindPolicyViolation:
		return http.StatusUnprocessableEntity
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
