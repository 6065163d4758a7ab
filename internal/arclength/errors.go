package arclength

import (
	"errors"
	"fmt"
)

// Kind is a machine-readable failure category.
type Kind string

const (
	KindInvalidInput        Kind = "INVALID_INPUT"
	KindAmbiguousVariable   Kind = "AMBIGUOUS_VARIABLE"
	KindSymbolicComputation Kind = "SYMBOLIC_COMPUTATION"
	KindDivergentIntegral   Kind = "DIVERGENT_INTEGRAL"
	KindComputationTimeout  Kind = "COMPUTATION_TIMEOUT"
	KindSamplingUnavailable Kind = "SAMPLING_UNAVAILABLE"
)

// userPrefix opens every message shown to a client.
const userPrefix = "Error en el cálculo: "

// Error is a failed computation.
type Error struct {
	Kind      Kind
	Message   string   // human-readable, shown to the user
	Variables []string // offending names, for KindAmbiguousVariable
	Cause     error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// NewError builds an *Error of the given kind.
func NewError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError builds an *Error that keeps cause for errors.Is and errors.As.
func WrapError(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// KindOf extracts the failure kind, or "" for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries kind k.
func IsKind(err error, k Kind) bool { return KindOf(err) == k }

// UserMessage renders err for an end user.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return userPrefix + e.Message
	}
	return userPrefix + err.Error()
}
