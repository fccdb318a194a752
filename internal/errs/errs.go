// Package errs defines the error kinds shared across spellgraph's components.
//
// Every fallible operation in store, spell, detect, and the ingesters returns
// either a value or an *Error carrying one of these kinds, a numeric code, and
// a formatted message, per the error handling design: lower layers never
// swallow errors, and a NotFound on a single lookup inside a multi-key
// operation is converted to an empty result by the caller rather than
// propagated as an error.
package errs

import "fmt"

// Kind identifies the category of a spellgraph error.
type Kind int

const (
	Internal Kind = iota
	InvalidArgument
	NotFound
	AlreadyExists
	EncodingError
	DeserializationError
	StorageError
	AlreadyOpen
	ReadOnly
	Io
)

var kindNames = [...]string{
	Internal:              "internal",
	InvalidArgument:       "invalid_argument",
	NotFound:              "not_found",
	AlreadyExists:         "already_exists",
	EncodingError:         "encoding_error",
	DeserializationError:  "deserialization_error",
	StorageError:          "storage_error",
	AlreadyOpen:           "already_open",
	ReadOnly:              "read_only",
	Io:                    "io",
}

// String returns the snake_case name of the kind.
func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// HTTPStatus maps a Kind to the HTTP status code the service reports it as.
func (k Kind) HTTPStatus() int {
	switch k {
	case InvalidArgument, EncodingError:
		return 400
	case NotFound:
		return 404
	case AlreadyExists, AlreadyOpen:
		return 409
	case ReadOnly:
		return 403
	default:
		return 500
	}
}

// Error is the concrete error type returned by spellgraph's fallible
// operations. It carries a Kind, a caller-assigned numeric Code, a
// formatted Message, and an optional wrapped Cause.
type Error struct {
	Kind    Kind
	Code    int
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an *Error with no wrapped cause.
func New(kind Kind, code int, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error carrying cause, following the same format/args
// convention as New.
func Wrap(kind Kind, code int, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// KindOf returns the Kind of err if it is (or wraps) a *Error, else Internal.
func KindOf(err error) Kind {
	var e *Error
	if as(err, &e) {
		return e.Kind
	}
	return Internal
}

func as(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
