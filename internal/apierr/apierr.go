// Package apierr carries the error taxonomy shared by the store, the
// verdict protocol and the HTTP surface. Every error that crosses a
// component boundary is an *Error with a Kind; handlers map kinds to
// HTTP statuses in one place.
package apierr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation marks malformed or missing input. Never retried.
	KindValidation
	// KindNotFound marks an unknown case id, or a missing judgment where
	// one is required.
	KindNotFound
	// KindGenerationFailed marks a text-generation call that exhausted its
	// retry budget or never produced schema-conformant output.
	KindGenerationFailed
	// KindConcurrentModification marks a version or sequence collision in
	// the store. The caller should re-read state and retry the operation.
	KindConcurrentModification
	// KindStorage marks a durable-store I/O failure. Not retried internally.
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindGenerationFailed:
		return "generation_failed"
	case KindConcurrentModification:
		return "concurrent_modification"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg != "" && e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	if e.Msg != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf reports the Kind of err, or KindUnknown when err is not an *Error.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknown
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
