package engine

import "errors"

// Failure kinds. Handlers map these to HTTP statuses; everything else is a
// generic internal failure.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrAlreadyLiked = errors.New("already liked")
)

// Error pairs a failure kind with the message returned to the caller.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func InvalidInput(msg string) error { return &Error{Kind: ErrInvalidInput, Message: msg} }

func NotFound(msg string) error { return &Error{Kind: ErrNotFound, Message: msg} }

func Forbidden(msg string) error { return &Error{Kind: ErrForbidden, Message: msg} }

func AlreadyLiked(msg string) error { return &Error{Kind: ErrAlreadyLiked, Message: msg} }

// Message returns the caller-facing text of an engine error, or fallback for
// anything else (store failures stay opaque).
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return fallback
}
