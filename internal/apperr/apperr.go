// Package apperr defines the error taxonomy shared by the request handlers.
// Handlers switch on Kind to decide between redirect-with-message, 400 and 500.
package apperr

import (
	"errors"
	"fmt"
)

type Kind uint8

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindAuthentication
	KindStorage
	KindBadRequest
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuthentication:
		return "authentication"
	case KindStorage:
		return "storage"
	case KindBadRequest:
		return "bad request"
	default:
		return "internal"
	}
}

// Reasons carried in Error.Err so callers can tell outcomes apart with errors.Is.
var (
	ErrUsernameTaken = errors.New("username already registered")
	ErrEmailTaken    = errors.New("email already registered")
	ErrUserNotFound  = errors.New("user not found")
	ErrWrongPassword = errors.New("wrong password")
)

// Error is a classified failure. Message is safe to show to the user.
type Error struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	var s string
	if e.Field != "" {
		s = fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
	} else {
		s = fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(field, message string, err error) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message, Err: err}
}

func Conflict(field, message string, err error) *Error {
	return &Error{Kind: KindConflict, Field: field, Message: message, Err: err}
}

func Authentication(message string, err error) *Error {
	return &Error{Kind: KindAuthentication, Message: message, Err: err}
}

// Storage wraps a persistence failure behind a generic message.
func Storage(err error) *Error {
	return &Error{Kind: KindStorage, Message: "Something went wrong. Please try again later.", Err: err}
}

func BadRequest(field, message string, err error) *Error {
	return &Error{Kind: KindBadRequest, Field: field, Message: message, Err: err}
}

// KindOf reports the Kind of err, or KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the user-facing message of err, falling back to a
// generic text for unclassified errors.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return "Something went wrong. Please try again later."
}
