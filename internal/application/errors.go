package application

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so the transport can pick a status code.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindInvalidCredential
	KindForbidden
	KindUnauthenticated
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindInvalidCredential:
		return "invalid_credential"
	case KindForbidden:
		return "forbidden"
	case KindUnauthenticated:
		return "unauthenticated"
	default:
		return "internal"
	}
}

// Error is returned by every Service operation that fails.
// Message is safe to show to clients; Err holds the cause, if any.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches errors of the same kind and message, so sentinel values work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == e.Message
}

var (
	ErrUserExists         = &Error{Kind: KindConflict, Message: "User already exists"}
	ErrInvalidOTP         = &Error{Kind: KindInvalidCredential, Message: "Invalid OTP verification token, check your mail"}
	ErrLoginUserNotFound  = &Error{Kind: KindNotFound, Message: "User not found, invalid credentials!"}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredential, Message: "Invalid credentials"}
	ErrUserNotVerified    = &Error{Kind: KindForbidden, Message: "User is not verified"}
	ErrUserNotFound       = &Error{Kind: KindNotFound, Message: "User not found"}
	ErrNoToken            = &Error{Kind: KindUnauthenticated, Message: "Not authorized, no token"}
	ErrTokenInvalid       = &Error{Kind: KindUnauthenticated, Message: "Not authorized, Token is not valid"}
)

func errNotFoundEmail(email string) *Error {
	return &Error{Kind: KindNotFound, Message: "User not found with email " + email}
}

func internal(op string, err error) *Error {
	return &Error{Kind: KindInternal, Message: op, Err: err}
}

// Validation builds a KindValidation error with a client-facing message.
// Handlers use it for request bodies that fail binding.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// KindOf returns the Kind of err, or KindInternal for anything unclassified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the client-facing message. Internal failures never leak their cause.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "internal server error"
}
