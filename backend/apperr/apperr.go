// Package apperr defines the error kinds returned by the service layer. The
// HTTP layer translates them to status codes in one place instead of every
// handler deciding on its own.
package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type Kind int

const (
	Unauthenticated Kind = iota + 1 // missing/invalid/expired credential
	InvalidInput                    // missing field, out-of-range value, self-invite
	NotFound                        // missing course/enrollment/invitation
	EmailDelivery                   // SMTP auth/protocol/unexpected failure
	Store                           // backend unreachable or operation failure
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
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

// KindOf extracts the kind from err. Unclassified errors count as Store
// failures, which keeps unexpected backend errors out of 4xx territory.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Store
}

// HTTPStatus maps a kind to the status the route boundary should return.
func (k Kind) HTTPStatus() int {
	switch k {
	case Unauthenticated:
		return fiber.StatusUnauthorized
	case InvalidInput:
		return fiber.StatusBadRequest
	case NotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}
