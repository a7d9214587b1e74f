// Package apperr holds the error taxonomy shared by the booking and payment core.
// Handlers map a kind to an HTTP status with HTTPStatus; everything else just wraps.
package apperr

import (
	"errors"
	"net/http"
)

var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrAuth        = errors.New("authentication failed")
	ErrGateway     = errors.New("payment gateway error")
	ErrPersistence = errors.New("persistence error")
)

// Error is a classified error. Kind is one of the sentinels above.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return e.Msg + ": " + e.Err.Error()
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Kind.Error() + ": " + e.Err.Error()
	default:
		return e.Kind.Error()
	}
}

func (e *Error) Is(target error) bool { return target == e.Kind }

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) error { return &Error{Kind: ErrValidation, Msg: msg} }

func NotFound(msg string) error { return &Error{Kind: ErrNotFound, Msg: msg} }

func Conflict(msg string) error { return &Error{Kind: ErrConflict, Msg: msg} }

func Auth(msg string) error { return &Error{Kind: ErrAuth, Msg: msg} }

func Gateway(err error) error { return &Error{Kind: ErrGateway, Msg: "payment gateway request failed", Err: err} }

// Persistence marks err as a transient storage failure. Callers should retry.
func Persistence(msg string, err error) error {
	return &Error{Kind: ErrPersistence, Msg: msg, Err: err}
}

// HTTPStatus returns the response code for err. Unclassified errors are 500.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, ErrGateway):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the user facing part of err: the classified message when
// there is one, otherwise a generic text for the status.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Msg != "" {
		return e.Msg
	}
	return http.StatusText(HTTPStatus(err))
}
