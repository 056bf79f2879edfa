package domain

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindBadRequest
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "NOT_FOUND"
	case KindBadRequest:
		return "BAD_REQUEST"
	default:
		return "UNKNOWN"
	}
}

// Error is the error type returned by the task service. Kind decides the
// HTTP status the boundary maps it to.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewNotFoundError(id string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("Task with ID %q not found", id),
	}
}

func NewBadRequestError(action string, err error) *Error {
	message := action

	if err != nil {
		message = fmt.Sprintf("%s: %s", action, err.Error())
	}

	return &Error{
		Kind:    KindBadRequest,
		Message: message,
		Err:     err,
	}
}

func IsNotFound(err error) bool {
	return hasKind(err, KindNotFound)
}

func IsBadRequest(err error) bool {
	return hasKind(err, KindBadRequest)
}

func hasKind(err error, kind ErrorKind) bool {
	var domainErr *Error

	if errors.As(err, &domainErr) {
		return domainErr.Kind == kind
	}

	return false
}
