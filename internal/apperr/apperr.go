// Package apperr defines the error taxonomy shared by services, repositories
// and HTTP handlers. Repositories translate storage errors into these so raw
// driver errors never reach a response.
package apperr

import (
	"errors"
	"net/http"
)

type Code string

const (
	CodeValidation      Code = "validation_error"
	CodeDuplicateReview Code = "duplicate_review"
	CodeNotFound        Code = "not_found"
	CodeForbidden       Code = "forbidden"
	CodeUnauthenticated Code = "unauthenticated"
	CodeInvalidCode     Code = "invalid_code"
	CodeAlreadyExists   Code = "already_exists"
	CodeInternal        Code = "internal_error"
)

type Error struct {
	Code    Code
	Msg     string
	Details any
}

func (e *Error) Error() string { return e.Msg }

func Validation(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Msg: msg, Details: details}
}

func DuplicateReview() *Error {
	return &Error{Code: CodeDuplicateReview, Msg: "only one review per title is allowed"}
}

func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Msg: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Code: CodeForbidden, Msg: msg}
}

func Unauthenticated(msg string) *Error {
	return &Error{Code: CodeUnauthenticated, Msg: msg}
}

func InvalidCode(msg string) *Error {
	return &Error{Code: CodeInvalidCode, Msg: msg}
}

func AlreadyExists(msg string) *Error {
	return &Error{Code: CodeAlreadyExists, Msg: msg}
}

// CodeOf returns the taxonomy code for err, or CodeInternal for anything
// that is not an *Error.
func CodeOf(err error) Code {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeInternal
}

func Is(err error, code Code) bool { return CodeOf(err) == code }

// HTTPStatus maps a taxonomy code onto its response status.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeValidation, CodeDuplicateReview, CodeInvalidCode, CodeAlreadyExists:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeForbidden:
		return http.StatusForbidden
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
