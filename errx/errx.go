// Package errx carries the HTTP status and client message of a failed
// storefront operation alongside its cause.
package errx

import (
	"errors"
	"fmt"
	"net/http"
)

// InternalMessage is the only text a client sees for a 500.
const InternalMessage = "internal server error"

// AppError is returned by services and rendered by handlers as
// {"message": Message} with Status. Err stays server side.
type AppError struct {
	Err     error
	Status  int
	Message string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func New(err error, status int, message string) *AppError {
	return &AppError{Err: err, Status: status, Message: message}
}

func BadRequest(message string) *AppError   { return New(nil, http.StatusBadRequest, message) }
func Unauthorized(message string) *AppError { return New(nil, http.StatusUnauthorized, message) }
func NotFound(message string) *AppError     { return New(nil, http.StatusNotFound, message) }
func Conflict(message string) *AppError     { return New(nil, http.StatusConflict, message) }

// Internal hides err behind InternalMessage.
func Internal(err error) *AppError {
	return New(err, http.StatusInternalServerError, InternalMessage)
}

// As finds the AppError in err's chain, treating anything unclassified as a
// 500.
func As(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
