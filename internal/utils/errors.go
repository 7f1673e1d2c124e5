package utils

import (
	"fmt"
	"net/http"
)

// AppError is an error that carries the HTTP status it should be reported with.
type AppError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewBadRequestError(message string) *AppError {
	return &AppError{StatusCode: http.StatusBadRequest, Message: message}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{StatusCode: http.StatusForbidden, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{StatusCode: http.StatusNotFound, Message: message}
}

func NewUnprocessableError(message string) *AppError {
	return &AppError{StatusCode: http.StatusUnprocessableEntity, Message: message}
}

func NewInternalError(message string) *AppError {
	return &AppError{StatusCode: http.StatusInternalServerError, Message: message}
}

// WrapInternalError keeps the cause for server-side logging only.
func WrapInternalError(message string, err error) *AppError {
	return &AppError{StatusCode: http.StatusInternalServerError, Message: message, Err: err}
}
