package utils

import (
	"errors"
	"net/http"
)

type AppError struct {
	Code    string
	Message string
	Origin  error // Original error that caused this error, if any
}

func (appErr *AppError) Error() string {
	if appErr.Origin != nil {
		return appErr.Message + ": " + appErr.Origin.Error()
	}
	return appErr.Message
}

func (appErr *AppError) Unwrap() error {
	return appErr.Origin
}

// Is matches any AppError with the same Code, so errors.Is(err, ErrNotFound) works for every not-found error
func (appErr *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == appErr.Code
}

const (
	CodeValidation      = "VALIDATION"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeForbidden       = "FORBIDDEN"
	CodeDatabase        = "DATABASE"
)

var (
	ErrValidation      = &AppError{Code: CodeValidation, Message: "invalid input"}
	ErrNotFound        = &AppError{Code: CodeNotFound, Message: "not found"}
	ErrConflict        = &AppError{Code: CodeConflict, Message: "already exists"}
	ErrUnauthenticated = &AppError{Code: CodeUnauthenticated, Message: "login required"}
	ErrForbidden       = &AppError{Code: CodeForbidden, Message: "access denied"}
	ErrDatabase        = &AppError{Code: CodeDatabase, Message: "database error"}
)

func NewValidationError(message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message}
}

func NewNotFoundError(what string) *AppError {
	return &AppError{Code: CodeNotFound, Message: what + " not found"}
}

func NewConflictError(message string) *AppError {
	return &AppError{Code: CodeConflict, Message: message}
}

func NewUnauthenticatedError() *AppError {
	return &AppError{Code: CodeUnauthenticated, Message: ErrUnauthenticated.Message}
}

func NewForbiddenError() *AppError {
	return &AppError{Code: CodeForbidden, Message: ErrForbidden.Message}
}

func NewDatabaseError(originalErr error) *AppError {
	return &AppError{Code: CodeDatabase, Message: ErrDatabase.Message, Origin: originalErr}
}

// ErrorCode returns the AppError code of err, or CodeDatabase for errors from outside the core
func ErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeDatabase
}

// AppErrorToHTTPStatus converts an AppError code to an HTTP status code.
func AppErrorToHTTPStatus(errorCode string) int {
	switch errorCode {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
