package shared

import (
	"errors"
	"net/http"
)

// AppError is an error that already knows how it should be rendered to a client.
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Data       interface{}
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(statusCode int, code string, err error, message string) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
		Err:        err,
	}
}

func NewBadRequestError(err error, message string) *AppError {
	return NewAppError(http.StatusBadRequest, "BAD_REQUEST", err, message)
}

func NewUnauthorizedError(err error, message string) *AppError {
	return NewAppError(http.StatusUnauthorized, "UNAUTHORIZED", err, message)
}

func NewForbiddenError(err error, message string) *AppError {
	return NewAppError(http.StatusForbidden, "FORBIDDEN", err, message)
}

func NewNotFoundError(err error, message string) *AppError {
	return NewAppError(http.StatusNotFound, "NOT_FOUND", err, message)
}

func NewConflictError(err error, message string) *AppError {
	return NewAppError(http.StatusConflict, "CONFLICT", err, message)
}

func NewTooManyRequestsError(err error, message string) *AppError {
	return NewAppError(http.StatusTooManyRequests, "TOO_MANY_REQUESTS", err, message)
}

func NewInternalError(err error, message string) *AppError {
	return NewAppError(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", err, message)
}

// GetAppError unwraps err looking for an *AppError.
func GetAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
