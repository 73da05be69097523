package rpc

import (
	"errors"
	"net/http"

	"github.com/peerlaunch/launchpad_api/services/timeout"
	"github.com/peerlaunch/launchpad_api/shared"
)

const (
	CodeBadRequest      = "BAD_REQUEST"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeTimeout         = "TIMEOUT"
	CodeTooManyRequests = "TOO_MANY_REQUESTS"
	CodeInternal        = "INTERNAL_SERVER_ERROR"
)

// Error is the wire envelope for a failed call.
type Error struct {
	Code    string      `json:"code"`
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

func NewError(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// ToError maps any error returned from a procedure onto the envelope.
func ToError(err error) *Error {
	var rpcErr *Error
	if errors.As(err, &rpcErr) {
		return rpcErr
	}

	var te *timeout.Error
	if errors.As(err, &te) {
		return NewError(CodeTimeout, http.StatusRequestTimeout, te.Error())
	}

	if appErr, ok := shared.GetAppError(err); ok {
		code := appErr.Code
		if code == "" {
			code = CodeInternal
		}
		return &Error{Code: code, Status: appErr.StatusCode, Message: appErr.Message, Data: appErr.Data}
	}

	return NewError(CodeInternal, http.StatusInternalServerError, "Internal server error")
}
