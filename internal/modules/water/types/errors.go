package types

import (
	"errors"
	"net/http"
)

// ErrorCode names a failure class shared by the ingestion and report paths.
type ErrorCode string

const (
	CodeInvalidPayload    ErrorCode = "InvalidPayload"
	CodeMissingField      ErrorCode = "MissingField"
	CodeUnknownDevice     ErrorCode = "UnknownDevice"
	CodeMethodNotAllowed  ErrorCode = "MethodNotAllowed"
	CodeStoreError        ErrorCode = "StoreError"
	CodeMissingParameters ErrorCode = "MissingParameters"
	CodeNotFound          ErrorCode = "NotFound"
)

// Status is the HTTP status a code is reported with.
func (c ErrorCode) Status() int {
	switch c {
	case CodeInvalidPayload, CodeMissingField, CodeMissingParameters:
		return http.StatusBadRequest
	case CodeUnknownDevice, CodeNotFound:
		return http.StatusNotFound
	case CodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Code    ErrorCode
	Message string
	Hint    string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Code) + ": " + e.Message + ": " + e.Err.Error()
	}
	return string(e.Code) + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func NewError(code ErrorCode, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// CodeOf returns the code carried by err, or CodeStoreError for anything untyped.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeStoreError
}
