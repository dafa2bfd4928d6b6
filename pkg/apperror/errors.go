package apperror

import (
	"errors"
	"net/http"
)

// AppError is the error type crossing the usecase/HTTP boundary. The Code
// distinguishes the failure class so handlers can map it without string
// matching; Field carries the offending form field for validation errors.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Status  int    `json:"status"`
}

func (e *AppError) Error() string {
	return e.Message
}

const (
	CodeValidation = "VALIDATION_ERROR"
	CodeState      = "STATE_ERROR"
	CodeForbidden  = "FORBIDDEN"
	CodeNotFound   = "NOT_FOUND"
	CodeStorage    = "STORAGE_ERROR"
	CodeInternal   = "INTERNAL_ERROR"
)

func NewValidation(field, message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message, Field: field, Status: http.StatusBadRequest}
}

func NewState(message string) *AppError {
	return &AppError{Code: CodeState, Message: message, Status: http.StatusBadRequest}
}

func NewForbidden(message string) *AppError {
	return &AppError{Code: CodeForbidden, Message: message, Status: http.StatusForbidden}
}

func NewNotFound(message string) *AppError {
	return &AppError{Code: CodeNotFound, Message: message, Status: http.StatusNotFound}
}

func NewStorage(message string) *AppError {
	return &AppError{Code: CodeStorage, Message: message, Status: http.StatusBadRequest}
}

func NewUnauthorized(message string) *AppError {
	return &AppError{Code: "UNAUTHORIZED", Message: message, Status: http.StatusUnauthorized}
}

func NewInternal(message string) *AppError {
	return &AppError{Code: CodeInternal, Message: message, Status: http.StatusInternalServerError}
}

// MapError converts any error to an AppError, hiding internals behind a
// generic message when the error is not an AppError already.
func MapError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternal("An unexpected error occurred")
}

func Is(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

func IsValidation(err error) bool { return Is(err, CodeValidation) }
func IsState(err error) bool      { return Is(err, CodeState) }
func IsForbidden(err error) bool  { return Is(err, CodeForbidden) }
func IsNotFound(err error) bool   { return Is(err, CodeNotFound) }
