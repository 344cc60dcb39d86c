package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"runtime"
)

// AppError represents an application-specific error
type AppError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
	Status    int    `json:"-"`
	Cause     error  `json:"-"`
	File      string `json:"file,omitempty"`
	Line      int    `json:"line,omitempty"`
	Operation string `json:"operation,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new application error
func NewAppError(code, message string, cause error) *AppError {
	_, file, line, _ := runtime.Caller(2)
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
		File:    file,
		Line:    line,
	}
}

// WithOperation adds operation context to the error
func (e *AppError) WithOperation(operation string) *AppError {
	e.Operation = operation
	return e
}

// WithDetails adds additional details to the error
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// WithStatus overrides the HTTP status derived from the code
func (e *AppError) WithStatus(status int) *AppError {
	e.Status = status
	return e
}

// Error codes
const (
	ErrCodeMissingField       = "MISSING_FIELD"
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeDuplicateEmail     = "DUPLICATE_EMAIL"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeTokenMissing       = "TOKEN_MISSING"
	ErrCodeTokenExpired       = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid       = "TOKEN_INVALID"
	ErrCodeUpstreamError      = "UPSTREAM_ERROR"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeNotFound           = "NOT_FOUND"
)

var codeStatus = map[string]int{
	ErrCodeMissingField:       http.StatusBadRequest,
	ErrCodeInvalidInput:       http.StatusBadRequest,
	ErrCodeDuplicateEmail:     http.StatusBadRequest,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeTokenMissing:       http.StatusUnauthorized,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,
	ErrCodeUpstreamError:      http.StatusBadGateway,
	ErrCodeInternalError:      http.StatusInternalServerError,
	ErrCodeNotFound:           http.StatusNotFound,
}

// HTTPStatus returns the HTTP status for err. Errors that are not an
// AppError are treated as internal errors.
func HTTPStatus(err error) int {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	if appErr.Status != 0 {
		return appErr.Status
	}
	if status, ok := codeStatus[appErr.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// As extracts an AppError from err
func As(err error) (*AppError, bool) {
	var appErr *AppError
	ok := stderrors.As(err, &appErr)
	return appErr, ok
}

// HasCode reports whether err is an AppError with the given code
func HasCode(err error, code string) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}

// Common error constructors
func MissingField(message string) *AppError {
	return NewAppError(ErrCodeMissingField, message, nil)
}

func InvalidInput(message string, cause error) *AppError {
	return NewAppError(ErrCodeInvalidInput, message, cause)
}

func DuplicateEmail(message string, cause error) *AppError {
	return NewAppError(ErrCodeDuplicateEmail, message, cause)
}

func InvalidCredentials(message string) *AppError {
	return NewAppError(ErrCodeInvalidCredentials, message, nil)
}

func TokenMissing(message string) *AppError {
	return NewAppError(ErrCodeTokenMissing, message, nil)
}

func TokenExpired(message string, cause error) *AppError {
	return NewAppError(ErrCodeTokenExpired, message, cause)
}

func TokenInvalid(message string, cause error) *AppError {
	return NewAppError(ErrCodeTokenInvalid, message, cause)
}

// UpstreamError carries the status code returned by the upstream provider
func UpstreamError(message string, status int, cause error) *AppError {
	return NewAppError(ErrCodeUpstreamError, message, cause).WithStatus(status)
}

func InternalError(message string, cause error) *AppError {
	return NewAppError(ErrCodeInternalError, message, cause)
}

func NotFound(message string, cause error) *AppError {
	return NewAppError(ErrCodeNotFound, message, cause)
}
