package apperr

import "errors"

// Business Error Codes
const (
	CodeSuccess       = 0
	CodeBadRequest    = 400
	CodeUnauthorized  = 401
	CodeForbidden     = 403
	CodeNotFound      = 404
	CodeInternalError = 500
	CodeCacheError    = 1002
	CodeNetworkError  = 1003
	CodeParseError    = 1004
)

// Business Errors
var (
	ErrForumNotFound  = errors.New("forum not found")
	ErrThreadNotFound = errors.New("thread not found")
	ErrInvalidParams  = errors.New("invalid parameters")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
)

// AppError Application Error with code and message
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Unwrap exposes the cause to errors.Is / errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError Create new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// WrapError Wrap error with code
func WrapError(err error, code int) *AppError {
	if err == nil {
		return nil
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Err:     err,
	}
}

// NetworkError transport or HTTP status failure
func NetworkError(err error) error {
	return wrap(CodeNetworkError, "network error", err)
}

// ParseError malformed API response or timestamp
func ParseError(err error) error {
	return wrap(CodeParseError, "parse error", err)
}

// CacheError local store I/O or constraint failure
func CacheError(err error) error {
	return wrap(CodeCacheError, "cache error", err)
}

// NotFoundError missing row or record
func NotFoundError(err error) error {
	return wrap(CodeNotFound, "not found", err)
}

func wrap(code int, prefix string, err error) error {
	if err == nil {
		return nil
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return err
	}
	return &AppError{
		Code:    code,
		Message: prefix + ": " + err.Error(),
		Err:     err,
	}
}

// CodeOf returns the AppError code carried by err, or CodeInternalError.
func CodeOf(err error) int {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeInternalError
}

// Is reports whether err carries the given code.
func Is(err error, code int) bool {
	return err != nil && CodeOf(err) == code
}
