package util

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind 错误类别，HTTP 边界处统一映射为状态码
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindNotFound
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindConflict
	KindGenerationFailure
	KindParseFailure
	KindServiceUnavailable
	KindTimeout
)

var kindNames = map[ErrorKind]string{
	KindInternal:           "Internal",
	KindNotFound:           "NotFound",
	KindBadRequest:         "BadRequest",
	KindUnauthorized:       "Unauthorized",
	KindForbidden:          "Forbidden",
	KindConflict:           "Conflict",
	KindGenerationFailure:  "GenerationFailure",
	KindParseFailure:       "ParseFailure",
	KindServiceUnavailable: "ServiceUnavailable",
	KindTimeout:            "Timeout",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Status returns the HTTP status code for the kind.
func (k ErrorKind) Status() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindGenerationFailure, KindParseFailure, KindServiceUnavailable:
		return http.StatusServiceUnavailable
	case KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// AppError carries a kind, a client-safe message and the underlying cause.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// Is matches sentinel kinds, so errors.Is(err, ErrNotFound) works for any
// NotFound error. ParseFailure and ServiceUnavailable also match
// ErrGeneration.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok || t.Message != "" || t.Err != nil {
		return false
	}
	if e.Kind == t.Kind {
		return true
	}
	return t.Kind == KindGenerationFailure &&
		(e.Kind == KindParseFailure || e.Kind == KindServiceUnavailable)
}

// Sentinels for errors.Is comparisons.
var (
	ErrNotFound           = &AppError{Kind: KindNotFound}
	ErrBadRequest         = &AppError{Kind: KindBadRequest}
	ErrUnauthorized       = &AppError{Kind: KindUnauthorized}
	ErrForbidden          = &AppError{Kind: KindForbidden}
	ErrConflict           = &AppError{Kind: KindConflict}
	ErrGeneration         = &AppError{Kind: KindGenerationFailure}
	ErrParse              = &AppError{Kind: KindParseFailure}
	ErrServiceUnavailable = &AppError{Kind: KindServiceUnavailable}
	ErrTimeout            = &AppError{Kind: KindTimeout}
)

func NewError(kind ErrorKind, err error, format string, args ...interface{}) *AppError {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func NotFoundError(format string, args ...interface{}) *AppError {
	return NewError(KindNotFound, nil, format, args...)
}

func BadRequestError(format string, args ...interface{}) *AppError {
	return NewError(KindBadRequest, nil, format, args...)
}

func ConflictError(format string, args ...interface{}) *AppError {
	return NewError(KindConflict, nil, format, args...)
}

func ForbiddenError(format string, args ...interface{}) *AppError {
	return NewError(KindForbidden, nil, format, args...)
}

func GenerationError(err error, format string, args ...interface{}) *AppError {
	return NewError(KindGenerationFailure, err, format, args...)
}

func ParseError(err error, format string, args ...interface{}) *AppError {
	return NewError(KindParseFailure, err, format, args...)
}

func ServiceUnavailableError(err error, format string, args ...interface{}) *AppError {
	return NewError(KindServiceUnavailable, err, format, args...)
}

func TimeoutError(err error, format string, args ...interface{}) *AppError {
	return NewError(KindTimeout, err, format, args...)
}

func UnauthorizedError(format string, args ...interface{}) *AppError {
	return NewError(KindUnauthorized, nil, format, args...)
}

func InternalError(err error, format string, args ...interface{}) *AppError {
	return NewError(KindInternal, err, format, args...)
}

// KindOf reports the kind of err, KindInternal for foreign errors.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

const serviceUnavailableMessage = "AI service temporarily unavailable. Please try again later."
