package internal

import "net/http"

// ErrorKind is the closed set of failure categories handlers can emit.
type ErrorKind int

const (
	KindBadRequest ErrorKind = iota
	KindUnauthorized
	KindNotFound
	KindConflict
	KindValidation
	KindInternal
)

type AppError struct {
	Kind    ErrorKind `json:"-"`
	Message string    `json:"message"`
	Fields  []string  `json:"fields,omitempty"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Status maps the error kind to its HTTP status code.
func (e *AppError) Status() int {
	switch e.Kind {
	case KindBadRequest, KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func BadRequest(msg string) *AppError {
	return &AppError{Kind: KindBadRequest, Message: msg}
}

func Unauthorized(msg string) *AppError {
	return &AppError{Kind: KindUnauthorized, Message: msg}
}

func NotFound(msg string) *AppError {
	return &AppError{Kind: KindNotFound, Message: msg}
}

func Conflict(msg string) *AppError {
	return &AppError{Kind: KindConflict, Message: msg}
}

func Validation(fields []string) *AppError {
	return &AppError{Kind: KindValidation, Message: "Validation Error", Fields: fields}
}

func Internal(msg string) *AppError {
	if msg == "" {
		msg = "Internal Server Error"
	}
	return &AppError{Kind: KindInternal, Message: msg}
}
