package services

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
	KindState
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindState:
		return "state"
	}
	return "unknown"
}

// FieldError describes one rejected input field.
type FieldError struct {
	Param string `json:"param"`
	Msg   string `json:"msg"`
}

// AppError is an expected business-rule failure. Anything else reaching the
// HTTP layer is treated as an internal error.
type AppError struct {
	Kind    ErrorKind
	Message string
	Fields  []FieldError
}

func (e *AppError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s (%d fields)", e.Kind, e.Message, len(e.Fields))
}

func ValidationError(message string, fields ...FieldError) *AppError {
	return &AppError{Kind: KindValidation, Message: message, Fields: fields}
}

func AuthenticationError(message string) *AppError {
	return &AppError{Kind: KindAuthentication, Message: message}
}

func AuthorizationError(message string) *AppError {
	return &AppError{Kind: KindAuthorization, Message: message}
}

func NotFoundError(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

func ConflictError(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

func StateError(message string) *AppError {
	return &AppError{Kind: KindState, Message: message}
}

// KindOf returns the kind of an AppError in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return 0
}

// fieldErrors collects per-field problems for one request.
type fieldErrors []FieldError

func (f *fieldErrors) add(param, msg string) {
	*f = append(*f, FieldError{Param: param, Msg: msg})
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return ValidationError("Validation failed", f...)
}
