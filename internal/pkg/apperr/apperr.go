package apperr

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeUnauthorized    Code = "UNAUTHORIZED"
	CodeForbidden       Code = "FORBIDDEN"
	CodeNotFound        Code = "NOT_FOUND"
	CodeProfileNotFound Code = "PROFILE_NOT_FOUND"
	CodeValidation      Code = "VALIDATION_ERROR"
	CodeNotAvailable    Code = "NOT_AVAILABLE"
	CodeOwnership       Code = "OWNERSHIP"
	CodeStateConflict   Code = "STATE_CONFLICT"
	CodeBackend         Code = "BACKEND_ERROR"
	CodePartialFailure  Code = "PARTIAL_FAILURE"
)

// Metadata describes how a code is surfaced to HTTP callers.
type Metadata struct {
	HTTPStatus     int
	PublicMessage  string
	DetailsAllowed bool
	// Redirect is the navigation hint returned alongside authorization failures.
	Redirect string
}

var metadataByCode = map[Code]Metadata{
	CodeUnauthorized: {
		HTTPStatus:    http.StatusUnauthorized,
		PublicMessage: "authentication required",
		Redirect:      "/auth",
	},
	CodeForbidden: {
		HTTPStatus:    http.StatusForbidden,
		PublicMessage: "access denied",
		Redirect:      "/dashboard",
	},
	CodeNotFound: {
		HTTPStatus:    http.StatusNotFound,
		PublicMessage: "resource not found",
	},
	CodeProfileNotFound: {
		HTTPStatus:    http.StatusNotFound,
		PublicMessage: "user profile not found",
	},
	CodeValidation: {
		HTTPStatus:     http.StatusBadRequest,
		PublicMessage:  "validation failed",
		DetailsAllowed: true,
	},
	CodeNotAvailable: {
		HTTPStatus:    http.StatusConflict,
		PublicMessage: "resource is not available",
	},
	CodeOwnership: {
		HTTPStatus:    http.StatusForbidden,
		PublicMessage: "resource does not belong to the caller",
	},
	CodeStateConflict: {
		HTTPStatus:     http.StatusUnprocessableEntity,
		PublicMessage:  "state transition disallowed",
		DetailsAllowed: true,
	},
	CodeBackend: {
		HTTPStatus:    http.StatusInternalServerError,
		PublicMessage: "storage operation failed",
	},
	CodePartialFailure: {
		HTTPStatus:     http.StatusMultiStatus,
		PublicMessage:  "some items failed",
		DetailsAllowed: true,
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeBackend]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

// Backend wraps a storage failure.
func Backend(err error, message string) *Error {
	return Wrap(CodeBackend, err, message)
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeBackend
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

// WithDetails returns a copy carrying details, so package-level sentinels stay untouched.
func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	cp := *e
	cp.details = details
	return &cp
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is matches errors sharing code and message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.code == t.code && e.message == t.message
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// CodeOf returns the code of err, or CodeBackend for untyped errors.
func CodeOf(err error) Code {
	if typed := As(err); typed != nil {
		return typed.Code()
	}
	return CodeBackend
}
