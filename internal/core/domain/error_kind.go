package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a failure that is reported as a Result.
type ErrorKind int

// Error kinds.
const (
	KindTransport ErrorKind = iota
	KindInvalidCredentials
	KindValidation
	KindProtocol
	KindUnknownOperation
	KindInvalidMethod
	KindTokenIssue
	KindRegionSelect
)

// StatusUnknownOperation is returned for an action absent from every table.
const StatusUnknownOperation = http.StatusTeapot

// Status returns the HTTP status synthesized for the kind.
func (k ErrorKind) Status() int {
	switch k {
	case KindInvalidCredentials:
		return http.StatusForbidden
	case KindUnknownOperation:
		return StatusUnknownOperation
	case KindInvalidMethod:
		return http.StatusMethodNotAllowed
	case KindTokenIssue:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// String returns the string representation.
func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindValidation:
		return "validation"
	case KindProtocol:
		return "protocol"
	case KindUnknownOperation:
		return "unknown_operation"
	case KindInvalidMethod:
		return "invalid_method"
	case KindTokenIssue:
		return "token_issue"
	case KindRegionSelect:
		return "region_select"
	default:
		return "unknown"
	}
}

// Error is a tagged failure that converts into a Result envelope.
type Error struct {
	Kind    ErrorKind
	Message string
	// Status overrides the kind's default status when non-zero.
	Status  int
	Headers map[string]string
}

// NewError builds an Error of the given kind.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Error implements error.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// StatusCode returns the HTTP status reported for the error.
func (e *Error) StatusCode() int {
	if e.Status != 0 {
		return e.Status
	}
	return e.Kind.Status()
}

// WithHeaders attaches response headers to the error.
func (e *Error) WithHeaders(h map[string]string) *Error {
	e.Headers = h
	return e
}

// Result converts the error into the standard envelope.
func (e *Error) Result() Result {
	return ErrorEnvelope(e.StatusCode(), e.Message, e.Headers)
}

// ErrorEnvelope synthesizes {"errors":[{"message":...}],"resources":[]}.
func ErrorEnvelope(status int, message string, headers map[string]string) Result {
	if headers == nil {
		headers = map[string]string{}
	}
	return Result{
		StatusCode: status,
		Headers:    headers,
		Body: map[string]any{
			"errors":    []any{map[string]any{"message": message}},
			"resources": []any{},
		},
	}
}

// ErrorResult converts any error into a Result. Errors that are not an
// *Error are reported as transport failures.
func ErrorResult(err error) Result {
	var e *Error
	if errors.As(err, &e) {
		return e.Result()
	}
	return ErrorEnvelope(http.StatusInternalServerError, err.Error(), nil)
}

// ErrorResponse converts any error into a Response.
func ErrorResponse(err error) *Response {
	return NewResponse(ErrorResult(err))
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
