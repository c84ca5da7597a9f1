package http

import (
	"fmt"
	"net/http"
)

// Error codes shared by the engine and the HTTP boundary.
const (
	CodeInvalidParameter     = "ERR_INVALID_PARAMETER"
	CodeUnsupportedOperation = "ERR_UNSUPPORTED_OPERATION"
	CodeNotFound             = "ERR_NOT_FOUND"
	CodeMissingCredential    = "ERR_MISSING_CREDENTIAL"
	CodeUpstreamUnavailable  = "ERR_UPSTREAM_UNAVAILABLE"
	CodeUpstreamHTTP         = "ERR_UPSTREAM_HTTP"
	CodeUpstreamRejected     = "ERR_UPSTREAM_REJECTED"
	CodeUnexpectedPayload    = "ERR_UNEXPECTED_PAYLOAD"
	CodeNetwork              = "ERR_NETWORK"
	CodeTimeout              = "ERR_TIMEOUT"
	CodeInternal             = "ERR_INTERNAL"
)

// Sentinels for errors.Is. Matching is done on Code only.
var (
	ErrInvalidParameter     = &AppError{Code: CodeInvalidParameter}
	ErrUnsupportedOperation = &AppError{Code: CodeUnsupportedOperation}
	ErrNotFound             = &AppError{Code: CodeNotFound}
	ErrMissingCredential    = &AppError{Code: CodeMissingCredential}
	ErrUpstreamUnavailable  = &AppError{Code: CodeUpstreamUnavailable}
	ErrUpstreamHTTP         = &AppError{Code: CodeUpstreamHTTP}
	ErrUpstreamRejected     = &AppError{Code: CodeUpstreamRejected}
	ErrUnexpectedPayload    = &AppError{Code: CodeUnexpectedPayload}
	ErrNetwork              = &AppError{Code: CodeNetwork}
	ErrTimeout              = &AppError{Code: CodeTimeout}
)

// AppError represents application-level error with HTTP status.
type AppError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Field   string                 `json:"field,omitempty"`
	Params  map[string]interface{} `json:"params,omitempty"`
	Status  int                    `json:"-"`
	Err     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AppError with the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// NewAppError creates a new application error.
func NewAppError(code, field, message string, status int) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Field:   field,
		Status:  status,
		Params:  make(map[string]interface{}),
	}
}

// WithParams sets error params.
func (e *AppError) WithParams(params map[string]interface{}) *AppError {
	e.Params = params
	return e
}

// WithParam sets a single error param.
func (e *AppError) WithParam(key string, value interface{}) *AppError {
	if e.Params == nil {
		e.Params = make(map[string]interface{})
	}
	e.Params[key] = value
	return e
}

// WithError wraps an underlying error.
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// InvalidParameterError creates a 400 error for malformed or missing caller input.
func InvalidParameterError(field, message string) *AppError {
	return NewAppError(CodeInvalidParameter, field, message, http.StatusBadRequest)
}

// InvalidParameterErrorf creates a 400 error with formatting.
func InvalidParameterErrorf(field, format string, a ...interface{}) *AppError {
	return InvalidParameterError(field, fmt.Sprintf(format, a...))
}

// UnsupportedOperationErrorf creates a 400 error for unknown metrics or market/operation pairs.
func UnsupportedOperationErrorf(format string, a ...interface{}) *AppError {
	return NewAppError(CodeUnsupportedOperation, "", fmt.Sprintf(format, a...), http.StatusBadRequest)
}

// NotFoundError creates a 404 error.
func NotFoundError(message string) *AppError {
	return NewAppError(CodeNotFound, "", message, http.StatusNotFound)
}

// NotFoundErrorf creates a 404 error with formatting.
func NotFoundErrorf(format string, a ...interface{}) *AppError {
	return NotFoundError(fmt.Sprintf(format, a...))
}

// MissingCredentialError is an operator error, so it maps to 500.
func MissingCredentialError(name string) *AppError {
	return NewAppError(CodeMissingCredential, "", fmt.Sprintf("%s is not configured", name), http.StatusInternalServerError)
}

// UpstreamUnavailableError reports that every candidate host failed; last is the final failure.
func UpstreamUnavailableError(provider string, hosts int, last error) *AppError {
	return NewAppError(CodeUpstreamUnavailable, "",
		fmt.Sprintf("%s: all %d hosts failed", provider, hosts), http.StatusBadGateway).
		WithError(last)
}

// UpstreamHTTPError reports a non-success status returned by an upstream.
func UpstreamHTTPError(status int, payload string) *AppError {
	return NewAppError(CodeUpstreamHTTP, "",
		fmt.Sprintf("request failed with status %d", status), http.StatusBadGateway).
		WithParam("status", status).
		WithParam("payload", payload)
}

// UpstreamRejectedErrorf reports a failure signalled inside a provider envelope.
func UpstreamRejectedErrorf(format string, a ...interface{}) *AppError {
	return NewAppError(CodeUpstreamRejected, "", fmt.Sprintf(format, a...), http.StatusBadGateway)
}

// UnexpectedPayloadErrorf reports a body that could not be decoded into the expected shape.
func UnexpectedPayloadErrorf(format string, a ...interface{}) *AppError {
	return NewAppError(CodeUnexpectedPayload, "", fmt.Sprintf(format, a...), http.StatusBadGateway)
}

// NetworkError wraps a transport failure that is not a timeout.
func NetworkError(err error) *AppError {
	return NewAppError(CodeNetwork, "", "request failed", http.StatusBadGateway).WithError(err)
}

// TimeoutError reports that a call exceeded its deadline.
func TimeoutError(timeout fmt.Stringer) *AppError {
	return NewAppError(CodeTimeout, "", fmt.Sprintf("request timed out after %s", timeout), http.StatusGatewayTimeout)
}

// BadRequestError creates a 400 error.
func BadRequestError(message string) *AppError {
	return NewAppError("ERR_BAD_REQUEST", "", message, http.StatusBadRequest)
}

// BadRequestErrorf creates a 400 error with formatting.
func BadRequestErrorf(format string, a ...interface{}) *AppError {
	return BadRequestError(fmt.Sprintf(format, a...))
}

// InternalError creates a 500 error.
func InternalError(message string) *AppError {
	return NewAppError(CodeInternal, "", message, http.StatusInternalServerError)
}

// InternalErrorf creates a 500 error with formatting.
func InternalErrorf(format string, a ...interface{}) *AppError {
	return InternalError(fmt.Sprintf(format, a...))
}
