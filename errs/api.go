package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Common error sentinel values
var (
	ErrForbidden    = errors.New("operation not allowed")
	ErrBadRequest   = errors.New("malformed request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal server error")
	ErrNotFound     = errors.New("not found")
	ErrCORSBlocked  = errors.New("request blocked by CORS policy")
)

type ApiErr struct {
	StatusCode int
	err        error
	Details    string            // Additional details about the error
	Field      string            // Field that caused the error (for validation errors)
	Fields     map[string]string // Per-field messages when a whole form fails validation
	Cause      error             // The underlying cause of the error
}

// kindErr carries a display message while matching a sentinel with errors.Is
type kindErr struct {
	msg  string
	kind error
}

func (k kindErr) Error() string { return k.msg }
func (k kindErr) Unwrap() error { return k.kind }

func newErr(statusCode int, kind error, message string) *ApiErr {
	return &ApiErr{StatusCode: statusCode, err: kindErr{msg: message, kind: kind}}
}

func NewApiErr(statusCode int, message string) *ApiErr {
	return &ApiErr{StatusCode: statusCode, err: errors.New(message)}
}

func (e *ApiErr) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.err.Error(), e.Details)
	}
	return e.err.Error()
}

// Message is the error text without details
func (e *ApiErr) Message() string {
	return e.err.Error()
}

// GetFullError returns a recursive error message including all causes
func (e *ApiErr) GetFullError() string {
	msg := e.Error()
	if e.Cause == nil {
		return msg
	}
	var inner *ApiErr
	if errors.As(e.Cause, &inner) {
		return fmt.Sprintf("%s -> %s", msg, inner.GetFullError())
	}
	return fmt.Sprintf("%s -> %s", msg, e.Cause.Error())
}

// Unwrap exposes both the sentinel kind and the cause to errors.Is / errors.As
func (e *ApiErr) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.err}
	}
	return []error{e.err, e.Cause}
}

func NewNotFoundError(message string) *ApiErr {
	return newErr(http.StatusNotFound, ErrNotFound, message)
}

func NewForbiddenError(message string) *ApiErr {
	return newErr(http.StatusForbidden, ErrForbidden, message)
}

func NewBadRequestError(message string) *ApiErr {
	return newErr(http.StatusBadRequest, ErrBadRequest, message)
}

func NewUnauthorizedError(message string) *ApiErr {
	return newErr(http.StatusUnauthorized, ErrUnauthorized, message)
}

func NewInternalErrorWithCause(message string, cause error) *ApiErr {
	e := newErr(http.StatusInternalServerError, ErrInternal, message)
	e.Cause = cause
	return e
}

func NewCORSError(origin string) *ApiErr {
	e := newErr(http.StatusForbidden, ErrCORSBlocked, ErrCORSBlocked.Error())
	e.Details = fmt.Sprintf("Origin '%s' is not allowed by CORS policy", origin)
	return e
}

func IsBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest)
}

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// StatusCode returns the HTTP status carried by err, or 500 for plain errors
func StatusCode(err error) int {
	var apiErr *ApiErr
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return http.StatusInternalServerError
}
