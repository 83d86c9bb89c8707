package errs

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var Unauthorized = NewUnauthorizedError("unauthorized")

// Request & Input-Validation Errors
var (
	ErrMalformedPayload     = errors.New("malformed payload")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrValidation           = errors.New("validation failed")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrMaxBodySizeExceeded  = errors.New("max body size exceeded")
	ErrNotConfirmed         = errors.New("confirmation required")
)

func NewMalformedPayloadError(payloadType string, cause error) *ApiErr {
	e := newErr(http.StatusBadRequest, ErrMalformedPayload, "malformed payload")
	e.Details = fmt.Sprintf("Malformed %s payload", payloadType)
	e.Field = "payload"
	e.Cause = cause
	return e
}

func NewMissingRequiredFieldError(fieldName string) *ApiErr {
	e := newErr(http.StatusBadRequest, ErrMissingRequiredField, "missing required field")
	e.Details = fmt.Sprintf("Missing required field: %s", fieldName)
	e.Field = fieldName
	return e
}

// NewValidationError reports every failing field of a form at once.
// Field is set to the first failing field in name order.
func NewValidationError(fields map[string]string) *ApiErr {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, fields[name]))
	}

	e := newErr(http.StatusBadRequest, ErrValidation, "validation failed")
	e.Details = strings.Join(parts, "; ")
	e.Fields = fields
	if len(names) > 0 {
		e.Field = names[0]
	}
	return e
}

func NewUnsupportedMediaTypeError(contentType string, allowedTypes []string) *ApiErr {
	e := newErr(http.StatusUnsupportedMediaType, ErrUnsupportedMediaType, "unsupported media type")
	e.Details = fmt.Sprintf("Unsupported media type: %s. Allowed types: %v", contentType, allowedTypes)
	e.Field = "content_type"
	return e
}

func NewMaxBodySizeExceededError(maxSize int64) *ApiErr {
	e := newErr(http.StatusRequestEntityTooLarge, ErrMaxBodySizeExceeded, "max body size exceeded")
	e.Details = fmt.Sprintf("Request body size exceeded maximum allowed size of %d bytes", maxSize)
	e.Field = "body_size"
	return e
}

func NewNotConfirmedError(action string) *ApiErr {
	e := newErr(http.StatusBadRequest, ErrNotConfirmed, "confirmation required")
	e.Details = fmt.Sprintf("Confirm before you %s", action)
	e.Field = "confirm"
	return e
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrMissingRequiredField)
}

func IsNotConfirmedError(err error) bool {
	return errors.Is(err, ErrNotConfirmed)
}
