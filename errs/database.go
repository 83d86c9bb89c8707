package errs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rpupo63/portfolio-site/backend"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrDatabaseQuery      = errors.New("database query failed")
	ErrDatabaseConnection = errors.New("database connection failed")
	ErrStorageUpload      = errors.New("storage upload failed")
	ErrServiceUnavailable = errors.New("service unavailable")
)

// NewDatabaseError wraps a backend failure with the operation and entity it hit
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	details := fmt.Sprintf("Failed to %s %s", operation, entity)

	if cause != nil {
		errStr := cause.Error()
		switch {
		case errors.Is(cause, backend.ErrNotFound) || strings.Contains(errStr, "not found"):
			e := newErr(http.StatusNotFound, ErrNotFound, fmt.Sprintf("%s not found", entity))
			e.Details, e.Cause = details, cause
			return e
		case strings.Contains(errStr, "duplicate key"):
			e := newErr(http.StatusConflict, ErrAlreadyExists, fmt.Sprintf("%s already exists", entity))
			e.Details, e.Cause = details, cause
			return e
		case errors.Is(cause, context.DeadlineExceeded) || strings.Contains(errStr, "connection"):
			e := newErr(http.StatusServiceUnavailable, ErrDatabaseConnection, ErrDatabaseConnection.Error())
			e.Details, e.Cause = "Unable to reach the database", cause
			return e
		}
	}

	e := newErr(http.StatusInternalServerError, ErrDatabaseQuery, ErrDatabaseQuery.Error())
	e.Details, e.Cause = details, cause
	return e
}

// NewStorageError wraps an object upload failure
func NewStorageError(bucket, path string, cause error) *ApiErr {
	e := newErr(http.StatusBadGateway, ErrStorageUpload, ErrStorageUpload.Error())
	e.Details = fmt.Sprintf("Failed to upload %s to bucket %s", path, bucket)
	e.Cause = cause
	return e
}

// NewServiceUnavailableError wraps a failure of an upstream service such as auth
func NewServiceUnavailableError(service string, cause error) *ApiErr {
	e := newErr(http.StatusServiceUnavailable, ErrServiceUnavailable, ErrServiceUnavailable.Error())
	e.Details = fmt.Sprintf("%s is unavailable", service)
	e.Cause = cause
	return e
}

func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}
