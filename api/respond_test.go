package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-site/backend"
	"github.com/rpupo63/portfolio-site/errs"
)

func TestWriteErrorApiErr(t *testing.T) {
	rec := httptest.NewRecorder()
	NewResponder(zerolog.Nop()).WriteError(rec, errs.NewDatabaseError("find", "project", backend.ErrNotFound))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	got := decode[ErrorResponse](t, rec)
	assert.Equal(t, "project not found", got.Error)
	assert.Equal(t, "error", got.Status)
	assert.Equal(t, "Failed to find project", got.Details)
	assert.Contains(t, got.Cause, "record not found")
}

func TestWriteErrorValidationFields(t *testing.T) {
	rec := httptest.NewRecorder()
	NewResponder(zerolog.Nop()).WriteError(rec, errs.NewValidationError(map[string]string{
		"title":    "cannot be blank",
		"category": "cannot be blank",
	}))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	got := decode[ErrorResponse](t, rec)
	assert.Equal(t, "category", got.Field)
	assert.Len(t, got.Fields, 2)
}

func TestWriteErrorHidesUnexpectedErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	NewResponder(zerolog.Nop()).WriteError(rec, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestLogInternalServerErrorsRecoversPanics(t *testing.T) {
	h := LogInternalServerErrors(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() { h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil)) })
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRenderUnknownPage(t *testing.T) {
	views, err := newRenderer()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	views.renderPage(rec, http.StatusOK, "missing.html", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
