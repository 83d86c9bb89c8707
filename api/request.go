package api

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rpupo63/portfolio-site/admin"
	"github.com/rpupo63/portfolio-site/errs"
)

const (
	maxJSONBodyBytes = 64 << 10
	// multipart overhead on top of the image itself
	maxFormBodyBytes = admin.MaxUploadBytes + 1<<20
)

var projectContentTypes = []string{"application/json", "multipart/form-data"}

// errorStatus picks the status code and banner text shown for err
func errorStatus(err error) (int, string) {
	var apiErr *errs.ApiErr
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode, apiErr.Error()
	}
	return http.StatusInternalServerError, "Something went wrong. Please try again."
}

// fieldErrors returns the per-field messages carried by a validation error
func fieldErrors(err error) map[string]string {
	var apiErr *errs.ApiErr
	if errors.As(err, &apiErr) {
		return apiErr.Fields
	}
	return nil
}

// uuidParam reads a uuid URL parameter
func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return uuid.Nil, errs.NewBadRequestError("missing " + name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.NewBadRequestError("invalid " + name)
	}
	return id, nil
}

// decodeJSON reads a size-limited JSON body into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errs.NewMaxBodySizeExceededError(maxJSONBodyBytes)
		}
		return errs.NewMalformedPayloadError("json", err)
	}
	return nil
}

// parseProjectForm reads the project fields and optional image from a
// url-encoded or multipart form
func parseProjectForm(w http.ResponseWriter, r *http.Request) (admin.ProjectForm, *admin.Upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBodyBytes)

	var err error
	multipart := isMultipart(r)
	if multipart {
		err = r.ParseMultipartForm(admin.MaxUploadBytes)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return admin.ProjectForm{}, nil, errs.NewMaxBodySizeExceededError(maxFormBodyBytes)
		}
		return admin.ProjectForm{}, nil, errs.NewMalformedPayloadError("form", err)
	}

	form := admin.ProjectForm{
		Title:       r.PostFormValue("title"),
		Category:    r.PostFormValue("category"),
		Description: r.PostFormValue("description"),
	}
	if raw := strings.TrimSpace(r.PostFormValue("display_order")); raw != "" {
		order, err := strconv.Atoi(raw)
		if err != nil {
			return form, nil, errs.NewValidationError(map[string]string{"display_order": "must be a whole number"})
		}
		form.DisplayOrder = order
	}

	if !multipart {
		return form, nil, nil
	}
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return form, nil, nil
	}
	if err != nil {
		return form, nil, errs.NewMalformedPayloadError("image", err)
	}
	defer file.Close()

	body, err := io.ReadAll(io.LimitReader(file, admin.MaxUploadBytes+1))
	if err != nil {
		return form, nil, errs.NewMalformedPayloadError("image", err)
	}
	return form, &admin.Upload{Filename: header.Filename, Body: body}, nil
}

// decodeProjectRequest accepts a project as JSON or as a (multipart) form
func decodeProjectRequest(w http.ResponseWriter, r *http.Request) (admin.ProjectForm, *admin.Upload, error) {
	contentType := r.Header.Get("Content-Type")
	mediaType, _, _ := mime.ParseMediaType(contentType)

	switch mediaType {
	case "application/json":
		var form admin.ProjectForm
		if err := decodeJSON(w, r, &form); err != nil {
			return admin.ProjectForm{}, nil, err
		}
		return form, nil, nil
	case "multipart/form-data", "application/x-www-form-urlencoded":
		return parseProjectForm(w, r)
	default:
		return admin.ProjectForm{}, nil, errs.NewUnsupportedMediaTypeError(contentType, projectContentTypes)
	}
}

func isMultipart(r *http.Request) bool {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return mediaType == "multipart/form-data"
}
