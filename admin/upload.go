package admin

import (
	"bytes"
	"context"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/rpupo63/portfolio-site/backend"
	"github.com/rpupo63/portfolio-site/errs"
)

// MaxUploadBytes bounds a single project image
const MaxUploadBytes = 5 << 20

// Upload is an image file picked in a project form
type Upload struct {
	Filename string
	Body     []byte
}

var allowedImageTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp", "image/bmp", "image/x-icon", "image/svg+xml", "image/avif"}

// uploadImage stores the file under a random name and returns its public URL
func uploadImage(ctx context.Context, storage backend.Storage, up Upload) (string, error) {
	if len(up.Body) == 0 {
		return "", errs.NewMissingRequiredFieldError("image")
	}
	if len(up.Body) > MaxUploadBytes {
		return "", errs.NewMaxBodySizeExceededError(MaxUploadBytes)
	}

	contentType, ok := imageContentType(up)
	if !ok {
		return "", errs.NewUnsupportedMediaTypeError(contentType, allowedImageTypes)
	}

	path := RandomFilename(up.Filename)
	if err := storage.UploadObject(ctx, backend.BucketProjectImages, path, contentType, up.Body); err != nil {
		return "", errs.NewStorageError(backend.BucketProjectImages, path, err)
	}
	return storage.PublicURL(backend.BucketProjectImages, path), nil
}

// imageContentType sniffs the upload. SVG and AVIF are not recognised by
// http.DetectContentType, so they are accepted when the extension and the
// leading bytes agree.
func imageContentType(up Upload) (string, bool) {
	contentType := http.DetectContentType(up.Body)
	if strings.HasPrefix(contentType, "image/") {
		return contentType, true
	}

	switch strings.ToLower(filepath.Ext(up.Filename)) {
	case ".svg":
		head := up.Body[:min(len(up.Body), 1024)]
		if bytes.Contains(bytes.ToLower(head), []byte("<svg")) {
			return "image/svg+xml", true
		}
	case ".avif":
		// ISO BMFF: box size, "ftyp", then the major brand
		if len(up.Body) >= 12 && string(up.Body[4:8]) == "ftyp" {
			brand := string(up.Body[8:12])
			if brand == "avif" || brand == "avis" {
				return "image/avif", true
			}
		}
	}
	return contentType, false
}

// RandomFilename keeps the lower-cased extension of original behind a random
// name, falling back to .bin
func RandomFilename(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	if ext == "" || ext == "." {
		ext = ".bin"
	}
	return uuid.NewString() + ext
}
