package memory

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/rpupo63/portfolio-site/backend"
)

// Object is a stored upload
type Object struct {
	ContentType string
	Body        []byte
}

// Storage is an in-memory backend.Storage
type Storage struct {
	mu      sync.Mutex
	baseURL string
	objects map[string]Object
	err     error
}

// NewStorage returns a store whose public URLs start with baseURL
func NewStorage(baseURL string) *Storage {
	return &Storage{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		objects: make(map[string]Object),
	}
}

// FailWith makes uploads return err; nil clears it
func (s *Storage) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *Storage) UploadObject(_ context.Context, bucket, path, contentType string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	key := bucket + "/" + path
	if _, exists := s.objects[key]; exists {
		return fmt.Errorf("memory: object %s already exists", key)
	}
	s.objects[key] = Object{ContentType: contentType, Body: append([]byte(nil), body...)}
	return nil
}

func (s *Storage) PublicURL(bucket, path string) string {
	return fmt.Sprintf("%s%s/%s/%s", s.baseURL, backend.PublicObjectPath, bucket, path)
}

// ServeHTTP serves stored objects read-only at /{bucket}/{path}, which is
// what PublicURL points at once the public object prefix is stripped
func (s *Storage) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	bucket, path, ok := strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")
	if !ok || bucket == "" || path == "" {
		http.NotFound(w, r)
		return
	}
	obj, found := s.Object(bucket, path)
	if !found {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", obj.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(obj.Body)))
	w.Header().Set("Cache-Control", "max-age=3600")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodGet {
		_, _ = w.Write(obj.Body)
	}
}

// Object returns a stored upload
func (s *Storage) Object(bucket, path string) (Object, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[bucket+"/"+path]
	return obj, ok
}

// Paths lists the stored object paths of a bucket
func (s *Storage) Paths(bucket string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var paths []string
	for key := range s.objects {
		if rest, ok := strings.CutPrefix(key, bucket+"/"); ok {
			paths = append(paths, rest)
		}
	}
	return paths
}
