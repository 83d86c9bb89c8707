// Package backend defines the contract between the site and its hosted
// database, object storage and auth service. Components receive these
// interfaces through their constructors; nothing in the site reaches a
// backend through package state.
package backend

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	TableProjects        = "projects"
	TableContactMessages = "contact_messages"

	BucketProjectImages = "project-images"

	// PublicObjectPath prefixes the download URL of an object in a public bucket
	PublicObjectPath = "/storage/v1/object/public"
)

var (
	// ErrNotFound is returned when a row or object addressed by id does not exist
	ErrNotFound = errors.New("record not found")
	// ErrNoSession is returned by Auth.GetSession when the token is missing, expired or invalid
	ErrNoSession = errors.New("no active session")
	// ErrInvalidCredentials is returned by Auth.SignIn for a rejected email/password pair
	ErrInvalidCredentials = errors.New("invalid login credentials")
)

// Filter restricts a select to rows whose Column equals Value
type Filter struct {
	Column string
	Value  any
}

// Eq builds an equality filter
func Eq(column string, value any) Filter {
	return Filter{Column: column, Value: value}
}

// Order sorts a select by one column
type Order struct {
	Column    string
	Ascending bool
}

// Query describes a select. Zero values mean all columns, no filter,
// backend order and no limit.
type Query struct {
	Columns []string
	Filters []Filter
	Order   *Order
	Limit   int
}

// Client reads and writes table rows. dest and record are pointers to
// models (or slices of models) living in the addressed table.
type Client interface {
	Select(ctx context.Context, table string, q Query, dest any) error
	Count(ctx context.Context, table string) (int64, error)
	// Insert writes record and fills backend-assigned fields (id, timestamps) back into it
	Insert(ctx context.Context, table string, record any) error
	// Update applies patch (column -> value) to the row with the given id
	Update(ctx context.Context, table string, id uuid.UUID, patch map[string]any) error
	Delete(ctx context.Context, table string, id uuid.UUID) error
}

// Storage uploads objects into public buckets
type Storage interface {
	UploadObject(ctx context.Context, bucket, path, contentType string, body []byte) error
	PublicURL(bucket, path string) string
}

// Session is an authenticated admin session
type Session struct {
	AccessToken string
	UserID      string
	Email       string
	ExpiresAt   time.Time
}

// Auth manages admin sessions
type Auth interface {
	GetSession(ctx context.Context, accessToken string) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, accessToken string) error
}
