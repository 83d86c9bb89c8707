package memory

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-site/backend"
	"github.com/rpupo63/portfolio-site/models"
)

func TestSelectFiltersOrdersAndLimits(t *testing.T) {
	c := New()
	c.SeedProjects(
		models.Project{Title: "two", Category: "A", DisplayOrder: 2},
		models.Project{Title: "one", Category: "B", DisplayOrder: 1},
		models.Project{Title: "three", Category: "A", DisplayOrder: 3},
	)
	ctx := context.Background()

	var all []models.Project
	require.NoError(t, c.Select(ctx, backend.TableProjects, backend.Query{
		Order: &backend.Order{Column: "display_order", Ascending: true},
	}, &all))
	require.Len(t, all, 3)
	assert.Equal(t, []string{"one", "two", "three"}, titles(all))

	var onlyA []models.Project
	require.NoError(t, c.Select(ctx, backend.TableProjects, backend.Query{
		Filters: []backend.Filter{backend.Eq("category", "A")},
		Order:   &backend.Order{Column: "display_order", Ascending: true},
		Limit:   1,
	}, &onlyA))
	assert.Equal(t, []string{"two"}, titles(onlyA))

	var desc []models.Project
	require.NoError(t, c.Select(ctx, backend.TableProjects, backend.Query{
		Order: &backend.Order{Column: "display_order"},
	}, &desc))
	assert.Equal(t, []string{"three", "two", "one"}, titles(desc))
}

func TestSelectUnknownColumn(t *testing.T) {
	c := New()
	c.SeedProjects(models.Project{Title: "x", Category: "A"})

	var out []models.Project
	err := c.Select(context.Background(), backend.TableProjects, backend.Query{
		Filters: []backend.Filter{backend.Eq("colour", "red")},
	}, &out)
	assert.Error(t, err)
}

func TestInsertAssignsIDAndTimestamps(t *testing.T) {
	c := New()
	p := models.Project{Title: "Leather tote", Category: "Leather"}
	require.NoError(t, c.Insert(context.Background(), backend.TableProjects, &p))

	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.False(t, p.CreatedAt.IsZero())
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)

	n, err := c.Count(context.Background(), backend.TableProjects)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestInsertKeepsClientCreatedAt(t *testing.T) {
	c := New()
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	m := models.ContactMessage{Name: "Ana", Email: "ana@example.com", Message: "hi", CreatedAt: at}
	require.NoError(t, c.Insert(context.Background(), backend.TableContactMessages, &m))
	assert.Equal(t, at, m.CreatedAt)
}

func TestUpdateAndDelete(t *testing.T) {
	c := New()
	p := models.Project{Title: "old", Category: "A"}
	require.NoError(t, c.Insert(context.Background(), backend.TableProjects, &p))

	at := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, c.Update(context.Background(), backend.TableProjects, p.ID, map[string]any{
		"title":      "new",
		"updated_at": at,
	}))

	var rows []models.Project
	require.NoError(t, c.Select(context.Background(), backend.TableProjects, backend.Query{
		Filters: []backend.Filter{backend.Eq("id", p.ID)},
	}, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "new", rows[0].Title)
	assert.Equal(t, at, rows[0].UpdatedAt)

	require.NoError(t, c.Delete(context.Background(), backend.TableProjects, p.ID))
	assert.ErrorIs(t, c.Delete(context.Background(), backend.TableProjects, p.ID), backend.ErrNotFound)
	assert.ErrorIs(t, c.Update(context.Background(), backend.TableProjects, p.ID, nil), backend.ErrNotFound)
}

func TestFailWithAndCalls(t *testing.T) {
	c := New()
	boom := errors.New("boom")
	c.FailWith(OpSelect, boom)

	var out []models.Project
	assert.ErrorIs(t, c.Select(context.Background(), backend.TableProjects, backend.Query{}, &out), boom)

	c.FailWith(OpSelect, nil)
	assert.NoError(t, c.Select(context.Background(), backend.TableProjects, backend.Query{}, &out))
	assert.Equal(t, 2, c.Calls(OpSelect))
}

func TestStorageUploadAndPublicURL(t *testing.T) {
	s := NewStorage("https://abc.supabase.co/")
	require.NoError(t, s.UploadObject(context.Background(), backend.BucketProjectImages, "a.png", "image/png", []byte("png")))

	obj, ok := s.Object(backend.BucketProjectImages, "a.png")
	require.True(t, ok)
	assert.Equal(t, "image/png", obj.ContentType)
	assert.Equal(t, "https://abc.supabase.co/storage/v1/object/public/project-images/a.png",
		s.PublicURL(backend.BucketProjectImages, "a.png"))
	assert.Error(t, s.UploadObject(context.Background(), backend.BucketProjectImages, "a.png", "image/png", nil))
}

func TestStorageServesObjects(t *testing.T) {
	s := NewStorage("")
	require.NoError(t, s.UploadObject(context.Background(), backend.BucketProjectImages, "a.png", "image/png", []byte("png")))

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/project-images/a.png", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "png", rec.Body.String())

	tests := map[string]struct {
		method, path string
		want         int
	}{
		"missing object":   {http.MethodGet, "/project-images/b.png", http.StatusNotFound},
		"bucket only":      {http.MethodGet, "/project-images", http.StatusNotFound},
		"other bucket":     {http.MethodGet, "/avatars/a.png", http.StatusNotFound},
		"write rejected":   {http.MethodPut, "/project-images/a.png", http.StatusMethodNotAllowed},
		"head has no body": {http.MethodHead, "/project-images/a.png", http.StatusOK},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, rec.Code)
			if tt.method == http.MethodHead {
				assert.Empty(t, rec.Body.String())
			}
		})
	}
}

func TestAuthSessionLifecycle(t *testing.T) {
	a := NewAuth("admin@example.com", "s3cret")
	ctx := context.Background()

	_, err := a.SignIn(ctx, "admin@example.com", "wrong")
	assert.ErrorIs(t, err, backend.ErrInvalidCredentials)

	s, err := a.SignIn(ctx, "ADMIN@example.com", "s3cret")
	require.NoError(t, err)

	got, err := a.GetSession(ctx, s.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", got.Email)

	require.NoError(t, a.SignOut(ctx, s.AccessToken))
	_, err = a.GetSession(ctx, s.AccessToken)
	assert.ErrorIs(t, err, backend.ErrNoSession)
}

func TestAuthSessionExpires(t *testing.T) {
	a := NewAuth("admin@example.com", "pw")
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return now }

	s, err := a.SignIn(context.Background(), "admin@example.com", "pw")
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = a.GetSession(context.Background(), s.AccessToken)
	assert.ErrorIs(t, err, backend.ErrNoSession)
}

func titles(ps []models.Project) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Title
	}
	return out
}
