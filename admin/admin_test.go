package admin

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-site/backend"
	"github.com/rpupo63/portfolio-site/backend/memory"
	"github.com/rpupo63/portfolio-site/errs"
	"github.com/rpupo63/portfolio-site/models"
)

// smallest valid PNG header is enough for content sniffing
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

var editTime = time.Date(2025, 7, 4, 12, 0, 0, 0, time.UTC)

func newProjects(client *memory.Client, storage *memory.Storage) *Projects {
	return NewProjects(client, storage, WithClock(func() time.Time { return editTime }))
}

func TestCreateProject(t *testing.T) {
	client, storage := memory.New(), memory.NewStorage("https://abc.supabase.co")
	p := newProjects(client, storage)

	created, err := p.Create(context.Background(), ProjectForm{
		Title:        " Walnut tray ",
		Category:     "Laser",
		Description:  "Engraved",
		DisplayOrder: 3,
	}, &Upload{Filename: "Tray.PNG", Body: pngBytes})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "Walnut tray", created.Title)
	assert.Equal(t, "Engraved", created.DescriptionText())
	require.NotNil(t, created.ImageURL)
	assert.True(t, strings.HasPrefix(*created.ImageURL, "https://abc.supabase.co/storage/v1/object/public/project-images/"))
	assert.True(t, strings.HasSuffix(*created.ImageURL, ".png"))

	paths := storage.Paths(backend.BucketProjectImages)
	require.Len(t, paths, 1)
	obj, _ := storage.Object(backend.BucketProjectImages, paths[0])
	assert.Equal(t, "image/png", obj.ContentType)
}

func TestCreateProjectValidation(t *testing.T) {
	client := memory.New()
	p := newProjects(client, memory.NewStorage(""))

	_, err := p.Create(context.Background(), ProjectForm{Title: " ", Category: ""}, nil)
	require.Error(t, err)
	assert.True(t, errs.IsValidationError(err))

	var apiErr *errs.ApiErr
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Fields, "title")
	assert.Contains(t, apiErr.Fields, "category")
	assert.Equal(t, 0, client.Calls(memory.OpInsert))
}

func TestCreateProjectRejectsNonImage(t *testing.T) {
	client := memory.New()
	p := newProjects(client, memory.NewStorage(""))

	_, err := p.Create(context.Background(), ProjectForm{Title: "t", Category: "c"},
		&Upload{Filename: "notes.txt", Body: []byte("plain text")})
	var apiErr *errs.ApiErr
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnsupportedMediaType, apiErr.StatusCode)
	assert.Equal(t, 0, client.Calls(memory.OpInsert))
}

func TestImageContentType(t *testing.T) {
	svg := []byte(`<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg"></svg>`)
	avif := []byte("\x00\x00\x00\x1cftypavif\x00\x00\x00\x00mif1")

	tests := []struct {
		name     string
		upload   Upload
		wantType string
		wantOK   bool
	}{
		{"png", Upload{Filename: "a.png", Body: pngBytes}, "image/png", true},
		{"svg", Upload{Filename: "logo.SVG", Body: svg}, "image/svg+xml", true},
		{"avif", Upload{Filename: "photo.avif", Body: avif}, "image/avif", true},
		{"svg extension on text", Upload{Filename: "notes.svg", Body: []byte("plain text")}, "text/plain; charset=utf-8", false},
		{"avif extension on other bytes", Upload{Filename: "photo.avif", Body: []byte("\x00\x01\x02\x03garbage")}, "application/octet-stream", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := imageContentType(tt.upload)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantType, got)
		})
	}
}

func TestCreateProjectWithSVG(t *testing.T) {
	client, storage := memory.New(), memory.NewStorage("")
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="1" height="1"></svg>`)

	created, err := newProjects(client, storage).Create(context.Background(), ProjectForm{Title: "Logo", Category: "Laser"},
		&Upload{Filename: "logo.svg", Body: svg})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(created.ImageURLText(), ".svg"))

	paths := storage.Paths(backend.BucketProjectImages)
	require.Len(t, paths, 1)
	obj, _ := storage.Object(backend.BucketProjectImages, paths[0])
	assert.Equal(t, "image/svg+xml", obj.ContentType)
}

func TestCreateProjectUploadFailure(t *testing.T) {
	client, storage := memory.New(), memory.NewStorage("")
	storage.FailWith(errors.New("bucket not found"))

	_, err := newProjects(client, storage).Create(context.Background(), ProjectForm{Title: "t", Category: "c"},
		&Upload{Filename: "a.png", Body: pngBytes})
	assert.ErrorIs(t, err, errs.ErrStorageUpload)
	assert.Equal(t, 0, client.Calls(memory.OpInsert))
}

func TestUpdateKeepsImageAndSetsUpdatedAt(t *testing.T) {
	client := memory.New()
	image := "https://abc.supabase.co/storage/v1/object/public/project-images/old.png"
	existing := models.Project{ID: uuid.New(), Title: "old", Category: "A", ImageURL: &image}
	client.SeedProjects(existing)

	updated, err := newProjects(client, memory.NewStorage("")).Update(context.Background(), existing.ID,
		ProjectForm{Title: "new", Category: "B", DisplayOrder: 2}, nil)
	require.NoError(t, err)

	assert.Equal(t, "new", updated.Title)
	assert.Equal(t, image, updated.ImageURLText())
	assert.Equal(t, editTime, updated.UpdatedAt)

	var rows []models.Project
	require.NoError(t, client.Select(context.Background(), backend.TableProjects, backend.Query{}, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, editTime, rows[0].UpdatedAt)
	assert.Equal(t, image, rows[0].ImageURLText())
	assert.Nil(t, rows[0].Description)
}

func TestUpdateReplacesImage(t *testing.T) {
	client, storage := memory.New(), memory.NewStorage("https://abc.supabase.co")
	existing := models.Project{ID: uuid.New(), Title: "old", Category: "A"}
	client.SeedProjects(existing)

	updated, err := newProjects(client, storage).Update(context.Background(), existing.ID,
		ProjectForm{Title: "old", Category: "A"}, &Upload{Filename: "new.png", Body: pngBytes})
	require.NoError(t, err)
	require.NotNil(t, updated.ImageURL)
	assert.Len(t, storage.Paths(backend.BucketProjectImages), 1)
}

func TestUpdateMissingProject(t *testing.T) {
	_, err := newProjects(memory.New(), memory.NewStorage("")).Update(context.Background(), uuid.New(),
		ProjectForm{Title: "t", Category: "c"}, nil)
	assert.True(t, errs.IsNotFound(err))
	assert.Equal(t, http.StatusNotFound, errs.StatusCode(err))
}

func TestDeleteRemovesFromListWithoutRefetch(t *testing.T) {
	client := memory.New()
	keep := models.Project{ID: uuid.New(), Title: "keep", Category: "A", DisplayOrder: 1}
	drop := models.Project{ID: uuid.New(), Title: "drop", Category: "A", DisplayOrder: 2}
	client.SeedProjects(keep, drop)

	p := newProjects(client, memory.NewStorage(""))
	listed, err := p.List(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 2)
	selects := client.Calls(memory.OpSelect)

	require.NoError(t, p.Delete(context.Background(), drop.ID, true))

	items := p.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "keep", items[0].Title)
	assert.Equal(t, selects, client.Calls(memory.OpSelect))
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	client := memory.New()
	project := models.Project{ID: uuid.New(), Title: "x", Category: "A"}
	client.SeedProjects(project)

	err := newProjects(client, memory.NewStorage("")).Delete(context.Background(), project.ID, false)
	assert.ErrorIs(t, err, ErrNotConfirmed)
	assert.Equal(t, 0, client.Calls(memory.OpDelete))
}

func TestDeleteFailureKeepsList(t *testing.T) {
	client := memory.New()
	project := models.Project{ID: uuid.New(), Title: "x", Category: "A"}
	client.SeedProjects(project)

	p := newProjects(client, memory.NewStorage(""))
	_, err := p.List(context.Background())
	require.NoError(t, err)

	client.FailWith(memory.OpDelete, errors.New("permission denied"))
	assert.Error(t, p.Delete(context.Background(), project.ID, true))
	assert.Len(t, p.Items(), 1)
}

func TestMessagesListNewestFirstAndDelete(t *testing.T) {
	client := memory.New()
	older := models.ContactMessage{ID: uuid.New(), Name: "old", CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	newer := models.ContactMessage{ID: uuid.New(), Name: "new", CreatedAt: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)}
	client.SeedMessages(older, newer)

	m := NewMessages(client)
	listed, err := m.List(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "new", listed[0].Name)

	assert.ErrorIs(t, m.Delete(context.Background(), older.ID, false), ErrNotConfirmed)
	require.NoError(t, m.Delete(context.Background(), older.ID, true))
	assert.Len(t, m.Items(), 1)
}

func TestLoadStats(t *testing.T) {
	client := memory.New()
	client.SeedProjects(models.Project{Title: "a", Category: "A"}, models.Project{Title: "b", Category: "B"})
	client.SeedMessages(models.ContactMessage{Name: "x"})

	stats, err := LoadStats(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, Stats{Projects: 2, Messages: 1}, stats)

	client.FailWith(memory.OpCount, errors.New("timeout"))
	_, err = LoadStats(context.Background(), client)
	assert.Error(t, err)
}

func TestRandomFilename(t *testing.T) {
	name := RandomFilename("Photo.JPG")
	assert.True(t, strings.HasSuffix(name, ".jpg"))
	_, err := uuid.Parse(strings.TrimSuffix(name, ".jpg"))
	assert.NoError(t, err)

	assert.True(t, strings.HasSuffix(RandomFilename("noext"), ".bin"))
	assert.NotEqual(t, RandomFilename("a.png"), RandomFilename("a.png"))
}

func TestFormFromProject(t *testing.T) {
	desc := "d"
	form := FormFromProject(models.Project{Title: "t", Category: "c", Description: &desc, DisplayOrder: 4})
	assert.Equal(t, ProjectForm{Title: "t", Category: "c", Description: "d", DisplayOrder: 4}, form)
}
