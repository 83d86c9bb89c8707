// Package admin implements the admin panel operations: project create, edit
// and delete, the contact message inbox, and dashboard stats.
package admin

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site/backend"
	"github.com/rpupo63/portfolio-site/database"
	"github.com/rpupo63/portfolio-site/errs"
	"github.com/rpupo63/portfolio-site/models"
)

var ErrNotConfirmed = errs.ErrNotConfirmed

// ProjectForm holds the editable fields of a project
type ProjectForm struct {
	Title        string `json:"title"`
	Category     string `json:"category"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"display_order"`
}

// FormFromProject prefills the edit form
func FormFromProject(p models.Project) ProjectForm {
	return ProjectForm{
		Title:        p.Title,
		Category:     p.Category,
		Description:  p.DescriptionText(),
		DisplayOrder: p.DisplayOrder,
	}
}

func (f ProjectForm) normalize() ProjectForm {
	f.Title = strings.TrimSpace(f.Title)
	f.Category = strings.TrimSpace(f.Category)
	f.Description = strings.TrimSpace(f.Description)
	return f
}

func (f ProjectForm) Validate() error {
	err := validation.ValidateStruct(&f,
		validation.Field(&f.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&f.Category, validation.Required, validation.Length(1, 100)),
	)
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for name, ferr := range verrs {
			fields[name] = ferr.Error()
		}
		return errs.NewValidationError(fields)
	}
	return err
}

func (f ProjectForm) description() *string {
	if f.Description == "" {
		return nil
	}
	d := f.Description
	return &d
}

type Option func(*options)

type options struct {
	now    func() time.Time
	logger *zerolog.Logger
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = &logger }
}

func buildOptions(component string, opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		l := log.With().Str("component", component).Logger()
		o.logger = &l
	}
	return o
}

// Projects manages the project list shown in the admin panel. The list
// fetched by List is kept as local state and updated in place by writes.
type Projects struct {
	repo    *database.ProjectRepo
	storage backend.Storage
	now     func() time.Time
	logger  zerolog.Logger

	mu    sync.Mutex
	items []models.Project
}

func NewProjects(client backend.Client, storage backend.Storage, opts ...Option) *Projects {
	o := buildOptions("adminProjects", opts)
	return &Projects{
		repo:    database.NewProjectRepo(client),
		storage: storage,
		now:     o.now,
		logger:  *o.logger,
	}
}

// List fetches every project ordered by display_order and replaces the local list
func (p *Projects) List(ctx context.Context) ([]models.Project, error) {
	projects, err := p.repo.FindAll(ctx)
	if err != nil {
		p.logger.Error().Err(err).Msg("Failed to list projects")
		return nil, errs.NewDatabaseError("list", "projects", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = projects
	return slices.Clone(projects), nil
}

// Items returns the local list without fetching
func (p *Projects) Items() []models.Project {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.items)
}

func (p *Projects) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project, err := p.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "project", err)
	}
	return project, nil
}

// Create validates the form, uploads the image when one is given and inserts the project
func (p *Projects) Create(ctx context.Context, form ProjectForm, upload *Upload) (*models.Project, error) {
	form = form.normalize()
	if err := form.Validate(); err != nil {
		return nil, err
	}

	project := models.Project{
		Title:        form.Title,
		Category:     form.Category,
		Description:  form.description(),
		DisplayOrder: form.DisplayOrder,
	}
	if upload != nil {
		url, err := uploadImage(ctx, p.storage, *upload)
		if err != nil {
			p.logger.Error().Err(err).Msg("Failed to upload project image")
			return nil, err
		}
		project.ImageURL = &url
	}

	if err := p.repo.Add(ctx, &project); err != nil {
		p.logger.Error().Err(err).Str("title", project.Title).Msg("Failed to create project")
		return nil, errs.NewDatabaseError("create", "project", err)
	}

	p.mu.Lock()
	p.items = append(p.items, project)
	p.mu.Unlock()
	return &project, nil
}

// Update rewrites the editable fields. Without an upload the existing image
// is kept. updated_at is always set.
func (p *Projects) Update(ctx context.Context, id uuid.UUID, form ProjectForm, upload *Upload) (*models.Project, error) {
	form = form.normalize()
	if err := form.Validate(); err != nil {
		return nil, err
	}

	project, err := p.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	project.Title = form.Title
	project.Category = form.Category
	project.Description = form.description()
	project.DisplayOrder = form.DisplayOrder
	project.UpdatedAt = p.now()

	if upload != nil {
		url, err := uploadImage(ctx, p.storage, *upload)
		if err != nil {
			p.logger.Error().Err(err).Str("projectID", id.String()).Msg("Failed to upload project image")
			return nil, err
		}
		project.ImageURL = &url
	}

	if err := p.repo.Update(ctx, project); err != nil {
		p.logger.Error().Err(err).Str("projectID", id.String()).Msg("Failed to update project")
		return nil, errs.NewDatabaseError("update", "project", err)
	}

	p.mu.Lock()
	if i := slices.IndexFunc(p.items, func(item models.Project) bool { return item.ID == id }); i >= 0 {
		p.items[i] = *project
	}
	p.mu.Unlock()
	return project, nil
}

// Delete removes a project once confirmed and drops it from the local list
// without fetching again
func (p *Projects) Delete(ctx context.Context, id uuid.UUID, confirmed bool) error {
	if !confirmed {
		return errs.NewNotConfirmedError("delete this project")
	}
	if err := p.repo.Delete(ctx, id); err != nil {
		p.logger.Error().Err(err).Str("projectID", id.String()).Msg("Failed to delete project")
		return errs.NewDatabaseError("delete", "project", err)
	}

	p.mu.Lock()
	p.items = slices.DeleteFunc(p.items, func(item models.Project) bool { return item.ID == id })
	p.mu.Unlock()
	return nil
}
