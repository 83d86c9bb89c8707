package database

import (
	"context"

	"github.com/google/uuid"

	"github.com/rpupo63/portfolio-site/backend"
	"github.com/rpupo63/portfolio-site/models"
)

type ProjectRepo struct {
	client backend.Client
}

func NewProjectRepo(client backend.Client) *ProjectRepo {
	return &ProjectRepo{client}
}

// FindAll returns every project ordered by display_order
func (r *ProjectRepo) FindAll(ctx context.Context) ([]models.Project, error) {
	return r.FindByCategory(ctx, "")
}

// FindByCategory returns the projects of one category ordered by
// display_order. An empty category matches every project.
func (r *ProjectRepo) FindByCategory(ctx context.Context, category string) ([]models.Project, error) {
	q := backend.Query{Order: &backend.Order{Column: "display_order", Ascending: true}}
	if category != "" {
		q.Filters = []backend.Filter{backend.Eq("category", category)}
	}
	var projects []models.Project
	if err := r.client.Select(ctx, backend.TableProjects, q, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// Categories returns the category column of every project, duplicates included
func (r *ProjectRepo) Categories(ctx context.Context) ([]string, error) {
	var rows []models.Project
	err := r.client.Select(ctx, backend.TableProjects, backend.Query{Columns: []string{"category"}}, &rows)
	if err != nil {
		return nil, err
	}
	categories := make([]string, len(rows))
	for i, p := range rows {
		categories[i] = p.Category
	}
	return categories, nil
}

// FindByID returns a project by its ID
func (r *ProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var projects []models.Project
	err := r.client.Select(ctx, backend.TableProjects, backend.Query{
		Filters: []backend.Filter{backend.Eq("id", id)},
		Limit:   1,
	}, &projects)
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, backend.ErrNotFound
	}
	return &projects[0], nil
}

// Add inserts a new project; the backend fills in id and timestamps
func (r *ProjectRepo) Add(ctx context.Context, project *models.Project) error {
	return r.client.Insert(ctx, backend.TableProjects, project)
}

// Update writes the editable fields of a project
func (r *ProjectRepo) Update(ctx context.Context, project *models.Project) error {
	return r.client.Update(ctx, backend.TableProjects, project.ID, map[string]any{
		"title":         project.Title,
		"category":      project.Category,
		"description":   project.Description,
		"image_url":     project.ImageURL,
		"display_order": project.DisplayOrder,
		"updated_at":    project.UpdatedAt,
	})
}

func (r *ProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.client.Delete(ctx, backend.TableProjects, id)
}

func (r *ProjectRepo) Count(ctx context.Context) (int64, error) {
	return r.client.Count(ctx, backend.TableProjects)
}
