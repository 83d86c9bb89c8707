package api

import (
	"github.com/rpupo63/portfolio-site/catalog"
	"github.com/rpupo63/portfolio-site/models"
)

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error   string            `json:"error"`
	Status  string            `json:"status"`
	Field   string            `json:"field,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
	Details string            `json:"details,omitempty"`
	Cause   string            `json:"cause,omitempty"`
}

// ProjectCollection is the public project list with its view state
type ProjectCollection struct {
	Category string           `json:"category"`
	Status   string           `json:"status"`
	Error    string           `json:"error,omitempty"`
	Projects []models.Project `json:"projects"`
	Total    int              `json:"total"`
}

func newProjectCollection(view catalog.View) ProjectCollection {
	projects := view.Projects
	if projects == nil {
		projects = []models.Project{}
	}
	return ProjectCollection{
		Category: view.Category,
		Status:   view.Status.String(),
		Error:    view.Error,
		Projects: projects,
		Total:    len(projects),
	}
}

type CategoryList struct {
	Categories []string `json:"categories"`
}

type MessageCollection struct {
	Messages []models.ContactMessage `json:"messages"`
	Total    int                     `json:"total"`
}

type ContactResponse struct {
	Status  string                `json:"status"`
	Message models.ContactMessage `json:"message"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}
