package api

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site/admin"
	"github.com/rpupo63/portfolio-site/backend"
	"github.com/rpupo63/portfolio-site/catalog"
	"github.com/rpupo63/portfolio-site/errs"
	"github.com/rpupo63/portfolio-site/models"
)

// ProjectList is the admin project list
type ProjectList struct {
	Projects []models.Project `json:"projects"`
	Total    int              `json:"total"`
}

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	client    backend.Client
	storage   backend.Storage
}

func newProjectHandler(deps Dependencies) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		client:    deps.Client,
		storage:   deps.Storage,
	}
}

func (h projectHandler) projects() *admin.Projects {
	return admin.NewProjects(h.client, h.storage, admin.WithLogger(h.logger))
}

// getProjects returns the public project list for a category
// @Summary List projects
// @Tags Projects
// @Produce json
// @Param category query string false "Category, or All"
// @Param limit query int false "Maximum number of projects"
// @Success 200 {object} ProjectCollection
// @Failure 503 {object} ProjectCollection "The project list could not be loaded"
// @Router /api/projects [get]
func (h projectHandler) getProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				h.responder.WriteError(w, errs.NewBadRequestError("invalid limit"))
				return
			}
			limit = n
		}

		view := catalog.New(h.client, catalog.WithLimit(limit), catalog.WithLogger(h.logger)).
			LoadProjects(r.Context(), r.URL.Query().Get("category"))

		if view.Status == catalog.StatusErrored {
			h.responder.WriteJSONStatus(w, http.StatusServiceUnavailable, newProjectCollection(view))
			return
		}
		h.responder.WriteJSON(w, newProjectCollection(view))
	}
}

// getCategories returns "All" followed by every distinct category
// @Summary List categories
// @Tags Projects
// @Produce json
// @Success 200 {object} CategoryList
// @Failure 503 {object} ErrorResponse
// @Router /api/categories [get]
func (h projectHandler) getCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories := catalog.New(h.client, catalog.WithLogger(h.logger)).LoadCategories(r.Context())

		// a successful load always contains "All"
		if len(categories) == 0 {
			h.responder.WriteError(w, errs.NewServiceUnavailableError("project catalog", nil))
			return
		}
		h.responder.WriteJSON(w, CategoryList{Categories: categories})
	}
}

// getAllProjects returns every project for the admin panel
// @Summary List all projects
// @Tags Admin
// @Produce json
// @Success 200 {object} ProjectList
// @Failure 401 {object} ErrorResponse
// @Router /api/admin/projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.projects().List(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, ProjectList{Projects: projects, Total: len(projects)})
	}
}

// getProject retrieves a specific project by ID
// @Summary Get project
// @Tags Admin
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} models.Project
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid projectID"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /api/admin/projects/{projectID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuidParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projects().Get(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// createProject creates a new project from JSON or a multipart form with an image
// @Summary Create project
// @Tags Admin
// @Accept json,mpfd
// @Produce json
// @Param project body admin.ProjectForm true "Project data"
// @Success 201 {object} models.Project
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 415 {object} ErrorResponse "Unsupported Media Type"
// @Router /api/admin/projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, upload, err := decodeProjectRequest(w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projects().Create(r.Context(), form, upload)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, project)
	}
}

// updateProject updates an existing project
// @Summary Update project
// @Tags Admin
// @Accept json,mpfd
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param project body admin.ProjectForm true "Updated project data"
// @Success 200 {object} models.Project
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /api/admin/projects/{projectID} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuidParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		form, upload, err := decodeProjectRequest(w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projects().Update(r.Context(), projectID, form, upload)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// deleteProject deletes a project. The caller confirms with ?confirm=true.
// @Summary Delete project
// @Tags Admin
// @Param projectID path string true "Project ID" format(uuid)
// @Param confirm query bool true "Confirm the deletion"
// @Success 204
// @Failure 400 {object} ErrorResponse "Bad Request - Not confirmed"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /api/admin/projects/{projectID} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuidParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.projects().Delete(r.Context(), projectID, queryConfirmed(r)); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func queryConfirmed(r *http.Request) bool {
	ok, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	return ok
}
