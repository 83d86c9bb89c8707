package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site/admin"
	"github.com/rpupo63/portfolio-site/backend"
	"github.com/rpupo63/portfolio-site/errs"
	"github.com/rpupo63/portfolio-site/models"
	"github.com/rpupo63/portfolio-site/session"
)

const (
	adminProjectsPath = "/admin/projects"
	adminMessagesPath = "/admin/messages"
)

type loginPage struct {
	layout
	Email string
	Error string
}

type dashboardPage struct {
	layout
	Email string
	Stats admin.Stats
	Error string
}

type adminProjectsPage struct {
	layout
	Projects []models.Project
	Error    string
}

type projectFormPage struct {
	layout
	Heading     string
	Action      string
	Submit      string
	Form        admin.ProjectForm
	ImageURL    string
	FieldErrors map[string]string
	Error       string
}

type confirmDeletePage struct {
	layout
	Prompt string
	Item   string
	Action string
	Cancel string
}

type adminMessagesPage struct {
	layout
	Messages []models.ContactMessage
	Error    string
}

type adminHandler struct {
	logger  zerolog.Logger
	views   *renderer
	client  backend.Client
	storage backend.Storage
	guard   *session.Guard
}

func newAdminHandler(deps Dependencies, views *renderer, guard *session.Guard) adminHandler {
	return adminHandler{
		logger:  log.With().Str("handlerName", "adminHandler").Logger(),
		views:   views,
		client:  deps.Client,
		storage: deps.Storage,
		guard:   guard,
	}
}

func (h adminHandler) projects() *admin.Projects {
	return admin.NewProjects(h.client, h.storage, admin.WithLogger(h.logger))
}

func (h adminHandler) messages() *admin.Messages {
	return admin.NewMessages(h.client, admin.WithLogger(h.logger))
}

func adminLayout(title string) layout {
	return layout{Title: title, Admin: true, SignedIn: true}
}

func (h adminHandler) loginPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.views.renderPage(w, http.StatusOK, pageAdminLogin, loginPage{
			layout: layout{Title: "Admin Login", Admin: true},
		})
	}
}

// login signs in with the posted credentials and opens the dashboard
func (h adminHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
		if err := r.ParseForm(); err != nil {
			h.renderLogin(w, http.StatusBadRequest, "", "Malformed login request")
			return
		}

		email := strings.TrimSpace(r.PostFormValue("email"))
		password := r.PostFormValue("password")
		if email == "" || password == "" {
			h.renderLogin(w, http.StatusBadRequest, email, "Email and password are required")
			return
		}

		if _, err := h.guard.Login(w, r, email, password); err != nil {
			if errors.Is(err, backend.ErrInvalidCredentials) {
				h.renderLogin(w, http.StatusUnauthorized, email, "Invalid email or password")
				return
			}
			h.logger.Error().Err(err).Msg("Sign-in failed")
			h.renderLogin(w, http.StatusServiceUnavailable, email, "Sign-in is unavailable right now. Please try again.")
			return
		}

		http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
	}
}

func (h adminHandler) renderLogin(w http.ResponseWriter, status int, email, message string) {
	h.views.renderPage(w, status, pageAdminLogin, loginPage{
		layout: layout{Title: "Admin Login", Admin: true},
		Email:  email,
		Error:  message,
	})
}

func (h adminHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.guard.Logout(w, r)
	}
}

// dashboard shows the project and message counts
func (h adminHandler) dashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := dashboardPage{layout: adminLayout("Dashboard")}
		if s, ok := session.FromContext(r.Context()); ok {
			page.Email = s.Email
		}

		status := http.StatusOK
		stats, err := admin.LoadStats(r.Context(), h.client)
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to load dashboard stats")
			status, page.Error = errorStatus(err)
		}
		page.Stats = stats

		h.views.renderPage(w, status, pageAdminDashboard, page)
	}
}

func (h adminHandler) listProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := adminProjectsPage{layout: adminLayout("Projects")}
		status := http.StatusOK

		projects, err := h.projects().List(r.Context())
		if err != nil {
			status, page.Error = errorStatus(err)
		}
		page.Projects = projects

		h.views.renderPage(w, status, pageAdminProjects, page)
	}
}

func (h adminHandler) newProjectForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.views.renderPage(w, http.StatusOK, pageAdminProjectForm, newProjectPage(admin.ProjectForm{}))
	}
}

func newProjectPage(form admin.ProjectForm) projectFormPage {
	return projectFormPage{
		layout:  adminLayout("Add Project"),
		Heading: "ADD PROJECT",
		Action:  adminProjectsPath + "/new",
		Submit:  "Create Project",
		Form:    form,
	}
}

func editProjectPage(id uuid.UUID, form admin.ProjectForm, imageURL string) projectFormPage {
	return projectFormPage{
		layout:   adminLayout("Edit Project"),
		Heading:  "EDIT PROJECT",
		Action:   adminProjectsPath + "/" + id.String() + "/edit",
		Submit:   "Save Changes",
		Form:     form,
		ImageURL: imageURL,
	}
}

// createProject creates a project from the posted form. A failure re-renders
// the form with the entered values.
func (h adminHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, upload, err := parseProjectForm(w, r)
		if err == nil {
			_, err = h.projects().Create(r.Context(), form, upload)
		}
		if err != nil {
			page := newProjectPage(form)
			h.renderFormError(w, page, err)
			return
		}

		http.Redirect(w, r, adminProjectsPath, http.StatusSeeOther)
	}
}

func (h adminHandler) editProjectForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			h.views.renderError(w, adminLayout(""), err, adminProjectsPath)
			return
		}

		project, err := h.projects().Get(r.Context(), id)
		if err != nil {
			h.views.renderError(w, adminLayout(""), err, adminProjectsPath)
			return
		}

		page := editProjectPage(id, admin.FormFromProject(*project), project.ImageURLText())
		h.views.renderPage(w, http.StatusOK, pageAdminProjectForm, page)
	}
}

// updateProject saves the edit form; the image is replaced only when a new
// file is uploaded
func (h adminHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			h.views.renderError(w, adminLayout(""), err, adminProjectsPath)
			return
		}

		projects := h.projects()
		form, upload, err := parseProjectForm(w, r)
		if err == nil {
			_, err = projects.Update(r.Context(), id, form, upload)
		}
		if err != nil {
			var imageURL string
			if existing, getErr := projects.Get(r.Context(), id); getErr == nil {
				imageURL = existing.ImageURLText()
			}
			h.renderFormError(w, editProjectPage(id, form, imageURL), err)
			return
		}

		http.Redirect(w, r, adminProjectsPath, http.StatusSeeOther)
	}
}

func (h adminHandler) renderFormError(w http.ResponseWriter, page projectFormPage, err error) {
	status, message := errorStatus(err)
	if fields := fieldErrors(err); len(fields) > 0 {
		page.FieldErrors = fields
		message = "Please fix the highlighted fields."
	}
	page.Error = message
	h.views.renderPage(w, status, pageAdminProjectForm, page)
}

func (h adminHandler) confirmDeleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			h.views.renderError(w, adminLayout(""), err, adminProjectsPath)
			return
		}

		project, err := h.projects().Get(r.Context(), id)
		if err != nil {
			h.views.renderError(w, adminLayout(""), err, adminProjectsPath)
			return
		}

		h.views.renderPage(w, http.StatusOK, pageAdminConfirmDelete, confirmDeletePage{
			layout: adminLayout("Delete Project"),
			Prompt: "Are you sure you want to delete this project?",
			Item:   project.Title,
			Action: adminProjectsPath + "/" + id.String() + "/delete",
			Cancel: adminProjectsPath,
		})
	}
}

func (h adminHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			h.views.renderError(w, adminLayout(""), err, adminProjectsPath)
			return
		}

		err = h.projects().Delete(r.Context(), id, confirmed(r))
		if err != nil && !errs.IsNotConfirmedError(err) {
			h.views.renderError(w, adminLayout(""), err, adminProjectsPath)
			return
		}

		http.Redirect(w, r, adminProjectsPath, http.StatusSeeOther)
	}
}

func (h adminHandler) listMessages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := adminMessagesPage{layout: adminLayout("Messages")}
		status := http.StatusOK

		messages, err := h.messages().List(r.Context())
		if err != nil {
			status, page.Error = errorStatus(err)
		}
		page.Messages = messages

		h.views.renderPage(w, status, pageAdminMessages, page)
	}
}

func (h adminHandler) confirmDeleteMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			h.views.renderError(w, adminLayout(""), err, adminMessagesPath)
			return
		}

		h.views.renderPage(w, http.StatusOK, pageAdminConfirmDelete, confirmDeletePage{
			layout: adminLayout("Delete Message"),
			Prompt: "Are you sure you want to delete this message?",
			Action: adminMessagesPath + "/" + id.String() + "/delete",
			Cancel: adminMessagesPath,
		})
	}
}

func (h adminHandler) deleteMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			h.views.renderError(w, adminLayout(""), err, adminMessagesPath)
			return
		}

		err = h.messages().Delete(r.Context(), id, confirmed(r))
		if err != nil && !errs.IsNotConfirmedError(err) {
			h.views.renderError(w, adminLayout(""), err, adminMessagesPath)
			return
		}

		http.Redirect(w, r, adminMessagesPath, http.StatusSeeOther)
	}
}

// confirmed reports whether the confirmation page was submitted
func confirmed(r *http.Request) bool {
	return r.PostFormValue("confirm") == "yes"
}
