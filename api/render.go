package api

import (
	"bytes"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site/api/templates"
)

const (
	pageHome               = "home.html"
	pageProjects           = "projects.html"
	pageError              = "error.html"
	pageAdminLogin         = "admin_login.html"
	pageAdminDashboard     = "admin_dashboard.html"
	pageAdminProjects      = "admin_projects.html"
	pageAdminProjectForm   = "admin_project_form.html"
	pageAdminConfirmDelete = "admin_confirm_delete.html"
	pageAdminMessages      = "admin_messages.html"
)

var pages = []string{
	pageHome,
	pageProjects,
	pageError,
	pageAdminLogin,
	pageAdminDashboard,
	pageAdminProjects,
	pageAdminProjectForm,
	pageAdminConfirmDelete,
	pageAdminMessages,
}

var templateFuncs = template.FuncMap{
	"inc":  func(i int) int { return i + 1 },
	"year": func() int { return time.Now().Year() },
	"date": func(t time.Time) string { return t.Local().Format("Jan 2, 2006 15:04") },
}

// renderer holds every page parsed together with the shared layout
type renderer struct {
	pages  map[string]*template.Template
	logger zerolog.Logger
}

func newRenderer() (*renderer, error) {
	return newRendererFS(templates.FS)
}

func newRendererFS(files fs.FS) (*renderer, error) {
	r := &renderer{
		pages:  make(map[string]*template.Template, len(pages)),
		logger: log.With().Str("component", "renderer").Logger(),
	}
	for _, page := range pages {
		tmpl, err := template.New(page).Funcs(templateFuncs).ParseFS(files, "base.html", "partials.html", page)
		if err != nil {
			return nil, err
		}
		r.pages[page] = tmpl
	}
	return r, nil
}

// renderPage executes the "base" template of page. Output is buffered so a
// template failure still produces a clean 500.
func (v *renderer) renderPage(w http.ResponseWriter, status int, page string, data any) {
	tmpl, ok := v.pages[page]
	if !ok {
		v.logger.Error().Str("page", page).Msg("Unknown page template")
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		v.logger.Error().Err(err).Str("page", page).Msg("Failed to render page")
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		v.logger.Error().Err(err).Str("page", page).Msg("Error writing page")
	}
}

// layout is embedded by every page's data
type layout struct {
	Title    string
	Admin    bool
	SignedIn bool
}

type errorPage struct {
	layout
	Status  int
	Message string
	Back    string
}

// renderError shows err on the error page with its status code
func (v *renderer) renderError(w http.ResponseWriter, l layout, err error, back string) {
	status, message := errorStatus(err)
	l.Title = http.StatusText(status)
	v.renderPage(w, status, pageError, errorPage{layout: l, Status: status, Message: message, Back: back})
}
