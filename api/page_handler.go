package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/rpupo63/portfolio-site/backend"
	"github.com/rpupo63/portfolio-site/catalog"
	"github.com/rpupo63/portfolio-site/contact"
	"github.com/rpupo63/portfolio-site/errs"
	"github.com/rpupo63/portfolio-site/models"
)

// contactSentCookie carries the success banner across the post/redirect/get
const contactSentCookie = "contact-sent"

type serviceCard struct {
	Title       string
	Description string
}

var serviceCards = []serviceCard{
	{"CO2 Laser Operation", "High-precision cutting and engraving for leather, acrylic, and textiles."},
	{"Image Tracing & Vectorizing", "Converting hand sketches and rasters into cleaner, scalable digital vectors."},
	{"Pattern Grading", "Accurate scaling of footwear patterns across full size runs."},
	{"Marking & Engraving", "Detailed branding and functional marking on technical materials."},
}

type catalogSection struct {
	View       catalog.View
	Categories []string
	ShowFilter bool
}

func (s catalogSection) Loading() bool { return s.View.Status == catalog.StatusLoading }
func (s catalogSection) Errored() bool { return s.View.Status == catalog.StatusErrored }
func (s catalogSection) Empty() bool   { return s.View.Status == catalog.StatusEmpty }

func (s catalogSection) Active(category string) bool {
	return s.View.Category == category
}

type contactSection struct {
	Fields      contact.Fields
	FieldErrors map[string]string
	Error       string
	Success     bool
	Subjects    []string
}

func (contactSection) SuccessMillis() int64 {
	return contact.SuccessBannerDuration.Milliseconds()
}

type homePage struct {
	layout
	Services []serviceCard
	Catalog  catalogSection
	Contact  contactSection
}

type projectsPage struct {
	layout
	Catalog catalogSection
}

type pageHandler struct {
	logger  zerolog.Logger
	views   *renderer
	client  backend.Client
	contact *contact.Form
}

func newPageHandler(deps Dependencies, views *renderer) pageHandler {
	logger := log.With().Str("handlerName", "pageHandler").Logger()

	opts := []contact.Option{contact.WithLogger(logger)}
	if deps.Notifier != nil {
		opts = append(opts, contact.WithNotifier(deps.Notifier))
	}

	return pageHandler{
		logger:  logger,
		views:   views,
		client:  deps.Client,
		contact: contact.NewForm(deps.Client, opts...),
	}
}

// home renders the landing page with the first projects and the contact form
func (h pageHandler) home() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		section := contactSection{
			Fields:   contact.Fields{Subject: models.SubjectGeneralInquiry},
			Subjects: models.ContactSubjects,
		}
		if c, err := r.Cookie(contactSentCookie); err == nil && c.Value != "" {
			section.Success = true
		}
		h.renderHome(w, r, http.StatusOK, section)
	}
}

// submitContact stores a contact message, then redirects back to the form
func (h pageHandler) submitContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
		if err := r.ParseForm(); err != nil {
			h.renderHome(w, r, http.StatusBadRequest, contactSection{
				Error:    "Your message could not be read. Please try again.",
				Subjects: models.ContactSubjects,
			})
			return
		}

		result := h.contact.Submit(r.Context(), contact.Fields{
			Name:    r.PostFormValue("name"),
			Email:   r.PostFormValue("email"),
			Subject: r.PostFormValue("subject"),
			Message: r.PostFormValue("message"),
		})

		if result.Succeeded() {
			http.SetCookie(w, &http.Cookie{
				Name:     contactSentCookie,
				Value:    "1",
				Path:     "/",
				MaxAge:   int(contact.SuccessBannerDuration / time.Second),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			http.Redirect(w, r, "/#contact", http.StatusSeeOther)
			return
		}

		status := http.StatusBadRequest
		if len(result.FieldErrors) == 0 {
			status = errs.StatusCode(errs.NewDatabaseError("create", "contact message", result.Cause))
		}
		h.renderHome(w, r, status, contactSection{
			Fields:      result.Fields,
			FieldErrors: result.FieldErrors,
			Error:       result.Error,
			Subjects:    models.ContactSubjects,
		})
	}
}

func (h pageHandler) renderHome(w http.ResponseWriter, r *http.Request, status int, section contactSection) {
	view := catalog.New(h.client,
		catalog.WithLimit(catalog.HomepageLimit),
		catalog.WithLogger(h.logger),
	).Load(r.Context())

	h.views.renderPage(w, status, pageHome, homePage{
		layout:   layout{Title: "Precision in Every Cut"},
		Services: serviceCards,
		Catalog:  catalogSection{View: view},
		Contact:  section,
	})
}

// projects renders the full project archive with the category filter.
// Categories and projects load concurrently.
func (h pageHandler) projects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := catalog.New(h.client, catalog.WithLogger(h.logger))

		var (
			categories []string
			view       catalog.View
		)
		g, ctx := errgroup.WithContext(r.Context())
		// load failures settle into the view; only a gone client aborts the page
		g.Go(func() error {
			categories = c.LoadCategories(ctx)
			return ctx.Err()
		})
		g.Go(func() error {
			view = c.SelectCategory(ctx, r.URL.Query().Get("category"))
			return ctx.Err()
		})
		if err := g.Wait(); err != nil {
			h.logger.Debug().Err(err).Msg("Projects page request cancelled")
			return
		}

		h.views.renderPage(w, http.StatusOK, pageProjects, projectsPage{
			layout: layout{Title: "Projects"},
			Catalog: catalogSection{
				View:       view,
				Categories: categories,
				ShowFilter: len(categories) > 0,
			},
		})
	}
}
