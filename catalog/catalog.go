// Package catalog turns the projects table into render-ready view state:
// the category list, the filtered and ordered project list, and a
// loading/populated/empty/errored status.
package catalog

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site/backend"
	"github.com/rpupo63/portfolio-site/database"
	"github.com/rpupo63/portfolio-site/models"
)

const (
	// AllCategories is the pseudo-category that disables filtering
	AllCategories = "All"
	// HomepageLimit caps the portfolio grid on the landing page
	HomepageLimit = 6
	// LoadErrorMessage is shown in place of the grid when a load fails
	LoadErrorMessage = "Failed to load projects"
)

type Status int

const (
	StatusLoading Status = iota
	StatusPopulated
	StatusEmpty
	StatusErrored
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusPopulated:
		return "populated"
	case StatusEmpty:
		return "empty"
	case StatusErrored:
		return "errored"
	}
	return "unknown"
}

// View is a settled snapshot of the catalog
type View struct {
	Category string
	Projects []models.Project
	Status   Status
	Error    string
	// Stale marks the result of a load that a newer load superseded
	Stale bool
}

type Option func(*Catalog)

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Catalog) { c.logger = logger }
}

// WithLimit caps every project list to its first n records; n <= 0 means no cap
func WithLimit(n int) Option {
	return func(c *Catalog) { c.limit = n }
}

// Catalog is safe for concurrent use
type Catalog struct {
	repo   *database.ProjectRepo
	logger zerolog.Logger
	limit  int

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	categories []string
	view       View
}

func New(client backend.Client, opts ...Option) *Catalog {
	c := &Catalog{
		repo:   database.NewProjectRepo(client),
		logger: log.With().Str("component", "catalog").Logger(),
		view:   View{Category: AllCategories, Status: StatusLoading},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoadCategories fetches the category column and stores "All" followed by
// the distinct non-blank categories in alphabetical order. A failure is
// logged and leaves the stored list empty.
func (c *Catalog) LoadCategories(ctx context.Context) []string {
	raw, err := c.repo.Categories(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to load categories")
		c.mu.Lock()
		c.categories = []string{}
		c.mu.Unlock()
		return []string{}
	}

	categories := DistinctCategories(raw)
	c.mu.Lock()
	c.categories = categories
	c.mu.Unlock()
	return slices.Clone(categories)
}

// Categories returns the list stored by the last LoadCategories
func (c *Catalog) Categories() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.categories)
}

// DistinctCategories returns "All" followed by the distinct non-blank
// values of raw, sorted
func DistinctCategories(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	rest := make([]string, 0, len(raw))
	for _, category := range raw {
		if strings.TrimSpace(category) == "" || category == AllCategories {
			continue
		}
		if _, dup := seen[category]; dup {
			continue
		}
		seen[category] = struct{}{}
		rest = append(rest, category)
	}
	slices.Sort(rest)
	return append([]string{AllCategories}, rest...)
}

// Load (re)loads the current category
func (c *Catalog) Load(ctx context.Context) View {
	return c.LoadProjects(ctx, c.Category())
}

// SelectCategory switches the active filter. Selecting the category that is
// already active returns the current view without a new load.
func (c *Catalog) SelectCategory(ctx context.Context, category string) View {
	category = normalize(category)
	c.mu.Lock()
	if c.view.Category == category && c.view.Status != StatusLoading {
		view := c.view.clone()
		c.mu.Unlock()
		return view
	}
	c.mu.Unlock()
	return c.LoadProjects(ctx, category)
}

// LoadProjects fetches the projects of category ("All" for every project)
// and settles the view. A load started while another is in flight cancels
// the older one, and the older result never replaces the newer view.
func (c *Catalog) LoadProjects(ctx context.Context, category string) View {
	category = normalize(category)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.mu.Lock()
	c.generation++
	generation := c.generation
	if c.cancel != nil {
		c.cancel()
	}
	c.cancel = cancel
	c.view = View{Category: category, Status: StatusLoading}
	c.mu.Unlock()

	filter := category
	if filter == AllCategories {
		filter = ""
	}
	projects, err := c.repo.FindByCategory(ctx, filter)

	c.mu.Lock()
	defer c.mu.Unlock()
	stale := generation != c.generation
	view := c.settle(category, projects, err, stale)
	if stale {
		view.Stale = true
		return view
	}
	c.cancel = nil
	c.view = view
	return view.clone()
}

// View returns the current snapshot
func (c *Catalog) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view.clone()
}

// Category returns the active filter
func (c *Catalog) Category() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view.Category
}

func (c *Catalog) settle(category string, projects []models.Project, err error, stale bool) View {
	if err != nil {
		if stale && errors.Is(err, context.Canceled) {
			c.logger.Debug().Str("category", category).Msg("Superseded project load cancelled")
		} else {
			c.logger.Error().Err(err).Str("category", category).Msg("Failed to load projects")
		}
		return View{Category: category, Projects: []models.Project{}, Status: StatusErrored, Error: LoadErrorMessage}
	}

	shown := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if strings.TrimSpace(p.Category) == "" {
			c.logger.Warn().Str("projectID", p.ID.String()).Msg("Skipping project without category")
			continue
		}
		if category != AllCategories && p.Category != category {
			continue
		}
		shown = append(shown, p)
	}
	slices.SortStableFunc(shown, func(a, b models.Project) int {
		return cmp.Compare(a.DisplayOrder, b.DisplayOrder)
	})
	if c.limit > 0 && len(shown) > c.limit {
		shown = shown[:c.limit]
	}

	if len(shown) == 0 {
		return View{Category: category, Projects: shown, Status: StatusEmpty}
	}
	return View{Category: category, Projects: shown, Status: StatusPopulated}
}

func (v View) clone() View {
	if v.Projects != nil {
		v.Projects = slices.Clone(v.Projects)
	}
	return v
}

// normalize maps a blank category to "All". Anything else is kept verbatim
// so the filter matches the stored value exactly.
func normalize(category string) string {
	if strings.TrimSpace(category) == "" {
		return AllCategories
	}
	return category
}
