package admin

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rpupo63/portfolio-site/backend"
	"github.com/rpupo63/portfolio-site/database"
	"github.com/rpupo63/portfolio-site/errs"
	"github.com/rpupo63/portfolio-site/models"
)

// Messages is the contact message inbox
type Messages struct {
	repo   *database.ContactMessageRepo
	logger zerolog.Logger

	mu    sync.Mutex
	items []models.ContactMessage
}

func NewMessages(client backend.Client, opts ...Option) *Messages {
	o := buildOptions("adminMessages", opts)
	return &Messages{
		repo:   database.NewContactMessageRepo(client),
		logger: *o.logger,
	}
}

// List fetches every message, newest first
func (m *Messages) List(ctx context.Context) ([]models.ContactMessage, error) {
	messages, err := m.repo.FindAll(ctx)
	if err != nil {
		m.logger.Error().Err(err).Msg("Failed to list contact messages")
		return nil, errs.NewDatabaseError("list", "contact messages", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = messages
	return slices.Clone(messages), nil
}

func (m *Messages) Items() []models.ContactMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.items)
}

func (m *Messages) Delete(ctx context.Context, id uuid.UUID, confirmed bool) error {
	if !confirmed {
		return errs.NewNotConfirmedError("delete this message")
	}
	if err := m.repo.Delete(ctx, id); err != nil {
		m.logger.Error().Err(err).Str("messageID", id.String()).Msg("Failed to delete contact message")
		return errs.NewDatabaseError("delete", "contact message", err)
	}

	m.mu.Lock()
	m.items = slices.DeleteFunc(m.items, func(item models.ContactMessage) bool { return item.ID == id })
	m.mu.Unlock()
	return nil
}

// Stats are the dashboard counters
type Stats struct {
	Projects int64 `json:"projects"`
	Messages int64 `json:"messages"`
}

// LoadStats counts projects and messages concurrently
func LoadStats(ctx context.Context, client backend.Client) (Stats, error) {
	var stats Stats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := database.NewProjectRepo(client).Count(gctx)
		if err != nil {
			return errs.NewDatabaseError("count", "projects", err)
		}
		stats.Projects = n
		return nil
	})
	g.Go(func() error {
		n, err := database.NewContactMessageRepo(client).Count(gctx)
		if err != nil {
			return errs.NewDatabaseError("count", "contact messages", err)
		}
		stats.Messages = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	return stats, nil
}
