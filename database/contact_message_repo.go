package database

import (
	"context"

	"github.com/google/uuid"

	"github.com/rpupo63/portfolio-site/backend"
	"github.com/rpupo63/portfolio-site/models"
)

type ContactMessageRepo struct {
	client backend.Client
}

func NewContactMessageRepo(client backend.Client) *ContactMessageRepo {
	return &ContactMessageRepo{client}
}

// FindAll returns every message, newest first
func (r *ContactMessageRepo) FindAll(ctx context.Context) ([]models.ContactMessage, error) {
	var messages []models.ContactMessage
	err := r.client.Select(ctx, backend.TableContactMessages, backend.Query{
		Order: &backend.Order{Column: "created_at", Ascending: false},
	}, &messages)
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *ContactMessageRepo) Add(ctx context.Context, message *models.ContactMessage) error {
	return r.client.Insert(ctx, backend.TableContactMessages, message)
}

func (r *ContactMessageRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.client.Delete(ctx, backend.TableContactMessages, id)
}

func (r *ContactMessageRepo) Count(ctx context.Context) (int64, error) {
	return r.client.Count(ctx, backend.TableContactMessages)
}
