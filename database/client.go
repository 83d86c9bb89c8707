package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rpupo63/portfolio-site/backend"
)

// Client implements backend.Client on a gorm connection
type Client struct {
	db *gorm.DB
}

func NewClient(db *gorm.DB) *Client {
	return &Client{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (c *Client) GetDB() *gorm.DB {
	return c.db
}

func (c *Client) Select(ctx context.Context, table string, q backend.Query, dest any) error {
	return translate(buildSelect(c.db.WithContext(ctx), table, q).Find(dest).Error)
}

func (c *Client) Count(ctx context.Context, table string) (int64, error) {
	var n int64
	err := c.db.WithContext(ctx).Table(table).Count(&n).Error
	return n, translate(err)
}

func (c *Client) Insert(ctx context.Context, table string, record any) error {
	return translate(c.db.WithContext(ctx).Table(table).Create(record).Error)
}

func (c *Client) Update(ctx context.Context, table string, id uuid.UUID, patch map[string]any) error {
	res := c.db.WithContext(ctx).Table(table).Where("id = ?", id).Updates(patch)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return backend.ErrNotFound
	}
	return nil
}

func (c *Client) Delete(ctx context.Context, table string, id uuid.UUID) error {
	res := c.db.WithContext(ctx).Exec("DELETE FROM ? WHERE id = ?", clause.Table{Name: table}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return backend.ErrNotFound
	}
	return nil
}

// buildSelect turns a backend.Query into a gorm chain. Column names are
// emitted as quoted identifiers.
func buildSelect(tx *gorm.DB, table string, q backend.Query) *gorm.DB {
	tx = tx.Table(table)
	if len(q.Columns) > 0 {
		tx = tx.Select(q.Columns)
	}
	for _, f := range q.Filters {
		tx = tx.Where(clause.Eq{Column: clause.Column{Name: f.Column}, Value: f.Value})
	}
	if q.Order != nil {
		tx = tx.Order(clause.OrderByColumn{
			Column: clause.Column{Name: q.Order.Column},
			Desc:   !q.Order.Ascending,
		})
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	return tx
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %w", backend.ErrNotFound, err)
	}
	return err
}
