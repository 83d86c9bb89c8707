// Package memory keeps projects, contact messages, uploaded objects and
// admin sessions in process memory. It backs DB_TYPE=memory demo mode and
// stands in for the hosted backend in tests.
package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rpupo63/portfolio-site/backend"
	"github.com/rpupo63/portfolio-site/models"
)

// Operation names accepted by FailWith and Calls
const (
	OpSelect = "select"
	OpCount  = "count"
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Client is an in-memory backend.Client. Column lists in a Query are
// ignored; whole rows are always returned.
type Client struct {
	mu       sync.Mutex
	projects []models.Project
	messages []models.ContactMessage
	failures map[string]error
	calls    map[string]int
	onSelect func(ctx context.Context, table string, q backend.Query)
	now      func() time.Time
}

func New() *Client {
	return &Client{
		failures: make(map[string]error),
		calls:    make(map[string]int),
		now:      time.Now,
	}
}

// SeedProjects appends projects in arrival order, assigning ids where missing
func (c *Client) SeedProjects(projects ...models.Project) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range projects {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		c.projects = append(c.projects, p)
	}
}

// SeedMessages appends contact messages, assigning ids where missing
func (c *Client) SeedMessages(messages ...models.ContactMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range messages {
		if m.ID == uuid.Nil {
			m.ID = uuid.New()
		}
		c.messages = append(c.messages, m)
	}
}

// FailWith makes every later call of op return err until cleared with a nil err
func (c *Client) FailWith(op string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil {
		delete(c.failures, op)
		return
	}
	c.failures[op] = err
}

// Calls reports how many times op has been invoked
func (c *Client) Calls(op string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[op]
}

// OnSelect registers a hook that runs before every select returns. The hook
// runs without the client lock held, so it may block.
func (c *Client) OnSelect(hook func(ctx context.Context, table string, q backend.Query)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onSelect = hook
}

func (c *Client) begin(op string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[op]++
	return c.failures[op]
}

func (c *Client) Select(ctx context.Context, table string, q backend.Query, dest any) error {
	if err := c.begin(OpSelect); err != nil {
		return err
	}

	c.mu.Lock()
	hook := c.onSelect
	c.mu.Unlock()
	if hook != nil {
		hook(ctx, table, q)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	switch out := dest.(type) {
	case *[]models.Project:
		if table != backend.TableProjects {
			return fmt.Errorf("memory: cannot read %s into projects", table)
		}
		rows, err := selectRows(c.projects, q, projectColumn)
		if err != nil {
			return err
		}
		*out = rows
	case *[]models.ContactMessage:
		if table != backend.TableContactMessages {
			return fmt.Errorf("memory: cannot read %s into contact messages", table)
		}
		rows, err := selectRows(c.messages, q, messageColumn)
		if err != nil {
			return err
		}
		*out = rows
	default:
		return fmt.Errorf("memory: unsupported destination %T", dest)
	}
	return nil
}

func (c *Client) Count(_ context.Context, table string) (int64, error) {
	if err := c.begin(OpCount); err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	switch table {
	case backend.TableProjects:
		return int64(len(c.projects)), nil
	case backend.TableContactMessages:
		return int64(len(c.messages)), nil
	}
	return 0, fmt.Errorf("memory: unknown table %s", table)
}

func (c *Client) Insert(_ context.Context, table string, record any) error {
	if err := c.begin(OpInsert); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()

	switch r := record.(type) {
	case *models.Project:
		if table != backend.TableProjects {
			return fmt.Errorf("memory: cannot insert project into %s", table)
		}
		r.ID = uuid.New()
		r.CreatedAt, r.UpdatedAt = now, now
		c.projects = append(c.projects, *r)
	case *models.ContactMessage:
		if table != backend.TableContactMessages {
			return fmt.Errorf("memory: cannot insert contact message into %s", table)
		}
		r.ID = uuid.New()
		if r.CreatedAt.IsZero() {
			r.CreatedAt = now
		}
		c.messages = append(c.messages, *r)
	default:
		return fmt.Errorf("memory: unsupported record %T", record)
	}
	return nil
}

func (c *Client) Update(_ context.Context, table string, id uuid.UUID, patch map[string]any) error {
	if err := c.begin(OpUpdate); err != nil {
		return err
	}
	if table != backend.TableProjects {
		return fmt.Errorf("memory: update not supported on %s", table)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	i := slices.IndexFunc(c.projects, func(p models.Project) bool { return p.ID == id })
	if i < 0 {
		return backend.ErrNotFound
	}

	p := c.projects[i]
	for column, value := range patch {
		if err := applyProjectColumn(&p, column, value); err != nil {
			return err
		}
	}
	c.projects[i] = p
	return nil
}

func (c *Client) Delete(_ context.Context, table string, id uuid.UUID) error {
	if err := c.begin(OpDelete); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	switch table {
	case backend.TableProjects:
		before := len(c.projects)
		c.projects = slices.DeleteFunc(c.projects, func(p models.Project) bool { return p.ID == id })
		if len(c.projects) == before {
			return backend.ErrNotFound
		}
	case backend.TableContactMessages:
		before := len(c.messages)
		c.messages = slices.DeleteFunc(c.messages, func(m models.ContactMessage) bool { return m.ID == id })
		if len(c.messages) == before {
			return backend.ErrNotFound
		}
	default:
		return fmt.Errorf("memory: unknown table %s", table)
	}
	return nil
}

// selectRows filters, orders and limits a copy of rows
func selectRows[T any](rows []T, q backend.Query, column func(T, string) (any, bool)) ([]T, error) {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		keep := true
		for _, f := range q.Filters {
			v, ok := column(row, f.Column)
			if !ok {
				return nil, fmt.Errorf("memory: unknown column %s", f.Column)
			}
			if v != f.Value {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, row)
		}
	}

	if q.Order != nil {
		if _, ok := column(*new(T), q.Order.Column); !ok {
			return nil, fmt.Errorf("memory: unknown column %s", q.Order.Column)
		}
		slices.SortStableFunc(out, func(a, b T) int {
			av, _ := column(a, q.Order.Column)
			bv, _ := column(b, q.Order.Column)
			cmp := compare(av, bv)
			if !q.Order.Ascending {
				cmp = -cmp
			}
			return cmp
		})
	}

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func compare(a, b any) int {
	switch av := a.(type) {
	case int:
		bv := b.(int)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case string:
		return strings.Compare(av, b.(string))
	case time.Time:
		return av.Compare(b.(time.Time))
	}
	return 0
}

func projectColumn(p models.Project, column string) (any, bool) {
	switch column {
	case "id":
		return p.ID, true
	case "title":
		return p.Title, true
	case "category":
		return p.Category, true
	case "display_order":
		return p.DisplayOrder, true
	case "created_at":
		return p.CreatedAt, true
	case "updated_at":
		return p.UpdatedAt, true
	}
	return nil, false
}

func messageColumn(m models.ContactMessage, column string) (any, bool) {
	switch column {
	case "id":
		return m.ID, true
	case "email":
		return m.Email, true
	case "subject":
		return m.Subject, true
	case "created_at":
		return m.CreatedAt, true
	}
	return nil, false
}

func applyProjectColumn(p *models.Project, column string, value any) error {
	var ok bool
	switch column {
	case "title":
		p.Title, ok = value.(string)
	case "category":
		p.Category, ok = value.(string)
	case "description":
		p.Description, ok = value.(*string)
	case "image_url":
		p.ImageURL, ok = value.(*string)
	case "display_order":
		p.DisplayOrder, ok = value.(int)
	case "updated_at":
		p.UpdatedAt, ok = value.(time.Time)
	default:
		return fmt.Errorf("memory: unknown column %s", column)
	}
	if !ok {
		return fmt.Errorf("memory: bad value %T for column %s", value, column)
	}
	return nil
}
