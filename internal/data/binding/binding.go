package binding

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shikhonhub/shikhon-backend/internal/pkg/logger"
)

// Filter is a server-side (field, operator, value) predicate applied before
// records reach the binding.
type Filter struct {
	Field string
	Op    string
	Value any
}

// Collection binds one table to CRUD plus a live, watchable record list.
// Multiple collections over the same table are independent; each watcher
// owns its own bus subscription.
type Collection[T any] struct {
	db    *gorm.DB
	bus   ChangeBus
	log   *logger.Logger
	table string

	orderField string
	orderAsc   bool
	filters    []Filter
}

type Option func(*options)

type options struct {
	orderField string
	orderAsc   bool
	filters    []Filter
}

func WithOrder(field string, ascending bool) Option {
	return func(o *options) {
		o.orderField = field
		o.orderAsc = ascending
	}
}

func WithFilters(filters ...Filter) Option {
	return func(o *options) {
		o.filters = append(o.filters, filters...)
	}
}

func Bind[T any](db *gorm.DB, bus ChangeBus, log *logger.Logger, table string, opts ...Option) *Collection[T] {
	o := options{orderAsc: true}
	for _, opt := range opts {
		opt(&o)
	}
	return &Collection[T]{
		db:         db,
		bus:        bus,
		log:        log.With("binding", table),
		table:      table,
		orderField: o.orderField,
		orderAsc:   o.orderAsc,
		filters:    o.filters,
	}
}

func (c *Collection[T]) Table() string { return c.table }

func (c *Collection[T]) query(ctx context.Context, tx *gorm.DB) *gorm.DB {
	q := tx
	if q == nil {
		q = c.db
	}
	q = q.WithContext(ctx).Model(new(T))
	for _, f := range c.filters {
		switch f.Op {
		case "in":
			q = q.Where(fmt.Sprintf("%s IN ?", f.Field), f.Value)
		case "!=":
			q = q.Where(fmt.Sprintf("%s <> ?", f.Field), f.Value)
		case "=", "":
			q = q.Where(fmt.Sprintf("%s = ?", f.Field), f.Value)
		default:
			q = q.Where(fmt.Sprintf("%s %s ?", f.Field, f.Op), f.Value)
		}
	}
	if c.orderField != "" {
		dir := "ASC"
		if !c.orderAsc {
			dir = "DESC"
		}
		q = q.Order(fmt.Sprintf("%s %s", c.orderField, dir))
	}
	return q
}

// List resolves the current record set with filters and ordering applied
// server-side.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	var out []T
	if err := c.query(ctx, nil).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", c.table, err)
	}
	return out, nil
}

// Get loads a single record by id.
func (c *Collection[T]) Get(ctx context.Context, id uuid.UUID) (*T, error) {
	var out T
	err := c.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).First(&out).Error
	if err != nil {
		return nil, fmt.Errorf("get %s %s: %w", c.table, id, err)
	}
	return &out, nil
}

// Add inserts rec, filling ID and CreatedAt when the caller left them zero,
// and returns the new record's id. Date fields are normalized to UTC so they
// round-trip to the same instant.
func (c *Collection[T]) Add(ctx context.Context, tx *gorm.DB, rec *T) (uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = c.db
	}
	id := normalizeRecord(rec, time.Now().UTC())
	if err := transaction.WithContext(ctx).Create(rec).Error; err != nil {
		return uuid.Nil, fmt.Errorf("add to %s: %w", c.table, err)
	}
	c.notify(ctx)
	return id, nil
}

// Update performs a partial merge; absent fields are left untouched.
func (c *Collection[T]) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, patch map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = c.db
	}
	if len(patch) == 0 {
		return nil
	}
	err := transaction.WithContext(ctx).
		Model(new(T)).
		Where("id = ?", id).
		Updates(normalizePatch(patch)).Error
	if err != nil {
		return fmt.Errorf("update %s %s: %w", c.table, id, err)
	}
	c.notify(ctx)
	return nil
}

// Remove deletes by id. Deleting an absent id is not an error.
func (c *Collection[T]) Remove(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = c.db
	}
	if err := transaction.WithContext(ctx).Where("id = ?", id).Delete(new(T)).Error; err != nil {
		return fmt.Errorf("remove %s %s: %w", c.table, id, err)
	}
	c.notify(ctx)
	return nil
}

// Notify publishes a change event for this collection's table. Services call
// it after mutations that bypass the generic CRUD (bulk deletes, raw SQL).
func (c *Collection[T]) Notify(ctx context.Context) { c.notify(ctx) }

func (c *Collection[T]) notify(ctx context.Context) {
	if c.bus == nil {
		return
	}
	if err := c.bus.Publish(ctx, c.table); err != nil {
		c.log.Warn("change publish failed", "error", err)
	}
}
