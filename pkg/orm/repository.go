// Package orm provides a generic CRUD repository over an injected *gorm.DB.
//
//	products := orm.NewRepository[models.Product](db)
//	p := &models.Product{Title: "Mug", Price: decimal.NewFromInt(9)}
//	err := products.Create(ctx, p)           // p.ID is populated
//	p, err = products.Read(ctx, p.ID)        // orm.ErrNotFound when absent
//	err = products.Update(ctx, p, map[string]any{"inventory": 3})
//	ok, err := products.Delete(ctx, p.ID)    // ok iff one row removed
package orm

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/kashvishop/storefront/pkg/casing"
	"github.com/kashvishop/storefront/pkg/metrics"
)

// ErrNotFound is returned when no row matches the requested id or condition.
var ErrNotFound = errors.New("record not found")

// Repository implements create/read/readAll/update/delete for one table.
type Repository[T any] struct {
	db    *gorm.DB
	table string
}

// NewRepository binds a repository for T to db.
func NewRepository[T any](db *gorm.DB) *Repository[T] {
	table := "unknown"
	if t, ok := any(new(T)).(schema.Tabler); ok {
		table = t.TableName()
	}
	return &Repository[T]{db: db, table: table}
}

// DB returns the underlying handle bound to ctx, for queries the generic
// methods do not cover.
func (r *Repository[T]) DB(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// Table is the table name T maps to.
func (r *Repository[T]) Table() string { return r.table }

// WithTx returns a copy of the repository running on tx.
func (r *Repository[T]) WithTx(tx *gorm.DB) *Repository[T] {
	return &Repository[T]{db: tx, table: r.table}
}

// Transaction runs fn inside a single database transaction.
func (r *Repository[T]) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	defer metrics.ObserveDBQuery(r.table, "tx", time.Now())
	return r.db.WithContext(ctx).Transaction(fn)
}

// Create inserts v and populates its generated primary key.
func (r *Repository[T]) Create(ctx context.Context, v *T) error {
	defer metrics.ObserveDBQuery(r.table, "insert", time.Now())
	return r.db.WithContext(ctx).Create(v).Error
}

// Read fetches the row with the given primary key.
func (r *Repository[T]) Read(ctx context.Context, id uint) (*T, error) {
	defer metrics.ObserveDBQuery(r.table, "select", time.Now())

	var v T
	if err := r.db.WithContext(ctx).First(&v, id).Error; err != nil {
		return nil, NotFound(err)
	}
	return &v, nil
}

// ReadAll returns every row matching where, ordered by id. Keys in where are
// column names; camelCase keys are converted to snake_case.
func (r *Repository[T]) ReadAll(ctx context.Context, where map[string]any) ([]T, error) {
	defer metrics.ObserveDBQuery(r.table, "select", time.Now())

	q := r.db.WithContext(ctx).Order("id")
	if len(where) > 0 {
		q = q.Where(casing.ConvertMap(where, casing.CamelToSnake))
	}

	out := []T{}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Update writes only the supplied columns, then reloads v from the stored row.
// An empty changes map just reloads.
func (r *Repository[T]) Update(ctx context.Context, v *T, changes map[string]any) error {
	defer metrics.ObserveDBQuery(r.table, "update", time.Now())

	db := r.db.WithContext(ctx)
	if len(changes) > 0 {
		if err := db.Model(v).Updates(changes).Error; err != nil {
			return err
		}
	}
	return NotFound(db.First(v).Error)
}

// Delete removes the row with the given id and reports whether exactly one
// row was removed.
func (r *Repository[T]) Delete(ctx context.Context, id uint) (bool, error) {
	defer metrics.ObserveDBQuery(r.table, "delete", time.Now())

	res := r.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// NotFound maps gorm.ErrRecordNotFound to ErrNotFound and passes every other
// error through.
func NotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
