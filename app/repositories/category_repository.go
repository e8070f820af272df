package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/kashvishop/storefront/app/models"
	"github.com/kashvishop/storefront/pkg/metrics"
	"github.com/kashvishop/storefront/pkg/orm"
)

type CategoryRepository struct {
	*orm.Repository[models.Category]
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{Repository: orm.NewRepository[models.Category](db)}
}

// FirstOrCreate returns the category called name, creating it when missing.
func (r *CategoryRepository) FirstOrCreate(ctx context.Context, name string) (*models.Category, error) {
	defer metrics.ObserveDBQuery(r.Table(), "upsert", time.Now())

	c := models.Category{Name: name}
	if err := r.DB(ctx).Where(models.Category{Name: name}).FirstOrCreate(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts c unless another category already uses its name.
func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) error {
	if err := r.nameFree(ctx, c.Name, 0); err != nil {
		return err
	}
	return duplicateName(r.Repository.Create(ctx, c))
}

// Update renames or otherwise changes c, keeping names unique.
func (r *CategoryRepository) Update(ctx context.Context, c *models.Category, changes map[string]any) error {
	if name, ok := changes["name"].(string); ok {
		if err := r.nameFree(ctx, name, c.ID); err != nil {
			return err
		}
	}
	return duplicateName(r.Repository.Update(ctx, c, changes))
}

func (r *CategoryRepository) nameFree(ctx context.Context, name string, exceptID uint) error {
	defer metrics.ObserveDBQuery(r.Table(), "select", time.Now())

	var n int64
	q := r.DB(ctx).Model(&models.Category{}).Where("name = ?", name)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrDuplicateCategory
	}
	return nil
}

func duplicateName(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateCategory
	}
	return err
}
