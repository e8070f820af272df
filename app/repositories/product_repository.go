package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/kashvishop/storefront/app/models"
	"github.com/kashvishop/storefront/pkg/metrics"
	"github.com/kashvishop/storefront/pkg/orm"
)

type ProductRepository struct {
	*orm.Repository[models.Product]
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{Repository: orm.NewRepository[models.Product](db)}
}

// ReadAllByCategory lists the products filed under one category.
func (r *ProductRepository) ReadAllByCategory(ctx context.Context, categoryID uint) ([]models.Product, error) {
	return r.ReadAll(ctx, map[string]any{"categoryId": categoryID})
}

// FindByTitle returns the first product with exactly this title.
func (r *ProductRepository) FindByTitle(ctx context.Context, title string) (*models.Product, error) {
	defer metrics.ObserveDBQuery(r.Table(), "select", time.Now())

	var p models.Product
	if err := r.DB(ctx).Where("title = ?", title).Order("id").First(&p).Error; err != nil {
		return nil, orm.NotFound(err)
	}
	return &p, nil
}
