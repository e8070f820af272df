package seeders

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kashvishop/storefront/app/models"
	"github.com/kashvishop/storefront/app/repositories"
	"github.com/kashvishop/storefront/pkg/orm"
)

func init() {
	Register("admin", SeedAdmin)
	Register("catalog", SeedCatalog)
}

type seedProduct struct {
	title, description, url, price string
	inventory                       int
}

var catalog = map[string][]seedProduct{
	"electronics": {
		{"Wireless Headphones", "Over-ear, 30h battery.", "https://images.example.com/headphones.jpg", "89.99", 25},
		{"USB-C Charger 65W", "GaN charger with two ports.", "https://images.example.com/charger.jpg", "39.50", 60},
	},
	"jewelery": {
		{"Silver Ring", "Sterling silver, adjustable.", "https://images.example.com/ring.jpg", "24.00", 15},
	},
	"men's clothing": {
		{"Cotton T-Shirt", "Plain crew neck.", "https://images.example.com/tshirt.jpg", "12.99", 100},
	},
	"women's clothing": {
		{"Rain Jacket", "Lightweight and packable.", "https://images.example.com/jacket.jpg", "59.00", 30},
	},
}

// SeedAdmin creates the admin@example.com account once.
func SeedAdmin(ctx context.Context, db *gorm.DB) error {
	customers := repositories.NewCustomerRepository(db)

	_, err := customers.FindByEmail(ctx, "admin@example.com")
	if err == nil {
		return nil
	}
	if !errors.Is(err, orm.ErrNotFound) {
		return err
	}

	return customers.Create(ctx, &models.Customer{
		Email:       "admin@example.com",
		FirstName:   "Store",
		LastName:    "Admin",
		DateOfBirth: time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC),
		Password:    "admin",
		UserName:    "admin",
		IsAdmin:     true,
	})
}

// SeedCatalog creates the demo categories and any missing demo products.
func SeedCatalog(ctx context.Context, db *gorm.DB) error {
	categories := repositories.NewCategoryRepository(db)
	products := repositories.NewProductRepository(db)

	for name, items := range catalog {
		category, err := categories.FirstOrCreate(ctx, name)
		if err != nil {
			return err
		}

		for _, item := range items {
			if _, err := products.FindByTitle(ctx, item.title); err == nil {
				continue
			} else if !errors.Is(err, orm.ErrNotFound) {
				return err
			}

			p := &models.Product{
				Title:       item.title,
				Description: item.description,
				URL:         item.url,
				Price:       decimal.RequireFromString(item.price),
				Inventory:   item.inventory,
				CategoryID:  &category.ID,
			}
			if err := products.Create(ctx, p); err != nil {
				return err
			}
		}
	}
	return nil
}
