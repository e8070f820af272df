// Package services holds use cases that span several repositories or reach
// outside the database.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kashvishop/storefront/app/models"
	"github.com/kashvishop/storefront/app/repositories"
	"github.com/kashvishop/storefront/pkg/http"
	"github.com/kashvishop/storefront/pkg/logger"
	"github.com/kashvishop/storefront/pkg/orm"
)

// CatalogItem is one product as served by fakestoreapi-style catalog APIs.
type CatalogItem struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
}

// ImportResult counts what an import did.
type ImportResult struct {
	Fetched    int
	Created    int
	Skipped    int
	Categories int // distinct names, found or created
}

// CatalogImporter pulls products from a remote catalog into the store.
type CatalogImporter struct {
	URL       string
	Inventory int

	categories *repositories.CategoryRepository
	products   *repositories.ProductRepository
}

// NewCatalogImporter imports from url; new products get inventory units.
func NewCatalogImporter(db *gorm.DB, url string, inventory int) *CatalogImporter {
	return &CatalogImporter{
		URL:        url,
		Inventory:  inventory,
		categories: repositories.NewCategoryRepository(db),
		products:   repositories.NewProductRepository(db),
	}
}

// Fetch downloads the remote catalog.
func (c *CatalogImporter) Fetch(ctx context.Context) ([]CatalogItem, error) {
	resp, err := http.Get(c.URL).
		Context(ctx).
		Timeout(15 * time.Second).
		Retry(3, time.Second).
		Send()
	if err != nil {
		return nil, err
	}
	if err := resp.Throw(); err != nil {
		return nil, err
	}

	var items []CatalogItem
	if err := resp.JSON(&items); err != nil {
		return nil, err
	}
	return items, nil
}

// Import fetches the catalog and creates every product whose title is not
// already present, creating categories on the way.
func (c *CatalogImporter) Import(ctx context.Context) (ImportResult, error) {
	items, err := c.Fetch(ctx)
	if err != nil {
		return ImportResult{}, fmt.Errorf("catalog: fetch %s: %w", c.URL, err)
	}

	res := ImportResult{Fetched: len(items)}
	seen := map[string]uint{}

	for _, item := range items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			res.Skipped++
			continue
		}

		if _, err := c.products.FindByTitle(ctx, title); err == nil {
			res.Skipped++
			continue
		} else if !errors.Is(err, orm.ErrNotFound) {
			return res, err
		}

		product := &models.Product{
			Title:       title,
			Description: item.Description,
			URL:         item.Image,
			Price:       item.Price.Round(2),
			Inventory:   c.Inventory,
		}

		if name := strings.TrimSpace(item.Category); name != "" {
			id, ok := seen[name]
			if !ok {
				category, err := c.categories.FirstOrCreate(ctx, name)
				if err != nil {
					return res, err
				}
				id = category.ID
				seen[name] = id
				res.Categories++
			}
			product.CategoryID = &id
		}

		if err := c.products.Create(ctx, product); err != nil {
			return res, fmt.Errorf("catalog: create %q: %w", title, err)
		}
		res.Created++
	}

	logger.WithCtx(ctx).Info("catalog: import done",
		"url", c.URL, "fetched", res.Fetched, "created", res.Created, "skipped", res.Skipped)
	return res, nil
}
