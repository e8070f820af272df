package controllers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/kashvishop/storefront/app/models"
	"github.com/kashvishop/storefront/app/repositories"
	"github.com/kashvishop/storefront/pkg/ctx"
	"github.com/kashvishop/storefront/pkg/response"
	"github.com/kashvishop/storefront/pkg/router"
)

type categoryInput struct {
	Name string `json:"name" validate:"required,max=100"`
}

type CategoryController struct {
	categories *repositories.CategoryRepository
	products   *repositories.ProductRepository
}

func NewCategoryController(db *gorm.DB) *CategoryController {
	return &CategoryController{
		categories: repositories.NewCategoryRepository(db),
		products:   repositories.NewProductRepository(db),
	}
}

func (cc *CategoryController) RegisterRoutes(r *router.Router) {
	r.Post("/categories", "categories.store", ctx.Wrap(cc.Create))
	r.Get("/categories", "categories.index", ctx.Wrap(cc.List))
	r.Get("/categories/:id", "categories.show", ctx.Wrap(cc.Show))
	r.Put("/categories/:id", "categories.update", ctx.Wrap(cc.Update))
	r.Delete("/categories/:id", "categories.destroy", ctx.Wrap(cc.Delete))
}

func (cc *CategoryController) Create(c *ctx.Context) {
	var in categoryInput
	if !c.Bind(&in) {
		return
	}

	category := &models.Category{Name: in.Name}
	if err := cc.categories.Create(c.Context(), category); err != nil {
		fail(c, err, "Category not found", "creating category")
		return
	}

	c.Send(response.Response{
		StatusCode: http.StatusCreated,
		Message:    "Category created successfully!",
		Redirect:   "/categories",
		Payload:    response.Payload{"category": category},
	})
}

func (cc *CategoryController) List(c *ctx.Context) {
	categories, err := cc.categories.ReadAll(c.Context(), nil)
	if err != nil {
		fail(c, err, "", "fetching category list")
		return
	}

	c.Send(response.Response{
		StatusCode: http.StatusOK,
		Message:    "Categories retrieved successfully!",
		Template:   "CategoryListView",
		Payload:    response.Payload{"categories": categories},
	})
}

// Show returns the category together with its products.
func (cc *CategoryController) Show(c *ctx.Context) {
	categoryID, ok := id(c)
	if !ok {
		return
	}

	category, err := cc.categories.Read(c.Context(), categoryID)
	if err != nil {
		fail(c, err, "Category not found", "fetching category")
		return
	}

	products, err := cc.products.ReadAllByCategory(c.Context(), categoryID)
	if err != nil {
		fail(c, err, "Category not found", "fetching category")
		return
	}

	c.Send(response.Response{
		StatusCode: http.StatusOK,
		Message:    "Category retrieved successfully!",
		Template:   "CategoryView",
		Payload:    response.Payload{"category": category, "products": products},
	})
}

func (cc *CategoryController) Update(c *ctx.Context) {
	categoryID, ok := id(c)
	if !ok {
		return
	}

	var in categoryInput
	if !c.Bind(&in) {
		return
	}

	category, err := cc.categories.Read(c.Context(), categoryID)
	if err != nil {
		fail(c, err, "Category not found", "updating category")
		return
	}
	if err := cc.categories.Update(c.Context(), category, map[string]any{"name": in.Name}); err != nil {
		fail(c, err, "Category not found", "updating category")
		return
	}

	c.Send(response.Response{
		StatusCode: http.StatusOK,
		Message:    "Category updated successfully!",
		Redirect:   path("/categories", category.ID),
		Payload:    response.Payload{"category": category},
	})
}

// Delete removes the category; its products stay, uncategorised.
func (cc *CategoryController) Delete(c *ctx.Context) {
	categoryID, ok := id(c)
	if !ok {
		return
	}

	deleted, err := cc.categories.Delete(c.Context(), categoryID)
	if err != nil {
		fail(c, err, "Category not found", "deleting category")
		return
	}
	if !deleted {
		c.FailView(http.StatusNotFound, "Category not found", errorView)
		return
	}

	c.Send(response.Response{
		StatusCode: http.StatusOK,
		Message:    "Category deleted successfully!",
		Redirect:   "/categories",
	})
}
