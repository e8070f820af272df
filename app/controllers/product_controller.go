package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kashvishop/storefront/app/models"
	"github.com/kashvishop/storefront/app/repositories"
	"github.com/kashvishop/storefront/pkg/casing"
	"github.com/kashvishop/storefront/pkg/ctx"
	"github.com/kashvishop/storefront/pkg/response"
	"github.com/kashvishop/storefront/pkg/router"
)

type productInput struct {
	Title       string          `json:"title"       validate:"required,max=255"`
	Description string          `json:"description"`
	URL         string          `json:"url"         validate:"nullable,url,max=1024"`
	Price       decimal.Decimal `json:"price"       validate:"required,gte=0"`
	Inventory   int             `json:"inventory"   validate:"gte=0"`
	CategoryID  *uint           `json:"categoryId"`
}

type productUpdate struct {
	Title       *string          `json:"title"       validate:"nullable,max=255"`
	Description *string          `json:"description"`
	URL         *string          `json:"url"         validate:"nullable,url,max=1024"`
	Price       *decimal.Decimal `json:"price"       validate:"nullable,gte=0"`
	Inventory   *int             `json:"inventory"   validate:"nullable,gte=0"`
	CategoryID  *uint            `json:"categoryId"` // 0 uncategorises
}

type ProductController struct {
	products   *repositories.ProductRepository
	categories *repositories.CategoryRepository
}

func NewProductController(db *gorm.DB) *ProductController {
	return &ProductController{
		products:   repositories.NewProductRepository(db),
		categories: repositories.NewCategoryRepository(db),
	}
}

// RegisterRoutes mounts /products and the singular /product aliases the
// storefront pages link to.
func (pc *ProductController) RegisterRoutes(r *router.Router) {
	r.Post("/products", "products.store", ctx.Wrap(pc.Create))
	r.Get("/products", "products.index", ctx.Wrap(pc.List))
	r.Get("/product", "product.index", ctx.Wrap(pc.List))
	r.Get("/products/new", "products.create", ctx.Wrap(pc.New))
	r.Get("/products/:id", "products.show", ctx.Wrap(pc.Show))
	r.Get("/product/:id", "product.show", ctx.Wrap(pc.Show))
	r.Get("/products/:id/edit", "products.edit", ctx.Wrap(pc.Edit))
	r.Put("/products/:id", "products.update", ctx.Wrap(pc.Update))
	r.Delete("/products/:id", "products.destroy", ctx.Wrap(pc.Delete))
}

func (pc *ProductController) Create(c *ctx.Context) {
	var in productInput
	if !c.Bind(&in) {
		return
	}
	if !pc.categoryExists(c, in.CategoryID, "creating product") {
		return
	}

	product := &models.Product{
		Title:       in.Title,
		Description: in.Description,
		URL:         in.URL,
		Price:       in.Price,
		Inventory:   in.Inventory,
		CategoryID:  in.CategoryID,
	}
	if err := pc.products.Create(c.Context(), product); err != nil {
		fail(c, err, "Product not found", "creating product")
		return
	}

	c.Send(response.Response{
		StatusCode: http.StatusCreated,
		Message:    "Product created successfully",
		Redirect:   path("/products", product.ID),
		Payload:    response.Payload{"product": product},
	})
}

// List returns every product, or one category's with ?categoryId=.
func (pc *ProductController) List(c *ctx.Context) {
	categoryID, filtered, ok := queryID(c, "categoryId")
	if !ok {
		return
	}

	var (
		products []models.Product
		err      error
	)
	if filtered {
		products, err = pc.products.ReadAllByCategory(c.Context(), categoryID)
	} else {
		products, err = pc.products.ReadAll(c.Context(), nil)
	}
	if err != nil {
		fail(c, err, "", "retrieving products")
		return
	}

	_, isLoggedIn := loggedIn(c)
	c.Send(response.Response{
		StatusCode: http.StatusOK,
		Message:    "Products retrieved successfully",
		Template:   "ProductList",
		Payload:    response.Payload{"products": products, "isLoggedIn": isLoggedIn},
	})
}

// New serves the empty product form with the category choices.
func (pc *ProductController) New(c *ctx.Context) {
	categories, err := pc.categories.ReadAll(c.Context(), nil)
	if err != nil {
		fail(c, err, "", "loading product form")
		return
	}

	c.Send(response.Response{
		StatusCode: http.StatusOK,
		Message:    "New Product form",
		Template:   "NewProductFormView",
		Payload:    response.Payload{"title": "New Product", "categories": categories},
	})
}

func (pc *ProductController) Show(c *ctx.Context) {
	pc.show(c, "Product retrieved successfully", "ProductView")
}

func (pc *ProductController) Edit(c *ctx.Context) {
	pc.show(c, "Edit Product form", "EditProductFormView")
}

func (pc *ProductController) show(c *ctx.Context, message, template string) {
	productID, ok := id(c)
	if !ok {
		return
	}

	product, err := pc.products.Read(c.Context(), productID)
	if err != nil {
		fail(c, err, "Product not found", "retrieving product")
		return
	}

	c.Send(response.Response{
		StatusCode: http.StatusOK,
		Message:    message,
		Template:   template,
		Payload:    response.Payload{"product": product},
	})
}

func (pc *ProductController) Update(c *ctx.Context) {
	productID, ok := id(c)
	if !ok {
		return
	}

	var in productUpdate
	if !c.Bind(&in) {
		return
	}
	uncategorise := in.CategoryID != nil && *in.CategoryID == 0
	if !uncategorise && !pc.categoryExists(c, in.CategoryID, "updating product") {
		return
	}

	product, err := pc.products.Read(c.Context(), productID)
	if err != nil {
		fail(c, err, "Product not found", "updating product")
		return
	}

	changes := casing.Changes(in)
	if uncategorise {
		changes["category_id"] = nil
	}
	if err := pc.products.Update(c.Context(), product, changes); err != nil {
		fail(c, err, "Product not found", "updating product")
		return
	}

	c.Send(response.Response{
		StatusCode: http.StatusOK,
		Message:    "Product updated successfully",
		Redirect:   path("/products", product.ID),
		Payload:    response.Payload{"product": product},
	})
}

func (pc *ProductController) Delete(c *ctx.Context) {
	productID, ok := id(c)
	if !ok {
		return
	}

	deleted, err := pc.products.Delete(c.Context(), productID)
	if err != nil {
		fail(c, err, "Product not found", "deleting product")
		return
	}
	if !deleted {
		c.FailView(http.StatusNotFound, "Product not found", errorView)
		return
	}

	c.Send(response.Response{
		StatusCode: http.StatusNoContent,
		Message:    "Product deleted successfully",
		Redirect:   "/products",
	})
}

// categoryExists answers 404 for a categoryId that names no category.
func (pc *ProductController) categoryExists(c *ctx.Context, categoryID *uint, action string) bool {
	if categoryID == nil {
		return true
	}
	if _, err := pc.categories.Read(c.Context(), *categoryID); err != nil {
		fail(c, err, "Category not found", action)
		return false
	}
	return true
}
