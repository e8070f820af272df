package controllers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/kashvishop/storefront/app/repositories"
	"github.com/kashvishop/storefront/pkg/ctx"
	"github.com/kashvishop/storefront/pkg/response"
	"github.com/kashvishop/storefront/pkg/router"
)

type HomeController struct {
	categories *repositories.CategoryRepository
	products   *repositories.ProductRepository
}

func NewHomeController(db *gorm.DB) *HomeController {
	return &HomeController{
		categories: repositories.NewCategoryRepository(db),
		products:   repositories.NewProductRepository(db),
	}
}

func (hc *HomeController) RegisterRoutes(r *router.Router) {
	r.Get("/", "home", ctx.Wrap(hc.Index))
}

// Index lists the whole catalog for the landing page.
func (hc *HomeController) Index(c *ctx.Context) {
	categories, err := hc.categories.ReadAll(c.Context(), nil)
	if err != nil {
		fail(c, err, "", "loading home page")
		return
	}
	products, err := hc.products.ReadAll(c.Context(), nil)
	if err != nil {
		fail(c, err, "", "loading home page")
		return
	}

	_, isLoggedIn := loggedIn(c)
	c.Send(response.Response{
		StatusCode: http.StatusOK,
		Message:    "Welcome",
		Template:   "HomeView",
		Payload: response.Payload{
			"categories": categories,
			"products":   products,
			"isLoggedIn": isLoggedIn,
		},
	})
}
