package routes

import (
	"gorm.io/gorm"

	"github.com/kashvishop/storefront/app/controllers"
	"github.com/kashvishop/storefront/pkg/router"
)

type registrar interface {
	RegisterRoutes(r *router.Router)
}

// Register mounts every storefront controller on r.
func Register(r *router.Router, db *gorm.DB) {
	for _, c := range []registrar{
		controllers.NewHomeController(db),
		controllers.NewAuthController(db),
		controllers.NewCustomerController(db),
		controllers.NewAddressController(db),
		controllers.NewCategoryController(db),
		controllers.NewProductController(db),
		controllers.NewCartController(db),
		controllers.NewOrderController(db),
	} {
		c.RegisterRoutes(r)
	}
}
