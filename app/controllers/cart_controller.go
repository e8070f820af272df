package controllers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/kashvishop/storefront/app/models"
	"github.com/kashvishop/storefront/app/repositories"
	"github.com/kashvishop/storefront/pkg/ctx"
	"github.com/kashvishop/storefront/pkg/middleware"
	"github.com/kashvishop/storefront/pkg/orm"
	"github.com/kashvishop/storefront/pkg/response"
	"github.com/kashvishop/storefront/pkg/router"
)

type addItemInput struct {
	ProductID uint `json:"productId" validate:"required"`
	Quantity  int  `json:"quantity"  validate:"nullable,gte=1"`
}

type updateItemInput struct {
	Quantity int `json:"quantity"`
}

type checkoutInput struct {
	AddressID uint `json:"addressId" validate:"required"`
}

// CartController serves the logged-in customer's cart. Every route sits
// behind RequireLogin.
type CartController struct {
	carts     *repositories.CartRepository
	orders    *repositories.OrderRepository
	addresses *repositories.AddressRepository
}

func NewCartController(db *gorm.DB) *CartController {
	return &CartController{
		carts:     repositories.NewCartRepository(db),
		orders:    repositories.NewOrderRepository(db),
		addresses: repositories.NewAddressRepository(db),
	}
}

func (cc *CartController) RegisterRoutes(r *router.Router) {
	cart := r.Group("/cart", middleware.RequireLogin)
	cart.Get("/", "cart.show", ctx.Wrap(cc.Show))
	cart.Delete("/", "cart.clear", ctx.Wrap(cc.Clear))
	cart.Post("/items", "cart.items.store", ctx.Wrap(cc.AddItem))
	cart.Put("/items/:productId", "cart.items.update", ctx.Wrap(cc.UpdateItem))
	cart.Delete("/items/:productId", "cart.items.destroy", ctx.Wrap(cc.RemoveItem))
	cart.Post("/checkout", "cart.checkout", ctx.Wrap(cc.Checkout))
}

func (cc *CartController) Show(c *ctx.Context) {
	cart, ok := cc.cart(c, "retrieving cart")
	if !ok {
		return
	}
	cc.send(c, http.StatusOK, "Cart retrieved successfully", cart)
}

// AddItem adds quantity (default 1) of a product; adding a product already in
// the cart increases its line.
func (cc *CartController) AddItem(c *ctx.Context) {
	var in addItemInput
	if !c.Bind(&in) {
		return
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}

	cart, ok := cc.cart(c, "adding item to cart")
	if !ok {
		return
	}
	if err := cc.carts.AddItem(c.Context(), cart, in.ProductID, in.Quantity); err != nil {
		fail(c, err, "Product not found", "adding item to cart")
		return
	}

	c.Log().Info("cart item added", "cart_id", cart.ID, "product_id", in.ProductID, "quantity", in.Quantity)
	cc.send(c, http.StatusCreated, "Item added to cart successfully", cart)
}

// UpdateItem sets a line's quantity; zero or less removes it.
func (cc *CartController) UpdateItem(c *ctx.Context) {
	productID, err := c.UintParam("productId")
	if err != nil {
		c.FailView(http.StatusBadRequest, err.Error(), errorView)
		return
	}

	var in updateItemInput
	if !c.Bind(&in) {
		return
	}

	cart, ok := cc.existingCart(c, "updating cart item")
	if !ok {
		return
	}

	changed, err := cc.carts.UpdateItem(c.Context(), cart, productID, in.Quantity)
	if err != nil {
		fail(c, err, "Cart item not found", "updating cart item")
		return
	}
	if !changed {
		c.FailView(http.StatusNotFound, "Cart item not found", errorView)
		return
	}

	cc.send(c, http.StatusOK, "Cart item updated successfully", cart)
}

func (cc *CartController) RemoveItem(c *ctx.Context) {
	productID, err := c.UintParam("productId")
	if err != nil {
		c.FailView(http.StatusBadRequest, err.Error(), errorView)
		return
	}

	cart, ok := cc.existingCart(c, "removing cart item")
	if !ok {
		return
	}

	removed, err := cc.carts.RemoveItem(c.Context(), cart, productID)
	if err != nil {
		fail(c, err, "Cart item not found", "removing cart item")
		return
	}
	if !removed {
		c.FailView(http.StatusNotFound, "Cart item not found", errorView)
		return
	}

	c.Send(response.Response{
		StatusCode: http.StatusNoContent,
		Message:    "Cart item removed successfully",
	})
}

func (cc *CartController) Clear(c *ctx.Context) {
	cart, ok := cc.cart(c, "clearing cart")
	if !ok {
		return
	}
	if _, err := cc.carts.Clear(c.Context(), cart); err != nil {
		fail(c, err, "Cart not found", "clearing cart")
		return
	}
	cc.send(c, http.StatusOK, "Cart cleared successfully", cart)
}

// Checkout turns the cart into an incomplete order shipped to one of the
// customer's addresses.
func (cc *CartController) Checkout(c *ctx.Context) {
	var in checkoutInput
	if !c.Bind(&in) {
		return
	}

	cart, ok := cc.cart(c, "checking out")
	if !ok {
		return
	}

	address, err := cc.addresses.Read(c.Context(), in.AddressID)
	if err == nil && address.CustomerID != cart.CustomerID {
		err = orm.ErrNotFound
	}
	if err != nil {
		fail(c, err, "Address not found", "checking out")
		return
	}

	order, err := cc.orders.Checkout(c.Context(), cart, address.ID)
	if err != nil {
		fail(c, err, "Cart not found", "checking out")
		return
	}

	c.Log().Info("order placed", "order_id", order.ID, "total", order.TotalPrice.StringFixed(2))
	c.Send(response.Response{
		StatusCode: http.StatusCreated,
		Message:    "Order created successfully!",
		Redirect:   path("/orders", order.ID),
		Payload:    response.Payload{"order": order},
	})
}

// cart returns the session customer's cart, creating it on first use.
func (cc *CartController) cart(c *ctx.Context, action string) (*models.Cart, bool) {
	customerID, _ := loggedIn(c)
	cart, err := cc.carts.ReadOrCreate(c.Context(), customerID)
	if err != nil {
		fail(c, err, "Cart not found", action)
		return nil, false
	}
	return cart, true
}

// existingCart is cart without the create: editing lines of a cart that was
// never opened is a 404.
func (cc *CartController) existingCart(c *ctx.Context, action string) (*models.Cart, bool) {
	customerID, _ := loggedIn(c)
	cart, err := cc.carts.ReadByCustomerID(c.Context(), customerID)
	if err != nil {
		fail(c, err, "Cart not found", action)
		return nil, false
	}
	return cart, true
}

func (cc *CartController) send(c *ctx.Context, status int, message string, cart *models.Cart) {
	c.Send(response.Response{
		StatusCode: status,
		Message:    message,
		Template:   "CartView",
		Payload: response.Payload{
			"cart":      cart,
			"items":     cart.Items,
			"itemCount": cart.ItemCount(),
			"total":     cart.Total().StringFixed(2),
		},
	})
}
