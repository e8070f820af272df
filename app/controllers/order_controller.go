package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kashvishop/storefront/app/models"
	"github.com/kashvishop/storefront/app/repositories"
	"github.com/kashvishop/storefront/pkg/casing"
	"github.com/kashvishop/storefront/pkg/ctx"
	"github.com/kashvishop/storefront/pkg/orm"
	"github.com/kashvishop/storefront/pkg/response"
	"github.com/kashvishop/storefront/pkg/router"
	"github.com/kashvishop/storefront/pkg/validate"
)

type orderInput struct {
	OrderDate  string          `json:"orderDate"  validate:"nullable,date"`
	TotalPrice decimal.Decimal `json:"totalPrice" validate:"required,gte=0"`
	CustomerID uint            `json:"customerId"`
	AddressID  uint            `json:"addressId"  validate:"required"`
}

// orderUpdate never touches completedAt; status only moves forward through
// MarkComplete.
type orderUpdate struct {
	OrderDate  *string          `json:"orderDate"  validate:"nullable,date"`
	TotalPrice *decimal.Decimal `json:"totalPrice" validate:"nullable,gte=0"`
	CustomerID *uint            `json:"customerId"`
	AddressID  *uint            `json:"addressId"`
	Status     *string          `json:"status"     validate:"nullable,in=incomplete,complete"`
}

type OrderController struct {
	orders    *repositories.OrderRepository
	customers *repositories.CustomerRepository
	addresses *repositories.AddressRepository
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{
		orders:    repositories.NewOrderRepository(db),
		customers: repositories.NewCustomerRepository(db),
		addresses: repositories.NewAddressRepository(db),
	}
}

func (oc *OrderController) RegisterRoutes(r *router.Router) {
	r.Get("/orders/new", "orders.create", ctx.Wrap(oc.New))
	r.Post("/orders", "orders.store", ctx.Wrap(oc.Create))
	r.Get("/orders", "orders.index", ctx.Wrap(oc.List))
	r.Get("/orders/:id", "orders.show", ctx.Wrap(oc.Show))
	r.Get("/orders/:id/edit", "orders.edit", ctx.Wrap(oc.Edit))
	r.Put("/orders/:id", "orders.update", ctx.Wrap(oc.Update))
	r.Put("/orders/:id/complete", "orders.complete", ctx.Wrap(oc.Complete))
	r.Delete("/orders/:id", "orders.destroy", ctx.Wrap(oc.Delete))
}

// New serves the order form; logged-in customers get their addresses.
func (oc *OrderController) New(c *ctx.Context) {
	payload := response.Payload{"title": "New Order"}

	if customerID, ok := loggedIn(c); ok {
		addresses, err := oc.addresses.ReadAllByCustomer(c.Context(), customerID)
		if err != nil {
			fail(c, err, "", "loading order form")
			return
		}
		payload["addresses"] = addresses
	}

	c.Send(response.Response{
		StatusCode: http.StatusOK,
		Message:    "New Order form",
		Template:   "NewOrderFormView",
		Payload:    payload,
	})
}

// Create places an order for customerId, defaulting to the session customer.
func (oc *OrderController) Create(c *ctx.Context) {
	var in orderInput
	if !c.Bind(&in) {
		return
	}

	if in.CustomerID == 0 {
		in.CustomerID, _ = loggedIn(c)
	}
	if in.CustomerID == 0 {
		c.Fail(http.StatusBadRequest, "The customerId field is required.")
		return
	}
	if _, err := oc.customers.Read(c.Context(), in.CustomerID); err != nil {
		fail(c, err, "Customer not found", "creating order")
		return
	}
	if !oc.ownedAddress(c, in.AddressID, in.CustomerID, "creating order") {
		return
	}

	order := &models.Order{
		TotalPrice: in.TotalPrice,
		CustomerID: in.CustomerID,
		AddressID:  in.AddressID,
	}
	if in.OrderDate != "" {
		order.OrderDate, _ = validate.ParseDate(in.OrderDate)
	}

	if err := oc.orders.Create(c.Context(), order); err != nil {
		fail(c, err, "Order not found", "creating order")
		return
	}

	c.Send(response.Response{
		StatusCode: http.StatusCreated,
		Message:    "Order created successfully!",
		Redirect:   path("/orders", order.ID),
		Payload:    response.Payload{"order": order},
	})
}

// List returns every order, or one customer's with ?customerId=.
func (oc *OrderController) List(c *ctx.Context) {
	customerID, filtered, ok := queryID(c, "customerId")
	if !ok {
		return
	}

	var (
		orders []models.Order
		err    error
	)
	if filtered {
		orders, err = oc.orders.ReadAllByCustomer(c.Context(), customerID)
	} else {
		orders, err = oc.orders.ReadAll(c.Context(), nil)
	}
	if err != nil {
		fail(c, err, "", "retrieving order list")
		return
	}

	c.Send(response.Response{
		StatusCode: http.StatusOK,
		Message:    "Order list retrieved successfully!",
		Template:   "OrderListView",
		Payload:    response.Payload{"orders": orders},
	})
}

func (oc *OrderController) Show(c *ctx.Context) {
	oc.show(c, "Order retrieved successfully!", "OrderView")
}

func (oc *OrderController) Edit(c *ctx.Context) {
	oc.show(c, "Edit Order form", "EditOrderFormView")
}

func (oc *OrderController) show(c *ctx.Context, message, template string) {
	orderID, ok := id(c)
	if !ok {
		return
	}

	order, err := oc.orders.Read(c.Context(), orderID)
	if err != nil {
		fail(c, err, "Order not found", "retrieving order")
		return
	}

	c.Send(response.Response{
		StatusCode: http.StatusOK,
		Message:    message,
		Template:   template,
		Payload:    response.Payload{"order": order},
	})
}

func (oc *OrderController) Update(c *ctx.Context) {
	orderID, ok := id(c)
	if !ok {
		return
	}

	var in orderUpdate
	if !c.Bind(&in) {
		return
	}

	order, err := oc.orders.Read(c.Context(), orderID)
	if err != nil {
		fail(c, err, "Order not found", "updating order")
		return
	}

	if in.Status != nil && models.OrderStatus(*in.Status) == models.OrderIncomplete && order.IsComplete() {
		c.FailView(http.StatusBadRequest, "Completed orders cannot be reopened.", errorView)
		return
	}
	customerID, addressID := order.CustomerID, order.AddressID
	if in.CustomerID != nil {
		if _, err := oc.customers.Read(c.Context(), *in.CustomerID); err != nil {
			fail(c, err, "Customer not found", "updating order")
			return
		}
		customerID = *in.CustomerID
	}
	if in.AddressID != nil {
		addressID = *in.AddressID
	}
	if in.CustomerID != nil || in.AddressID != nil {
		if !oc.ownedAddress(c, addressID, customerID, "updating order") {
			return
		}
	}

	changes := casing.Changes(in)
	delete(changes, "status")
	delete(changes, "order_date")
	if in.OrderDate != nil && *in.OrderDate != "" {
		changes["order_date"], _ = validate.ParseDate(*in.OrderDate)
	}

	if err := oc.orders.Update(c.Context(), order, changes); err != nil {
		fail(c, err, "Order not found", "updating order")
		return
	}
	if in.Status != nil && models.OrderStatus(*in.Status) == models.OrderComplete {
		if err := oc.orders.MarkComplete(c.Context(), order); err != nil {
			fail(c, err, "Order not found", "updating order")
			return
		}
	}

	c.Send(response.Response{
		StatusCode: http.StatusOK,
		Message:    "Order updated successfully!",
		Redirect:   path("/orders", order.ID),
		Payload:    response.Payload{"order": order},
	})
}

func (oc *OrderController) Complete(c *ctx.Context) {
	orderID, ok := id(c)
	if !ok {
		return
	}

	order, err := oc.orders.Read(c.Context(), orderID)
	if err != nil {
		fail(c, err, "Order not found", "marking order as complete")
		return
	}
	if err := oc.orders.MarkComplete(c.Context(), order); err != nil {
		fail(c, err, "Order not found", "marking order as complete")
		return
	}

	c.Send(response.Response{
		StatusCode: http.StatusOK,
		Message:    "Order marked as complete!",
		Redirect:   path("/orders", order.ID),
		Payload:    response.Payload{"order": order},
	})
}

func (oc *OrderController) Delete(c *ctx.Context) {
	orderID, ok := id(c)
	if !ok {
		return
	}

	deleted, err := oc.orders.Delete(c.Context(), orderID)
	if err != nil {
		fail(c, err, "Order not found", "deleting order")
		return
	}
	if !deleted {
		c.FailView(http.StatusNotFound, "Order not found", errorView)
		return
	}

	c.Send(response.Response{
		StatusCode: http.StatusNoContent,
		Message:    "Order deleted successfully!",
		Redirect:   "/orders",
	})
}

// ownedAddress requires addressID to exist and belong to customerID,
// answering 404 otherwise.
func (oc *OrderController) ownedAddress(c *ctx.Context, addressID, customerID uint, action string) bool {
	address, err := oc.addresses.Read(c.Context(), addressID)
	if err == nil && address.CustomerID != customerID {
		err = orm.ErrNotFound
	}
	if err != nil {
		fail(c, err, "Address not found", action)
		return false
	}
	return true
}
