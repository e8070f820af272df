package controllers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/kashvishop/storefront/app/models"
	"github.com/kashvishop/storefront/app/repositories"
	"github.com/kashvishop/storefront/pkg/casing"
	"github.com/kashvishop/storefront/pkg/ctx"
	"github.com/kashvishop/storefront/pkg/response"
	"github.com/kashvishop/storefront/pkg/router"
	"github.com/kashvishop/storefront/pkg/validate"
)

type customerInput struct {
	Email       string `json:"email"       validate:"required,email,max=255"`
	FirstName   string `json:"firstName"   validate:"required,max=100"`
	LastName    string `json:"lastName"    validate:"required,max=100"`
	DateOfBirth string `json:"dateOfBirth" validate:"required,date"`
	PhoneNumber string `json:"phoneNumber" validate:"nullable,max=50"`
	Password    string `json:"password"    validate:"required,max=255"`
	UserName    string `json:"userName"    validate:"nullable,max=100"`
	IsAdmin     bool   `json:"isAdmin"`
}

func (in customerInput) model() *models.Customer {
	dob, _ := validate.ParseDate(in.DateOfBirth)
	return &models.Customer{
		Email:       in.Email,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		DateOfBirth: dob,
		PhoneNumber: in.PhoneNumber,
		Password:    in.Password,
		UserName:    in.UserName,
		IsAdmin:     in.IsAdmin,
	}
}

// customerUpdate carries only the fields a client sent.
type customerUpdate struct {
	Email       *string `json:"email"       validate:"nullable,email,max=255"`
	FirstName   *string `json:"firstName"   validate:"nullable,max=100"`
	LastName    *string `json:"lastName"    validate:"nullable,max=100"`
	DateOfBirth *string `json:"dateOfBirth" validate:"nullable,date"`
	PhoneNumber *string `json:"phoneNumber" validate:"nullable,max=50"`
	Password    *string `json:"password"    validate:"nullable,max=255"`
	UserName    *string `json:"userName"    validate:"nullable,max=100"`
}

func (in customerUpdate) changes() map[string]any {
	changes := casing.Changes(in)
	if in.DateOfBirth != nil {
		dob, _ := validate.ParseDate(*in.DateOfBirth)
		changes["date_of_birth"] = dob
	}
	return changes
}

type CustomerController struct {
	customers *repositories.CustomerRepository
}

func NewCustomerController(db *gorm.DB) *CustomerController {
	return &CustomerController{customers: repositories.NewCustomerRepository(db)}
}

func (cc *CustomerController) RegisterRoutes(r *router.Router) {
	r.Post("/customers", "customers.store", ctx.Wrap(cc.Create))
	r.Get("/customers", "customers.index", ctx.Wrap(cc.List))
	r.Get("/customers/:id", "customers.show", ctx.Wrap(cc.Show))
	r.Get("/customers/:id/edit", "customers.edit", ctx.Wrap(cc.Edit))
	r.Put("/customers/:id", "customers.update", ctx.Wrap(cc.Update))
	r.Delete("/customers/:id", "customers.destroy", ctx.Wrap(cc.Delete))
}

// Create registers a customer and sends the browser to the login page.
func (cc *CustomerController) Create(c *ctx.Context) {
	var in customerInput
	if !c.Bind(&in) {
		return
	}

	customer := in.model()
	if err := cc.customers.Create(c.Context(), customer); err != nil {
		fail(c, err, "Customer not found", "creating customer")
		return
	}

	c.Log().Info("customer registered", "customer_id", customer.ID)
	c.Send(response.Response{
		StatusCode: http.StatusCreated,
		Message:    "Customer created successfully!",
		Redirect:   "/login",
		Payload:    response.Payload{"customer": customer},
	})
}

func (cc *CustomerController) List(c *ctx.Context) {
	customers, err := cc.customers.ReadAll(c.Context(), nil)
	if err != nil {
		fail(c, err, "", "retrieving customers")
		return
	}

	c.Send(response.Response{
		StatusCode: http.StatusOK,
		Message:    "Customers list",
		Template:   "CustomerListView",
		Payload:    response.Payload{"customers": customers},
	})
}

func (cc *CustomerController) Show(c *ctx.Context) {
	cc.show(c, "Customer retrieved successfully!", "CustomerView")
}

func (cc *CustomerController) Edit(c *ctx.Context) {
	cc.show(c, "Edit customer form", "CustomerEditView")
}

func (cc *CustomerController) show(c *ctx.Context, message, template string) {
	customerID, ok := id(c)
	if !ok {
		return
	}

	customer, err := cc.customers.Read(c.Context(), customerID)
	if err != nil {
		fail(c, err, "Customer not found", "retrieving customer")
		return
	}

	c.Send(response.Response{
		StatusCode: http.StatusOK,
		Message:    message,
		Template:   template,
		Payload:    response.Payload{"customer": customer},
	})
}

func (cc *CustomerController) Update(c *ctx.Context) {
	customerID, ok := id(c)
	if !ok {
		return
	}

	var in customerUpdate
	if !c.Bind(&in) {
		return
	}

	customer, err := cc.customers.Read(c.Context(), customerID)
	if err != nil {
		fail(c, err, "Customer not found", "updating customer")
		return
	}

	if err := cc.customers.Update(c.Context(), customer, in.changes()); err != nil {
		fail(c, err, "Customer not found", "updating customer")
		return
	}

	c.Send(response.Response{
		StatusCode: http.StatusOK,
		Message:    "Customer updated successfully!",
		Template:   "CustomerView",
		Payload:    response.Payload{"customer": customer},
	})
}

// Delete removes the customer with their addresses, cart and orders. Deleting
// yourself ends your session.
func (cc *CustomerController) Delete(c *ctx.Context) {
	customerID, ok := id(c)
	if !ok {
		return
	}

	customer, err := cc.customers.Read(c.Context(), customerID)
	if err != nil {
		fail(c, err, "Customer not found", "deleting customer")
		return
	}

	if _, err := cc.customers.Delete(c.Context(), customerID); err != nil {
		fail(c, err, "Customer not found", "deleting customer")
		return
	}

	if current, ok := loggedIn(c); ok && current == customerID {
		c.Session().Destroy()
	}

	c.Send(response.Response{
		StatusCode: http.StatusOK,
		Message:    "Customer deleted successfully!",
		Redirect:   "/",
		Payload:    response.Payload{"customer": customer},
	})
}

