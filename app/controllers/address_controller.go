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
)

type addressInput struct {
	StreetNumber int    `json:"streetNumber" validate:"required,gte=1"`
	CivicNumber  *int   `json:"civicNumber"  validate:"nullable,gte=1"`
	StreetName   string `json:"streetName"   validate:"required,max=255"`
	City         string `json:"city"         validate:"required,max=100"`
	Province     string `json:"province"     validate:"required,max=100"`
	Country      string `json:"country"      validate:"required,max=100"`
	PostalCode   string `json:"postalCode"   validate:"required,max=20"`
	CustomerID   uint   `json:"customerId"`
}

type addressUpdate struct {
	StreetNumber *int    `json:"streetNumber" validate:"nullable,gte=1"`
	CivicNumber  *int    `json:"civicNumber"  validate:"nullable,gte=1"`
	StreetName   *string `json:"streetName"   validate:"nullable,max=255"`
	City         *string `json:"city"         validate:"nullable,max=100"`
	Province     *string `json:"province"     validate:"nullable,max=100"`
	Country      *string `json:"country"      validate:"nullable,max=100"`
	PostalCode   *string `json:"postalCode"   validate:"nullable,max=20"`
}

type AddressController struct {
	addresses *repositories.AddressRepository
	customers *repositories.CustomerRepository
}

func NewAddressController(db *gorm.DB) *AddressController {
	return &AddressController{
		addresses: repositories.NewAddressRepository(db),
		customers: repositories.NewCustomerRepository(db),
	}
}

func (ac *AddressController) RegisterRoutes(r *router.Router) {
	r.Post("/addresses", "addresses.store", ctx.Wrap(ac.Create))
	r.Get("/addresses", "addresses.index", ctx.Wrap(ac.List))
	r.Get("/addresses/:id", "addresses.show", ctx.Wrap(ac.Show))
	r.Put("/addresses/:id", "addresses.update", ctx.Wrap(ac.Update))
	r.Delete("/addresses/:id", "addresses.destroy", ctx.Wrap(ac.Delete))
}

// Create files the address under the logged-in customer, or under the
// customerId from the body when nobody is logged in.
func (ac *AddressController) Create(c *ctx.Context) {
	var in addressInput
	if !c.Bind(&in) {
		return
	}

	owner, ok := loggedIn(c)
	if !ok {
		owner = in.CustomerID
	}
	if owner == 0 {
		c.Fail(http.StatusBadRequest, "The customerId field is required.")
		return
	}
	if _, err := ac.customers.Read(c.Context(), owner); err != nil {
		fail(c, err, "Customer not found", "creating address")
		return
	}

	address := &models.Address{
		StreetNumber: in.StreetNumber,
		CivicNumber:  in.CivicNumber,
		StreetName:   in.StreetName,
		City:         in.City,
		Province:     in.Province,
		Country:      in.Country,
		PostalCode:   in.PostalCode,
		CustomerID:   owner,
	}
	if err := ac.addresses.Create(c.Context(), address); err != nil {
		fail(c, err, "Address not found", "creating address")
		return
	}

	c.Send(response.Response{
		StatusCode: http.StatusCreated,
		Message:    "Address created successfully!",
		Redirect:   path("/addresses", address.ID),
		Payload:    response.Payload{"address": address},
	})
}

// List shows ?customerId='s addresses, else the logged-in customer's.
func (ac *AddressController) List(c *ctx.Context) {
	customerID, present, ok := queryID(c, "customerId")
	if !ok {
		return
	}
	if !present {
		if customerID, ok = loggedIn(c); !ok {
			c.Send(response.Response{
				StatusCode: http.StatusUnauthorized,
				Message:    "Unauthorized.",
				Redirect:   "/login",
			})
			return
		}
	}

	addresses, err := ac.addresses.ReadAllByCustomer(c.Context(), customerID)
	if err != nil {
		fail(c, err, "", "retrieving addresses")
		return
	}

	c.Send(response.Response{
		StatusCode: http.StatusOK,
		Message:    "Addresses retrieved successfully!",
		Template:   "AddressListView",
		Payload:    response.Payload{"addresses": addresses},
	})
}

func (ac *AddressController) Show(c *ctx.Context) {
	addressID, ok := id(c)
	if !ok {
		return
	}

	address, err := ac.addresses.Read(c.Context(), addressID)
	if err != nil {
		fail(c, err, "Address not found", "retrieving address")
		return
	}

	c.Send(response.Response{
		StatusCode: http.StatusOK,
		Message:    "Address retrieved successfully!",
		Template:   "AddressView",
		Payload:    response.Payload{"address": address},
	})
}

func (ac *AddressController) Update(c *ctx.Context) {
	addressID, ok := id(c)
	if !ok {
		return
	}

	var in addressUpdate
	if !c.Bind(&in) {
		return
	}

	address, err := ac.addresses.Read(c.Context(), addressID)
	if err != nil {
		fail(c, err, "Address not found", "updating address")
		return
	}
	if err := ac.addresses.Update(c.Context(), address, casing.Changes(in)); err != nil {
		fail(c, err, "Address not found", "updating address")
		return
	}

	c.Send(response.Response{
		StatusCode: http.StatusOK,
		Message:    "Address updated successfully!",
		Redirect:   path("/addresses", address.ID),
		Payload:    response.Payload{"address": address},
	})
}

func (ac *AddressController) Delete(c *ctx.Context) {
	addressID, ok := id(c)
	if !ok {
		return
	}

	deleted, err := ac.addresses.Delete(c.Context(), addressID)
	if err != nil {
		fail(c, err, "Address not found", "deleting address")
		return
	}
	if !deleted {
		c.FailView(http.StatusNotFound, "Address not found", errorView)
		return
	}

	c.Send(response.Response{
		StatusCode: http.StatusOK,
		Message:    "Address deleted successfully!",
		Redirect:   "/addresses",
	})
}
