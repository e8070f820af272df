package repositories

import "errors"

var (
	// ErrDuplicateEmail is returned when a customer email is already taken.
	ErrDuplicateEmail = errors.New("User with this email already exists.")

	// ErrDuplicateCategory is returned when a category name is already taken.
	ErrDuplicateCategory = errors.New("Category already exists.")

	// ErrInvalidCredentials is returned by Login when no customer matches.
	ErrInvalidCredentials = errors.New("Invalid credentials.")

	// ErrEmptyCart is returned when checking out a cart with no lines.
	ErrEmptyCart = errors.New("Cart is empty.")

	// ErrAddressInUse is returned when deleting an address an order ships to.
	ErrAddressInUse = errors.New("Address is used by an order.")

	// ErrInvalidQuantity is returned when adding a non-positive quantity.
	ErrInvalidQuantity = errors.New("Quantity must be at least 1.")
)
