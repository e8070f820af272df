package validate_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/kashvishop/storefront/pkg/validate"
)

type customerInput struct {
	Email       string  `json:"email"       validate:"required,email"`
	FirstName   string  `json:"firstName"   validate:"required,max=100"`
	DateOfBirth string  `json:"dateOfBirth" validate:"required,date"`
	PhoneNumber string  `json:"phoneNumber" validate:"nullable,min=7"`
	Password    string  `json:"password"    validate:"required" msg:"Password is required."`
	Status      string  `json:"status"      validate:"nullable,in=incomplete,complete"`
	Nickname    *string `json:"nickname"    validate:"nullable,max=5"`
}

func valid() customerInput {
	return customerInput{
		Email:       "a@b.com",
		FirstName:   "J",
		DateOfBirth: "1990-05-01",
		Password:    "x",
	}
}

func TestValidInput(t *testing.T) {
	errs, order := validate.Struct(valid())
	assert.Empty(t, errs)
	assert.Equal(t, []string{"email", "firstName", "dateOfBirth", "phoneNumber", "password", "status", "nickname"}, order)
}

func TestRequiredAndFirst(t *testing.T) {
	errs, order := validate.Struct(customerInput{})
	assert.Equal(t, "The email field is required.", errs["email"])
	assert.Equal(t, "Password is required.", errs["password"])
	assert.Equal(t, "The email field is required.", errs.First(order))
	assert.NotContains(t, errs, "phoneNumber")
}

func TestFormatRules(t *testing.T) {
	in := valid()
	in.Email = "nope"
	in.DateOfBirth = "yesterday"
	in.Status = "shipped"

	errs, _ := validate.Struct(in)
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "dateOfBirth")
	assert.Equal(t, "The selected status is invalid.", errs["status"])
}

func TestInRuleAcceptsListedValues(t *testing.T) {
	in := valid()
	in.Status = "complete"
	assert.True(t, validate.Valid(in))
}

func TestPointerFields(t *testing.T) {
	in := valid()
	long := "abcdefgh"
	in.Nickname = &long

	errs, _ := validate.Struct(in)
	assert.Contains(t, errs, "nickname")

	short := "abc"
	in.Nickname = &short
	assert.True(t, validate.Valid(in))
}

func TestNumericBounds(t *testing.T) {
	type item struct {
		Quantity int             `json:"quantity" validate:"required,gte=1"`
		Price    decimal.Decimal `json:"price"    validate:"gte=0"`
	}

	assert.False(t, validate.Valid(item{Quantity: 0, Price: decimal.NewFromInt(1)}))
	assert.False(t, validate.Valid(item{Quantity: 1, Price: decimal.NewFromInt(-1)}))
	assert.True(t, validate.Valid(item{Quantity: 2, Price: decimal.RequireFromString("9.99")}))
}

func TestParseHelpers(t *testing.T) {
	d, err := validate.ParseDate("2001-02-03")
	assert.NoError(t, err)
	assert.Equal(t, 2001, d.Year())

	_, err = validate.ParseDate("03-02-2001x")
	assert.Error(t, err)

	b, ok := validate.ParseBool("on")
	assert.True(t, ok)
	assert.True(t, b)

	_, ok = validate.ParseBool("maybe")
	assert.False(t, ok)
}
