package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kashvishop/storefront/app/models"
	"github.com/kashvishop/storefront/app/repositories"
	"github.com/kashvishop/storefront/internal/testdb"
	"github.com/kashvishop/storefront/pkg/orm"
)

func newCustomer(email string) *models.Customer {
	return &models.Customer{
		Email:       email,
		FirstName:   "Jane",
		LastName:    "Doe",
		DateOfBirth: time.Date(1992, time.March, 4, 0, 0, 0, 0, time.UTC),
		PhoneNumber: "555-0100",
		Password:    "secret",
		UserName:    "jdoe",
	}
}

func TestCustomerCreateThenRead(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewCustomerRepository(testdb.Open(t))

	c := newCustomer("jane@example.com")
	require.NoError(t, repo.Create(ctx, c))
	require.NotZero(t, c.ID)

	got, err := repo.Read(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Email, got.Email)
	assert.Equal(t, c.FirstName, got.FirstName)
	assert.Equal(t, c.Password, got.Password)
	assert.False(t, got.IsAdmin)
	assert.True(t, c.DateOfBirth.Equal(got.DateOfBirth))
}

func TestCustomerDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewCustomerRepository(testdb.Open(t))

	first := newCustomer("dup@example.com")
	require.NoError(t, repo.Create(ctx, first))

	second := newCustomer("dup@example.com")
	second.FirstName = "Other"
	err := repo.Create(ctx, second)
	assert.ErrorIs(t, err, repositories.ErrDuplicateEmail)
	assert.Equal(t, "User with this email already exists.", err.Error())

	stored, err := repo.Read(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane", stored.FirstName)

	all, err := repo.ReadAll(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCustomerUpdateOnlyChangesGivenFields(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewCustomerRepository(testdb.Open(t))

	c := newCustomer("update@example.com")
	require.NoError(t, repo.Create(ctx, c))

	require.NoError(t, repo.Update(ctx, c, map[string]any{"first_name": "Janet"}))
	assert.Equal(t, "Janet", c.FirstName)

	got, err := repo.Read(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Janet", got.FirstName)
	assert.Equal(t, "Doe", got.LastName)
	assert.Equal(t, "update@example.com", got.Email)
	assert.Equal(t, "555-0100", got.PhoneNumber)
}

func TestCustomerUpdateToTakenEmail(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewCustomerRepository(testdb.Open(t))

	a := newCustomer("a@example.com")
	b := newCustomer("b@example.com")
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	err := repo.Update(ctx, b, map[string]any{"email": "a@example.com"})
	assert.ErrorIs(t, err, repositories.ErrDuplicateEmail)

	// Keeping your own email is not a conflict.
	assert.NoError(t, repo.Update(ctx, b, map[string]any{"email": "b@example.com"}))
}

func TestCustomerLogin(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewCustomerRepository(testdb.Open(t))

	c := newCustomer("login@example.com")
	require.NoError(t, repo.Create(ctx, c))

	got, err := repo.Login(ctx, "login@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)

	_, err = repo.Login(ctx, "login@example.com", "wrong")
	assert.ErrorIs(t, err, repositories.ErrInvalidCredentials)

	_, err = repo.Login(ctx, "nobody@example.com", "secret")
	assert.ErrorIs(t, err, repositories.ErrInvalidCredentials)
}

func TestCustomerDelete(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewCustomerRepository(testdb.Open(t))

	c := newCustomer("gone@example.com")
	require.NoError(t, repo.Create(ctx, c))

	ok, err := repo.Delete(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = repo.Read(ctx, c.ID)
	assert.ErrorIs(t, err, orm.ErrNotFound)

	ok, err = repo.Delete(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
