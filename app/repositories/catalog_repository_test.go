package repositories_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kashvishop/storefront/app/models"
	"github.com/kashvishop/storefront/app/repositories"
	"github.com/kashvishop/storefront/internal/testdb"
)

func TestCategoryFirstOrCreate(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewCategoryRepository(testdb.Open(t))

	a, err := repo.FirstOrCreate(ctx, "electronics")
	require.NoError(t, err)
	b, err := repo.FirstOrCreate(ctx, "electronics")
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)
}

func TestProductsByCategoryAndDeleteCategory(t *testing.T) {
	ctx := context.Background()
	db := testdb.Open(t)
	categories := repositories.NewCategoryRepository(db)
	products := repositories.NewProductRepository(db)

	books, err := categories.FirstOrCreate(ctx, "books")
	require.NoError(t, err)

	novel := &models.Product{Title: "Novel", Price: decimal.NewFromInt(15), CategoryID: &books.ID}
	pen := &models.Product{Title: "Pen", Price: decimal.NewFromInt(2)}
	require.NoError(t, products.Create(ctx, novel))
	require.NoError(t, products.Create(ctx, pen))
	assert.False(t, novel.Date.IsZero())

	inBooks, err := products.ReadAllByCategory(ctx, books.ID)
	require.NoError(t, err)
	require.Len(t, inBooks, 1)
	assert.Equal(t, "Novel", inBooks[0].Title)

	ok, err := categories.Delete(ctx, books.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	orphan, err := products.Read(ctx, novel.ID)
	require.NoError(t, err)
	assert.Nil(t, orphan.CategoryID)
}

func TestAddressesByCustomer(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture(t)
	newAddress(t, f)

	other := newCustomer("other@example.com")
	require.NoError(t, repositories.NewCustomerRepository(f.db).Create(ctx, other))

	addresses := repositories.NewAddressRepository(f.db)
	mine, err := addresses.ReadAllByCustomer(ctx, f.customer.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := addresses.ReadAllByCustomer(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestCategoryNamesAreUnique(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewCategoryRepository(testdb.Open(t))

	toys := &models.Category{Name: "toys"}
	require.NoError(t, repo.Create(ctx, toys))
	games := &models.Category{Name: "games"}
	require.NoError(t, repo.Create(ctx, games))

	assert.ErrorIs(t, repo.Create(ctx, &models.Category{Name: "toys"}), repositories.ErrDuplicateCategory)
	assert.ErrorIs(t, repo.Update(ctx, games, map[string]any{"name": "toys"}), repositories.ErrDuplicateCategory)

	require.NoError(t, repo.Update(ctx, toys, map[string]any{"name": "toys"}))
	require.NoError(t, repo.Update(ctx, games, map[string]any{"name": "board games"}))
	assert.Equal(t, "board games", games.Name)
}
