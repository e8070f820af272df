package services_test

import (
	"context"
	gohttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kashvishop/storefront/app/repositories"
	"github.com/kashvishop/storefront/app/services"
	"github.com/kashvishop/storefront/internal/testdb"
)

const fakeCatalog = `[
  {"id":1,"title":"Fjallraven Backpack","price":109.95,"description":"Fits 15in laptops","category":"men's clothing","image":"https://img.example.com/1.jpg"},
  {"id":2,"title":"Slim Fit T-Shirt","price":22.3,"description":"Cotton","category":"men's clothing","image":"https://img.example.com/2.jpg"},
  {"id":3,"title":"Gold Chain","price":695,"description":"","category":"jewelery","image":"https://img.example.com/3.jpg"}
]`

func catalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, _ *gohttp.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(fakeCatalog)) //nolint:errcheck
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestImport(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	importer := services.NewCatalogImporter(db, catalogServer(t).URL, 10)

	res, err := importer.Import(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Fetched)
	assert.Equal(t, 3, res.Created)
	assert.Equal(t, 2, res.Categories)

	products := repositories.NewProductRepository(db)
	p, err := products.FindByTitle(ctx, "Fjallraven Backpack")
	require.NoError(t, err)
	assert.Equal(t, "109.95", p.Price.StringFixed(2))
	assert.Equal(t, 10, p.Inventory)
	require.NotNil(t, p.CategoryID)

	inCategory, err := products.ReadAllByCategory(ctx, *p.CategoryID)
	require.NoError(t, err)
	assert.Len(t, inCategory, 2)

	again, err := importer.Import(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Created)
	assert.Equal(t, 3, again.Skipped)
}

func TestImportUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, _ *gohttp.Request) {
		w.WriteHeader(gohttp.StatusNotFound)
	}))
	defer srv.Close()

	_, err := services.NewCatalogImporter(testdb.Open(t), srv.URL, 1).Import(context.Background())
	assert.Error(t, err)
}
