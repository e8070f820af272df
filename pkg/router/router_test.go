package router_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kashvishop/storefront/pkg/router"
)

func body(t *testing.T, h http.Handler, method, path string) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	raw, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return rec.Code, string(raw)
}

func echoParam(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, chi.URLParam(r, name))
	}
}

func TestColonParamsAreExtracted(t *testing.T) {
	r := router.New()
	r.Get("/products/:id", "products.show", echoParam("id"))
	r.Delete("/cart/items/:productId", "cart.items.remove", echoParam("productId"))

	code, got := body(t, r, http.MethodGet, "/products/17")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "17", got)

	code, got = body(t, r, http.MethodDelete, "/cart/items/5")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "5", got)
}

func TestLiteralNotShadowedByParam(t *testing.T) {
	r := router.New()
	// Parameter route registered first on purpose.
	r.Get("/products/:id", "products.show", echoParam("id"))
	r.Get("/products/new", "products.new", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "form")
	})

	_, got := body(t, r, http.MethodGet, "/products/new")
	assert.Equal(t, "form", got)

	_, got = body(t, r, http.MethodGet, "/products/3")
	assert.Equal(t, "3", got)
}

func TestMethodMismatch(t *testing.T) {
	r := router.New()
	r.Put("/orders/:id/complete", "orders.complete", echoParam("id"))

	code, _ := body(t, r, http.MethodGet, "/orders/1/complete")
	assert.Equal(t, http.StatusMethodNotAllowed, code)

	code, _ = body(t, r, http.MethodGet, "/nowhere")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestGroupPrefixAndMiddleware(t *testing.T) {
	r := router.New()
	tag := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("X-Group", "cart")
			next.ServeHTTP(w, req)
		})
	}

	cart := r.Group("/cart", tag)
	cart.Patch("/items/:productId", "cart.items.patch", echoParam("productId"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/cart/items/9", nil))
	assert.Equal(t, "9", rec.Body.String())
	assert.Equal(t, "cart", rec.Header().Get("X-Group"))
}

func TestRoutesAndURL(t *testing.T) {
	r := router.New()
	r.Get("/", "home", echoParam("x"))
	r.Put("/customers/:id", "customers.update", echoParam("id"))
	r.HandleFunc("/metrics", echoParam("x"))

	routes := r.Routes()
	require.Len(t, routes, 2)
	assert.Equal(t, router.RouteInfo{Method: http.MethodPut, Path: "/customers/{id}", Name: "customers.update"}, routes[1])

	url, err := r.URL("customers.update", map[string]string{"id": "8"})
	require.NoError(t, err)
	assert.Equal(t, "/customers/8", url)

	_, err = r.URL("customers.update", nil)
	assert.Error(t, err)

	_, err = r.URL("missing", nil)
	assert.Error(t, err)
}
