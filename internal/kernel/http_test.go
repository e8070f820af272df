package kernel_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kashvishop/storefront/internal/kernel"
	"github.com/kashvishop/storefront/internal/testdb"
	"github.com/kashvishop/storefront/pkg/session"
)

func TestMetricsEndpoint(t *testing.T) {
	k := kernel.New(testdb.Open(t), session.NewMemoryStore())

	rec := httptest.NewRecorder()
	k.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/categories", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	k.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
	assert.Contains(t, rec.Body.String(), `route="/categories"`)
}

func TestRequestIDIsEchoed(t *testing.T) {
	k := kernel.New(testdb.Open(t), session.NewMemoryStore())

	rec := httptest.NewRecorder()
	k.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRateLimitFromConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT", "2")
	k := kernel.New(testdb.Open(t), session.NewMemoryStore())
	require.NotNil(t, k.Limiter)

	var codes []int
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/categories", nil)
		req.RemoteAddr = "198.51.100.7:5000"
		k.Handler().ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimitDisabled(t *testing.T) {
	t.Setenv("RATE_LIMIT", "0")
	k := kernel.New(testdb.Open(t), session.NewMemoryStore())
	assert.Nil(t, k.Limiter)
}

func TestRouteTable(t *testing.T) {
	k := kernel.New(testdb.Open(t), session.NewMemoryStore())

	path, ok := k.Router().Path("orders.complete")
	require.True(t, ok)
	assert.Equal(t, "/orders/{id}/complete", path)

	url, err := k.Router().URL("cart.items.update", map[string]string{"productId": "3"})
	require.NoError(t, err)
	assert.Equal(t, "/cart/items/3", url)
}
