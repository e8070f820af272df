package reqid_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kashvishop/storefront/pkg/reqid"
)

func serve(upstream string) (header, inCtx string) {
	h := reqid.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inCtx = reqid.FromCtx(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if upstream != "" {
		req.Header.Set(reqid.Header, upstream)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Header().Get(reqid.Header), inCtx
}

func TestMiddlewareGeneratesID(t *testing.T) {
	header, inCtx := serve("")
	assert.Len(t, header, 32)
	assert.Equal(t, header, inCtx)
}

func TestMiddlewareReusesUpstreamID(t *testing.T) {
	header, inCtx := serve("lb-7f3a-checkout")
	assert.Equal(t, "lb-7f3a-checkout", header)
	assert.Equal(t, header, inCtx)
}

func TestMiddlewareReplacesUntrustedID(t *testing.T) {
	for _, upstream := range []string{
		strings.Repeat("a", reqid.MaxLen+1),
		"has space",
		"tab\tinside",
		"café",
	} {
		header, inCtx := serve(upstream)
		assert.NotEqual(t, upstream, header)
		assert.Len(t, header, 32, upstream)
		assert.Equal(t, header, inCtx)
	}

	header, _ := serve(strings.Repeat("b", reqid.MaxLen))
	assert.Equal(t, strings.Repeat("b", reqid.MaxLen), header)
}
