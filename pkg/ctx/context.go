// Package ctx gives controllers a single request context instead of the
// (http.ResponseWriter, *http.Request) pair.
//
//	func (c *ProductController) Show(x *ctx.Context) {
//	    id, err := x.ID()
//	    if err != nil {
//	        x.Fail(http.StatusBadRequest, err.Error())
//	        return
//	    }
//	    ...
//	    x.Send(response.Response{StatusCode: http.StatusOK, Payload: response.Payload{"product": p}})
//	}
//
//	r.Get("/products/:id", "products.show", ctx.Wrap(c.Show))
package ctx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/kashvishop/storefront/pkg/bind"
	"github.com/kashvishop/storefront/pkg/logger"
	"github.com/kashvishop/storefront/pkg/response"
	"github.com/kashvishop/storefront/pkg/session"
)

// ErrInvalidID is returned by ID and UintParam for a non-numeric or zero id.
var ErrInvalidID = errors.New("Invalid ID")

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to a standard http.HandlerFunc so it can be
// passed to any router method.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// Context wraps a request/response pair.
type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	mu     sync.RWMutex
	store  map[string]any
	status int
}

// pool recycles Context objects to reduce GC pressure.
var pool = sync.Pool{
	New: func() any { return &Context{store: make(map[string]any)} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	c.status = 0
	for k := range c.store {
		delete(c.store, k)
	}
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a URL path parameter ("/products/:id" → c.Param("id")).
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// UintParam parses a path parameter as a positive id.
func (c *Context) UintParam(key string) (uint, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(c.Param(key)), 10, 64)
	if err != nil || n == 0 {
		return 0, ErrInvalidID
	}
	return uint(n), nil
}

// ID is UintParam("id").
func (c *Context) ID() (uint, error) {
	return c.UintParam("id")
}

// Query returns a query-string value. Returns "" if not present.
func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

// DefaultQuery returns a query-string value, or def if it is empty.
func (c *Context) DefaultQuery(key, def string) string {
	if v := c.Query(key); v != "" {
		return v
	}
	return def
}

// Header returns the value of a request header.
func (c *Context) Header(key string) string {
	return c.R.Header.Get(key)
}

// Cookie returns the value of a named cookie.
func (c *Context) Cookie(name string) (string, error) {
	cookie, err := c.R.Cookie(name)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}

// ClientIP returns the real client IP, respecting X-Forwarded-For.
func (c *Context) ClientIP() string {
	if fwd := c.R.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	if real := c.R.Header.Get("X-Real-Ip"); real != "" {
		return real
	}
	ip := c.R.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// Context returns the underlying request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// Log returns the request-scoped logger.
func (c *Context) Log() *slog.Logger { return logger.WithCtx(c.R.Context()) }

// Session returns the request's session.
func (c *Context) Session() *session.Session { return session.FromCtx(c.R) }

// ─── Per-request store ────────────────────────────────────────────────────────

// Set stores a value in the per-request key-value store.
func (c *Context) Set(key string, val any) {
	c.mu.Lock()
	c.store[key] = val
	c.mu.Unlock()
}

// Get retrieves a value from the per-request store.
func (c *Context) Get(key string) (any, bool) {
	c.mu.RLock()
	v, ok := c.store[key]
	c.mu.RUnlock()
	return v, ok
}

// MustGet retrieves a value from the store and panics if the key is absent.
func (c *Context) MustGet(key string) any {
	v, ok := c.Get(key)
	if !ok {
		panic(fmt.Sprintf("ctx: key %q not found in store", key))
	}
	return v
}

// GetUint returns a uint value from the store, or 0 if absent/wrong type.
func (c *Context) GetUint(key string) uint {
	v, _ := c.Get(key)
	u, _ := v.(uint)
	return u
}

// ─── Binding ──────────────────────────────────────────────────────────────────

// Bind decodes the body into dest and validates it. On failure it sends a 400
// carrying the first error message and returns false.
//
//	var in loginInput
//	if !c.Bind(&in) {
//	    return // response already sent
//	}
func (c *Context) Bind(dest any) bool {
	errs, order, err := bind.Request(c.R, dest)
	if err != nil {
		c.Fail(http.StatusBadRequest, err.Error())
		return false
	}
	if len(errs) > 0 {
		c.Fail(http.StatusBadRequest, errs.First(order))
		return false
	}
	return true
}

// ─── Response helpers ─────────────────────────────────────────────────────────

// Send saves the session, then writes res.
func (c *Context) Send(res response.Response) {
	if err := c.Session().Save(c.R.Context(), c.W); err != nil {
		c.Log().Error("session: save failed", "error", err)
	}
	if res.StatusCode == 0 {
		res.StatusCode = http.StatusOK
	}
	c.status = res.StatusCode
	response.Write(c.W, c.R, res)
}

// Fail sends an error envelope with the given status and message.
func (c *Context) Fail(code int, message string) {
	c.Send(response.Response{StatusCode: code, Message: message})
}

// FailView is Fail with the view the client should render.
func (c *Context) FailView(code int, message, template string) {
	c.Send(response.Response{StatusCode: code, Message: message, Template: template})
}

// SetHeader sets a response header.
func (c *Context) SetHeader(key, value string) {
	c.W.Header().Set(key, value)
}

// WrittenStatus returns the status sent through Send, or 0.
func (c *Context) WrittenStatus() int { return c.status }
