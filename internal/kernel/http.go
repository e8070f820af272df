// Package kernel assembles the storefront's HTTP handler: global middleware,
// the /metrics endpoint and every controller route.
package kernel

import (
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/kashvishop/storefront/app/routes"
	"github.com/kashvishop/storefront/config"
	"github.com/kashvishop/storefront/pkg/metrics"
	"github.com/kashvishop/storefront/pkg/middleware"
	"github.com/kashvishop/storefront/pkg/reqid"
	"github.com/kashvishop/storefront/pkg/response"
	"github.com/kashvishop/storefront/pkg/router"
	"github.com/kashvishop/storefront/pkg/session"
)

// HTTPKernel owns the router and the shared rate limiter.
type HTTPKernel struct {
	router *router.Router

	// Limiter is nil when RATE_LIMIT is 0.
	Limiter *middleware.RateLimiter
}

// New builds the kernel on db, keeping sessions in store.
func New(db *gorm.DB, store session.Store) *HTTPKernel {
	k := &HTTPKernel{router: router.New()}

	if max := config.Int("RATE_LIMIT", 300); max > 0 {
		k.Limiter = middleware.NewRateLimiter(max, time.Minute)
	}

	sessOpts := session.DefaultOptions()
	sessOpts.TTL = config.SessionTTL()
	sessOpts.Secure = config.IsProduction()

	// Outermost first: metrics see total latency, recovery catches panics
	// before anything logs, the request id exists before the logger runs.
	r := k.router
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	if k.Limiter != nil {
		r.Use(k.Limiter.Middleware)
	}
	r.Use(session.Middleware(store, sessOpts))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) { response.NotFound(w) })
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) { response.MethodNotAllowed(w) })

	r.HandleFunc("/metrics", metrics.Handler())
	routes.Register(r, db)

	return k
}

func (k *HTTPKernel) Handler() http.Handler {
	return k.router.Handler()
}

// Router exposes the route table, e.g. for route:list.
func (k *HTTPKernel) Router() *router.Router {
	return k.router
}
