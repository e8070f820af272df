// Package middleware holds the HTTP middleware the kernel stacks in front of
// the router, plus RequireLogin for routes that need a customer session.
package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/kashvishop/storefront/pkg/logger"
	"github.com/kashvishop/storefront/pkg/response"
)

// Recovery turns a panic in any later handler into a 500 envelope and logs
// the stack trace.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}
				logger.WithCtx(r.Context()).Error("panic recovered",
					"error", fmt.Sprintf("%v", err),
					"stack", string(debug.Stack()),
					"method", r.Method,
					"path", r.URL.Path,
				)
				response.Error(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
