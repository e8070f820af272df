package middleware

import (
	"net/http"

	"github.com/kashvishop/storefront/pkg/response"
	"github.com/kashvishop/storefront/pkg/session"
)

// RequireLogin rejects requests whose session carries no customer id with a
// 401 that sends browsers to /login.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := session.FromCtx(r).UserID(); !ok {
			response.Write(w, r, response.Response{
				StatusCode: http.StatusUnauthorized,
				Message:    "Unauthorized.",
				Redirect:   "/login",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
