// Package session keeps per-client key/value state between requests, keyed by
// an id carried encrypted (pkg/crypt) in the session_id cookie.
//
// Middleware:
//
//	r.Use(session.Middleware(store, session.DefaultOptions()))
//
// Handler:
//
//	sess := session.FromCtx(r)
//	sess.Set(session.KeyUserID, customer.ID)
//	err := sess.Save(r.Context(), w)
package session

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kashvishop/storefront/pkg/crypt"
	"github.com/kashvishop/storefront/pkg/logger"
)

// Keys written on login.
const (
	KeyUserID     = "userId"
	KeyIsLoggedIn = "isLoggedIn"
	KeyEmail      = "email"
)

// ------------------- Options -------------------

// Options configures the session cookie.
type Options struct {
	CookieName string
	TTL        time.Duration
	HTTPOnly   bool
	Secure     bool
	SameSite   http.SameSite
	Path       string
}

// DefaultOptions returns the session_id cookie with a two hour lifetime.
func DefaultOptions() Options {
	return Options{
		CookieName: "session_id",
		TTL:        2 * time.Hour,
		HTTPOnly:   true,
		Secure:     false,
		SameSite:   http.SameSiteLaxMode,
		Path:       "/",
	}
}

// ------------------- Session -------------------

type ctxKey struct{}

// Session is the handle for one client's state during a request.
type Session struct {
	id        string
	data      map[string]any
	store     Store
	opts      Options
	isNew     bool
	changed   bool
	destroyed bool
}

func newSession(store Store, opts Options) *Session {
	return &Session{
		id:    uuid.NewString(),
		data:  map[string]any{},
		store: store,
		opts:  opts,
		isNew: true,
	}
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// IsNew reports whether the session was created during this request.
func (s *Session) IsNew() bool { return s.isNew }

// Set stores a value under key.
func (s *Session) Set(key string, value any) {
	s.data[key] = value
	s.changed = true
	s.destroyed = false
}

// Get retrieves a value.
func (s *Session) Get(key string) (any, bool) {
	v, ok := s.data[key]
	return v, ok
}

// GetString is a typed convenience getter.
func (s *Session) GetString(key string) (string, bool) {
	v, ok := s.data[key]
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

// GetUint reads a positive whole number. Values loaded from a store arrive
// as float64.
func (s *Session) GetUint(key string) (uint, bool) {
	switch n := s.data[key].(type) {
	case uint:
		return n, true
	case int:
		if n >= 0 {
			return uint(n), true
		}
	case int64:
		if n >= 0 {
			return uint(n), true
		}
	case float64:
		if n >= 0 && n == float64(uint(n)) {
			return uint(n), true
		}
	}
	return 0, false
}

// GetBool is a typed convenience getter.
func (s *Session) GetBool(key string) bool {
	b, _ := s.data[key].(bool)
	return b
}

// Delete removes a key.
func (s *Session) Delete(key string) {
	if _, ok := s.data[key]; !ok {
		return
	}
	delete(s.data, key)
	s.changed = true
}

// Destroy clears every key. The next Save removes the stored data and
// expires the cookie.
func (s *Session) Destroy() {
	s.data = map[string]any{}
	s.changed = true
	s.destroyed = true
}

// UserID returns the logged-in customer id, if any.
func (s *Session) UserID() (uint, bool) {
	id, ok := s.GetUint(KeyUserID)
	return id, ok && id != 0
}

// Save persists changed data and writes the cookie. Unchanged sessions are
// not written.
func (s *Session) Save(ctx context.Context, w http.ResponseWriter) error {
	if !s.changed {
		return nil
	}

	if s.destroyed {
		if err := s.store.Delete(ctx, s.id); err != nil {
			return err
		}
		http.SetCookie(w, &http.Cookie{
			Name:     s.opts.CookieName,
			Value:    "",
			Path:     s.opts.Path,
			MaxAge:   -1,
			HttpOnly: s.opts.HTTPOnly,
			Secure:   s.opts.Secure,
			SameSite: s.opts.SameSite,
		})
		s.changed = false
		return nil
	}

	if err := s.store.Save(ctx, s.id, s.data, s.opts.TTL); err != nil {
		return err
	}

	sealed, err := crypt.Encrypt(s.id)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    sealed,
		Path:     s.opts.Path,
		MaxAge:   int(s.opts.TTL.Seconds()),
		HttpOnly: s.opts.HTTPOnly,
		Secure:   s.opts.Secure,
		SameSite: s.opts.SameSite,
	})

	s.changed = false
	return nil
}

// ------------------- Middleware -------------------

// Middleware resumes the session named by the cookie, or starts a new one,
// and injects it into the request context.
func Middleware(store Store, opts Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := load(r, store, opts)
			ctx := context.WithValue(r.Context(), ctxKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func load(r *http.Request, store Store, opts Options) *Session {
	cookie, err := r.Cookie(opts.CookieName)
	if err != nil || cookie.Value == "" {
		return newSession(store, opts)
	}

	id, err := crypt.Decrypt(cookie.Value)
	if err != nil {
		return newSession(store, opts)
	}

	data, err := store.Load(r.Context(), id)
	if err != nil {
		logger.WithCtx(r.Context()).Warn("session: load failed", "error", err)
	}
	if data == nil {
		// Unknown or expired id: start over under a fresh one.
		return newSession(store, opts)
	}

	return &Session{id: id, data: data, store: store, opts: opts}
}

// FromCtx returns the request's session. Outside the middleware it returns an
// unsaved session backed by a throwaway memory store.
func FromCtx(r *http.Request) *Session {
	if s, ok := r.Context().Value(ctxKey{}).(*Session); ok {
		return s
	}
	return newSession(NewMemoryStore(), DefaultOptions())
}
