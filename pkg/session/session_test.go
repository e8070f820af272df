package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, "abc", map[string]any{"userId": uint(7)}, time.Minute))

	data, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, float64(7), data["userId"])
	assert.Equal(t, 1, store.Len())

	now = now.Add(2 * time.Minute)
	data, err = store.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, data)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStoreEvict(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, "short", map[string]any{}, time.Minute))
	require.NoError(t, store.Save(ctx, "long", map[string]any{}, time.Hour))
	assert.Equal(t, 0, store.Evict())

	now = now.Add(5 * time.Minute)
	assert.Equal(t, 1, store.Evict())
	assert.Equal(t, 1, store.Len())
}

func TestGetUintAcceptsStoredNumbers(t *testing.T) {
	s := newSession(NewMemoryStore(), DefaultOptions())

	s.Set("a", uint(3))
	s.Set("b", float64(4))
	s.Set("c", -1)
	s.Set("d", "5")

	v, ok := s.GetUint("a")
	assert.True(t, ok)
	assert.Equal(t, uint(3), v)

	v, ok = s.GetUint("b")
	assert.True(t, ok)
	assert.Equal(t, uint(4), v)

	_, ok = s.GetUint("c")
	assert.False(t, ok)
	_, ok = s.GetUint("d")
	assert.False(t, ok)
}

// loginServer sets the user id on /login, reports it on /me and destroys the
// session on /logout.
func loginServer(store Store) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		sess := FromCtx(r)
		sess.Set(KeyUserID, uint(42))
		sess.Set(KeyIsLoggedIn, true)
		_ = sess.Save(r.Context(), w)
	})
	mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
		if id, ok := FromCtx(r).UserID(); ok && id == 42 {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/logout", func(w http.ResponseWriter, r *http.Request) {
		sess := FromCtx(r)
		sess.Destroy()
		_ = sess.Save(r.Context(), w)
	})
	return Middleware(store, DefaultOptions())(mux)
}

func TestSessionSurvivesAcrossRequests(t *testing.T) {
	store := NewMemoryStore()
	h := loginServer(store)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session_id", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Result().Cookies(), "unchanged session is not rewritten")

	req = httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	expired := rec.Result().Cookies()
	require.Len(t, expired, 1)
	assert.Less(t, expired[0].MaxAge, 0)
	assert.Equal(t, 0, store.Len())

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUnknownCookieStartsFreshSession(t *testing.T) {
	h := loginServer(NewMemoryStore())

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "forged"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFromCtxWithoutMiddleware(t *testing.T) {
	s := FromCtx(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, s.IsNew())
	assert.NotEmpty(t, s.ID())
	_, ok := s.UserID()
	assert.False(t, ok)
}

func TestConnectRedisUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := ConnectRedis(ctx, "127.0.0.1:1", "")
	assert.Error(t, err)
}

func TestRawSessionIDIsRejected(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), "plain-id", map[string]any{KeyUserID: float64(42)}, time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "plain-id"})
	rec := httptest.NewRecorder()
	loginServer(store).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
