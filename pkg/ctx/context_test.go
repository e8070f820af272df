package ctx_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	appctx "github.com/kashvishop/storefront/pkg/ctx"
	"github.com/kashvishop/storefront/pkg/response"
	"github.com/kashvishop/storefront/pkg/session"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var res response.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("invalid JSON body %q: %v", rec.Body.String(), err)
	}
	return res
}

func withParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestSend(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	appctx.Wrap(func(c *appctx.Context) {
		c.Send(response.Response{StatusCode: http.StatusCreated, Message: "ok", Payload: response.Payload{"id": 1}})
	})(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	res := decode(t, rec)
	if res.StatusCode != http.StatusCreated || res.Message != "ok" {
		t.Errorf("unexpected envelope: %+v", res)
	}
}

func TestID(t *testing.T) {
	cases := map[string]bool{"7": true, "0": false, "abc": false, "-1": false}
	for raw, ok := range cases {
		req := withParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", raw)
		appctx.Wrap(func(c *appctx.Context) {
			id, err := c.ID()
			if ok && (err != nil || id != 7) {
				t.Errorf("%q: expected 7, got %d (%v)", raw, id, err)
			}
			if !ok && err != appctx.ErrInvalidID {
				t.Errorf("%q: expected ErrInvalidID, got %v", raw, err)
			}
		})(httptest.NewRecorder(), req)
	}
}

func TestSetAndGet(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	appctx.Wrap(func(c *appctx.Context) {
		c.Set("user_id", uint(42))
		if uid := c.GetUint("user_id"); uid != 42 {
			t.Errorf("expected 42, got %d", uid)
		}
	})(rec, req)
}

func TestBindValid(t *testing.T) {
	rec := httptest.NewRecorder()
	body := `{"first_name":"John","email":"john@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	appctx.Wrap(func(c *appctx.Context) {
		var input struct {
			FirstName string `json:"firstName" validate:"required"`
			Email     string `json:"email"     validate:"required,email"`
		}
		if !c.Bind(&input) {
			t.Error("expected Bind to succeed")
			return
		}
		if input.FirstName != "John" {
			t.Errorf("expected John, got %s", input.FirstName)
		}
	})(rec, req)
}

func TestBindInvalid(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":""}`))
	req.Header.Set("Content-Type", "application/json")

	appctx.Wrap(func(c *appctx.Context) {
		var input struct {
			Email string `json:"email" validate:"required" msg:"Email is required."`
		}
		if c.Bind(&input) {
			t.Error("expected Bind to fail")
		}
	})(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d (body: %s)", rec.Code, rec.Body.String())
	}
	if res := decode(t, rec); res.Message != "Email is required." {
		t.Errorf("unexpected message %q", res.Message)
	}
}

func TestSendSavesSession(t *testing.T) {
	store := session.NewMemoryStore()
	handler := session.Middleware(store, session.DefaultOptions())(appctx.Wrap(func(c *appctx.Context) {
		c.Session().Set(session.KeyUserID, uint(3))
		c.Send(response.Response{Message: "Logged in successfully!"})
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))

	if store.Len() != 1 {
		t.Errorf("expected one stored session, got %d", store.Len())
	}
	if len(rec.Result().Cookies()) != 1 {
		t.Errorf("expected a session cookie")
	}
}

func TestClientIP(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "1.2.3.4, 10.0.0.1")

	appctx.Wrap(func(c *appctx.Context) {
		if ip := c.ClientIP(); ip != "1.2.3.4" {
			t.Errorf("expected 1.2.3.4, got %s", ip)
		}
	})(rec, req)
}

func TestFail(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	appctx.Wrap(func(c *appctx.Context) {
		c.Fail(http.StatusNotFound, "Customer not found")
	})(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
