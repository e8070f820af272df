package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kashvishop/storefront/pkg/response"
)

func TestWriteJSONEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/customers", nil)

	response.Write(rec, req, response.Response{
		StatusCode: http.StatusCreated,
		Message:    "Customer created.",
		Redirect:   "/customers/1",
		Template:   "CustomerView",
		Payload:    response.Payload{"customer": map[string]any{"email": "a@b.com"}},
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 201, body["statusCode"])
	assert.Equal(t, "Customer created.", body["message"])
	assert.Equal(t, "/customers/1", body["redirect"])
	assert.Equal(t, "CustomerView", body["template"])
	assert.Equal(t, "a@b.com", body["payload"].(map[string]any)["customer"].(map[string]any)["email"])
}

func TestWriteRedirectsBrowsers(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	response.Write(rec, req, response.Response{StatusCode: http.StatusOK, Redirect: "/products"})

	assert.Equal(t, response.StatusRedirect, rec.Code)
	assert.Equal(t, "/products", rec.Header().Get("Location"))
}

func TestWriteNoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Write(rec, httptest.NewRequest(http.MethodDelete, "/cart", nil), response.Response{StatusCode: http.StatusNoContent})

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, rec.Body.Len())
}

func TestErrorDefaults(t *testing.T) {
	rec := httptest.NewRecorder()
	response.NotFound(rec)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"statusCode":404,"message":"Not found."}`, rec.Body.String())
}
