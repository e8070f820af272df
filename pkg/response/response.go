// Package response defines the envelope every handler answers with and
// writes it to the wire.
//
//	{"statusCode":201,"message":"Customer created.","redirect":"/customers/1",
//	 "template":"CustomerView","payload":{"customer":{...}}}
//
// Browsers (Accept: text/html) are redirected with 303 when Redirect is set;
// every other client gets the JSON envelope.
package response

import (
	"encoding/json"
	"net/http"
	"strings"
)

// StatusRedirect is the code browsers get when a response carries a redirect.
const StatusRedirect = http.StatusSeeOther

// Response is what a controller sends: status, optional redirect target,
// optional view name and optional payload.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Redirect   string `json:"redirect,omitempty"`
	Template   string `json:"template,omitempty"`
	Payload    any    `json:"payload,omitempty"`
}

// Payload is the usual payload shape: a few named values.
type Payload map[string]any

// Write sends res on w. A 204 writes no body.
func Write(w http.ResponseWriter, r *http.Request, res Response) {
	if res.StatusCode == 0 {
		res.StatusCode = http.StatusOK
	}

	if res.Redirect != "" && r != nil && WantsHTML(r) {
		http.Redirect(w, r, res.Redirect, StatusRedirect)
		return
	}

	if res.StatusCode == http.StatusNoContent {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.StatusCode)
	json.NewEncoder(w).Encode(res) //nolint:errcheck
}

// Error sends a JSON error envelope.
func Error(w http.ResponseWriter, status int, message string) {
	Write(w, nil, Response{StatusCode: status, Message: message})
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter) {
	Error(w, http.StatusNotFound, "Not found.")
}

// MethodNotAllowed sends a 405.
func MethodNotAllowed(w http.ResponseWriter) {
	Error(w, http.StatusMethodNotAllowed, "Method not allowed.")
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter) {
	Error(w, http.StatusUnauthorized, "Unauthorized.")
}

// WantsHTML reports whether the client prefers an HTML page over JSON.
func WantsHTML(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") && !strings.Contains(accept, "application/json")
}
