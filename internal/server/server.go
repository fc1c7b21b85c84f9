// package server contains middleware & handlers for the migration dashboard API
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/shared"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
// Common middleware includes logging, authentication, CORS, rate limiting, etc.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers in the dashboard API.
// Implementations handle specific endpoints (projects, jobs, connections).
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
// Implementations register handlers, apply middleware, and configure the HTTP server.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// errorBody is the JSON envelope for API errors.
type errorBody struct {
	Error string `json:"error"`
}

// writeJSON encodes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, shared.ErrJobConflict):
		status = http.StatusConflict
	case errors.Is(err, shared.ErrJobNotFound),
		errors.Is(err, shared.ErrProjectNotFound),
		errors.Is(err, shared.ErrRepoNotFound):
		status = http.StatusNotFound
	case errors.Is(err, shared.ErrUnknownArtifactType),
		errors.Is(err, shared.ErrInvalidInput),
		errors.Is(err, shared.ErrMissingArgument),
		errors.Is(err, shared.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, shared.ErrMissingCredentials),
		errors.Is(err, shared.ErrInvalidCredentials):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, shared.ErrUpstreamAuth),
		errors.Is(err, shared.ErrUpstreamRequest),
		errors.Is(err, shared.ErrMalformedResponse),
		errors.Is(err, shared.ErrConnectionFailed):
		status = http.StatusBadGateway
	case errors.Is(err, shared.ErrUpstreamTimeout):
		status = http.StatusGatewayTimeout
	}

	writeJSON(w, status, errorBody{Error: err.Error()})
}
