package endpoints

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/client-project-manager/pkg/server"
	"github.com/doodlesbykumbi/client-project-manager/pkg/server/middleware"
)

// RegisterAll registers all API endpoints on the server. Everything except
// the status, metrics and login endpoints sits behind bearer token auth.
func RegisterAll(s *server.Server) {
	// Router middleware skips these handlers, so they are instrumented here.
	s.Router.NotFoundHandler = s.Metrics.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondWithDetail(w, http.StatusNotFound, msgNotFound)
	}))
	s.Router.MethodNotAllowedHandler = s.Metrics.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondWithDetail(w, http.StatusMethodNotAllowed, fmt.Sprintf("Method %q not allowed.", r.Method))
	}))

	RegisterStatusEndpoints(s)
	RegisterAuthenticateEndpoint(s)

	auth := middleware.NewBearerAuthenticator(s.Tokens, s.UsersStore, func(ip string) bool {
		return s.Config().IsTrustedProxy(ip)
	})
	protected := s.Router.NewRoute().Subrouter()
	protected.Use(auth.Middleware)

	RegisterWhoamiEndpoint(s, protected)
	RegisterClientsEndpoints(s, protected)
	RegisterProjectsEndpoints(s, protected)
}

// handle registers h for path with and without its trailing slash.
func handle(r *mux.Router, path string, h http.HandlerFunc, methods ...string) {
	r.HandleFunc(path, h).Methods(methods...)
	if trimmed := strings.TrimSuffix(path, "/"); trimmed != path && trimmed != "" {
		r.HandleFunc(trimmed, h).Methods(methods...)
	}
}
