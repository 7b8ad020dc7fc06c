package endpoints

import (
	"net/http"
	"sort"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/doodlesbykumbi/client-project-manager/pkg/authenticator"
	"github.com/doodlesbykumbi/client-project-manager/pkg/server"
	"github.com/doodlesbykumbi/client-project-manager/pkg/server/store"
)

// StatusResponse represents the response from GET /
type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Error   string `json:"error,omitempty"`
}

// AuthenticatorsResponse represents the response from /authenticators
type AuthenticatorsResponse struct {
	Installed []string `json:"installed"`
	Enabled   []string `json:"enabled"`
}

// RegisterStatusEndpoints registers the unauthenticated status, metrics and
// authenticator listing endpoints
func RegisterStatusEndpoints(s *server.Server) {
	// GET / - Status with a database connectivity check
	s.Router.HandleFunc("/", handleStatus(s.HealthStore)).Methods("GET")

	// GET /authenticators - Installed and enabled authenticators
	s.Router.HandleFunc("/authenticators", handleAuthenticators(s.Authenticators)).Methods("GET")

	// GET /metrics - Prometheus scrape endpoint
	s.Router.Handle("/metrics", promhttp.HandlerFor(s.Registry, promhttp.HandlerOpts{})).Methods("GET")
}

func handleStatus(healthStore store.HealthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := healthStore.CheckConnectivity(r.Context()); err != nil {
			respondWithJSON(w, http.StatusServiceUnavailable, StatusResponse{
				Status:  "error",
				Version: server.Version,
				Error:   "database connectivity check failed",
			})
			return
		}

		respondWithJSON(w, http.StatusOK, StatusResponse{
			Status:  "ok",
			Version: server.Version,
		})
	}
}

func handleAuthenticators(registry *authenticator.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		installed := registry.Installed()
		enabled := registry.Enabled()

		// Sort for consistent output
		sort.Strings(installed)
		sort.Strings(enabled)

		respondWithJSON(w, http.StatusOK, AuthenticatorsResponse{
			Installed: installed,
			Enabled:   enabled,
		})
	}
}
