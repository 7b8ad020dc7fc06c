// Package server provides the HTTP server for the client and project API.
//
// It uses gorilla/mux for routing and gorilla/handlers for access logging
// and panic recovery. Routes are registered by the endpoints subpackage.
//
// # Server Setup
//
//	srv := server.NewServer(cfg, db, tokens, "0.0.0.0", "8000")
//	endpoints.RegisterAll(srv)
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Components
//
// The Server struct holds:
//
//   - Router: HTTP request router
//   - DB: Database connection
//   - Tokens: Bearer token issuer and verifier
//   - Authenticators: Login authenticators by name
//   - Metrics, Registry: Prometheus collectors served on /metrics
//   - ClientsStore, ProjectsStore, UsersStore, HealthStore: Storage
package server
