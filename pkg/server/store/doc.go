// Package store provides storage abstractions for the API server.
//
// This package defines interfaces for database operations, allowing the
// server endpoints to be decoupled from the specific database implementation.
// Endpoint tests use testify mocks of these interfaces.
//
// # Available Stores
//
//   - ClientsStore: Client CRUD
//   - ProjectsStore: Project creation and per-user listing
//   - UsersStore: User lookup and creation
//   - HealthStore: Database connectivity
//
// # Usage
//
//	clients := gorm.NewClientsStore(db)
//	client, err := clients.FetchClient(ctx, 42)
//	if err != nil {
//	    if errors.Is(err, store.ErrClientNotFound) {
//	        // Handle not found
//	    }
//	}
package store
