package store

import (
	"context"
	"errors"

	"github.com/doodlesbykumbi/client-project-manager/pkg/model"
)

// ErrClientNotFound is returned when a client doesn't exist
var ErrClientNotFound = errors.New("client not found")

// ClientsStore abstracts client storage operations
type ClientsStore interface {
	// ListClients returns a page of clients ordered by id, with CreatedBy loaded.
	// A zero limit returns every client from offset onwards.
	ListClients(ctx context.Context, limit, offset int) ([]model.Client, error)

	// FetchClient returns a client with CreatedBy, Projects and each
	// project's CreatedBy loaded. Projects are ordered by id.
	// Returns ErrClientNotFound if the client doesn't exist.
	FetchClient(ctx context.Context, id uint) (*model.Client, error)

	// ClientExists reports whether a client with id exists.
	ClientExists(ctx context.Context, id uint) (bool, error)

	// CreateClient inserts a client owned by createdBy.
	CreateClient(ctx context.Context, name string, createdBy uint) (*model.Client, error)

	// UpdateClient bumps updated_at and, when name is non-nil, renames the
	// client. Returns ErrClientNotFound if the client doesn't exist.
	UpdateClient(ctx context.Context, id uint, name *string) (*model.Client, error)

	// DeleteClient removes a client and, by cascade, its projects.
	// Returns ErrClientNotFound if the client doesn't exist.
	DeleteClient(ctx context.Context, id uint) error
}
