package store

import (
	"context"

	"github.com/doodlesbykumbi/client-project-manager/pkg/model"
)

// NewProject holds the fields of a project to create
type NewProject struct {
	Name      string
	ClientID  uint
	CreatedBy uint
	UserIDs   []uint
}

// ProjectsStore abstracts project storage operations
type ProjectsStore interface {
	// ListProjectsForUser returns the projects userID is assigned to,
	// ordered by id, with CreatedBy loaded.
	ListProjectsForUser(ctx context.Context, userID uint) ([]model.Project, error)

	// CreateProject inserts the project and its user assignments in one
	// transaction and returns it with Client, Users and CreatedBy loaded.
	// Returns ErrClientNotFound if the client doesn't exist.
	CreateProject(ctx context.Context, p NewProject) (*model.Project, error)
}
