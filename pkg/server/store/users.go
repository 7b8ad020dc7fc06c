package store

import (
	"context"
	"errors"

	"github.com/doodlesbykumbi/client-project-manager/pkg/model"
)

var (
	// ErrUserNotFound is returned when a user doesn't exist
	ErrUserNotFound = errors.New("user not found")

	// ErrUserExists is returned when creating a user whose username is taken
	ErrUserExists = errors.New("user already exists")
)

// UsersStore abstracts user storage operations
type UsersStore interface {
	FetchUser(ctx context.Context, id uint) (*model.User, error)
	FetchUserByUsername(ctx context.Context, username string) (*model.User, error)

	// FindUsers returns the users among ids that exist, ordered by id.
	// Unknown ids are dropped.
	FindUsers(ctx context.Context, ids []uint) ([]model.User, error)

	CreateUser(ctx context.Context, username string, passwordHash []byte) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
}
