package authn

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/doodlesbykumbi/client-project-manager/pkg/authenticator"
	"github.com/doodlesbykumbi/client-project-manager/pkg/model"
	"github.com/doodlesbykumbi/client-project-manager/pkg/server/store"
)

// Name is the registry name of the password authenticator
const Name = "authn"

// MinPasswordLength is enforced when hashing new passwords
const MinPasswordLength = 8

// Authenticator implements username/password authentication
type Authenticator struct {
	users  store.UsersStore
	health store.HealthStore
}

// New creates a new password authenticator. health may be nil.
func New(users store.UsersStore, health store.HealthStore) *Authenticator {
	return &Authenticator{users: users, health: health}
}

// Name returns the authenticator name
func (a *Authenticator) Name() string {
	return Name
}

// Authenticate checks the password against the stored bcrypt hash.
// Unknown users still pay for a hash comparison.
func (a *Authenticator) Authenticate(ctx context.Context, input authenticator.Input) (*model.User, error) {
	if input.Login == "" || len(input.Credentials) == 0 {
		return nil, authenticator.ErrInvalidCredentials
	}

	user, err := a.users.FetchUserByUsername(ctx, input.Login)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash(), input.Credentials)
			return nil, authenticator.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	if len(user.PasswordHash) == 0 {
		return nil, authenticator.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, input.Credentials); err != nil {
		return nil, authenticator.ErrInvalidCredentials
	}

	return user, nil
}

// Status checks if the authenticator is healthy
func (a *Authenticator) Status(ctx context.Context) error {
	if a.health == nil {
		return nil
	}
	return a.health.CheckConnectivity(ctx)
}

// HashPassword returns the bcrypt hash stored in users.password_hash.
func HashPassword(password []byte) ([]byte, error) {
	if len(password) < MinPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	return bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
}

var (
	dummyOnce sync.Once
	dummy     []byte
)

func dummyHash() []byte {
	dummyOnce.Do(func() {
		dummy, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	})
	return dummy
}
