// Package authenticator defines the interface for login authenticators.
//
// An authenticator turns a login and credentials into a user. The login
// endpoint looks the authenticator up by name in a Registry and refuses
// names that are not enabled.
//
// # Authenticator Interface
//
//	type Authenticator interface {
//	    Name() string
//	    Authenticate(ctx context.Context, input Input) (*model.User, error)
//	    Status(ctx context.Context) error
//	}
//
// # Built-in Authenticators
//
//   - authn: username and bcrypt password, see [github.com/doodlesbykumbi/client-project-manager/pkg/authenticator/authn]
package authenticator
