package endpoints

import (
	"errors"
	"net/http"
	"time"

	"github.com/doodlesbykumbi/client-project-manager/pkg/audit"
	"github.com/doodlesbykumbi/client-project-manager/pkg/authenticator"
	"github.com/doodlesbykumbi/client-project-manager/pkg/authenticator/authn"
	"github.com/doodlesbykumbi/client-project-manager/pkg/server"
	"github.com/doodlesbykumbi/client-project-manager/pkg/server/middleware"
	"github.com/doodlesbykumbi/client-project-manager/pkg/token"
)

const msgBadCredentials = "Unable to log in with provided credentials."

// LoginResponse is returned by a successful login
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RegisterAuthenticateEndpoint registers POST /authn/login, rate limited per
// client IP.
func RegisterAuthenticateEndpoint(s *server.Server) {
	clientIP := func(r *http.Request) string {
		return middleware.ClientIP(r, s.Config().IsTrustedProxy)
	}
	limiter := middleware.NewRateLimiter(middleware.PerMinute(s.Config().LoginRateLimit), clientIP)

	s.Router.Handle(
		"/authn/login",
		limiter.Middleware(handleLogin(s.Authenticators, s.Tokens, clientIP)),
	).Methods("POST")
}

// handleLogin exchanges a username and password for a bearer token. The
// credentials come from a JSON body or, failing that, HTTP Basic auth.
func handleLogin(registry *authenticator.Registry, tokens *token.Issuer, clientIP func(*http.Request) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, ok := readObject(w, r)
		if !ok {
			return
		}

		errs := fieldErrors{}
		username, _ := stringField(body, "username", 150, false, errs)
		password, _ := body["password"].(string)
		if _, present := body["username"]; !present {
			if u, p, basic := r.BasicAuth(); basic {
				username, password = u, p
			} else {
				errs.add("username", msgRequired)
			}
		}
		if username != "" && password == "" {
			if _, present := body["password"]; present {
				errs.add("password", msgBlank)
			} else {
				errs.add("password", msgRequired)
			}
		}
		if len(errs) > 0 {
			respondWithFieldErrors(w, errs)
			return
		}

		if !registry.IsEnabled(authn.Name) {
			respondWithDetail(w, http.StatusNotFound, msgNotFound)
			return
		}
		auth, _ := registry.Get(authn.Name)

		ip := clientIP(r)
		user, err := auth.Authenticate(r.Context(), authenticator.Input{
			Login:       username,
			Credentials: []byte(password),
			ClientIP:    ip,
		})
		if err != nil {
			audit.Log(audit.AuthenticateEvent{
				Username:          username,
				ClientIP:          ip,
				AuthenticatorName: auth.Name(),
				Success:           false,
				ErrorMessage:      err.Error(),
			})
			if errors.Is(err, authenticator.ErrInvalidCredentials) {
				respondWithFieldErrors(w, fieldErrors{"non_field_errors": {msgBadCredentials}})
				return
			}
			respondWithServerError(w, r, "authentication failed", err)
			return
		}

		signed, expiresAt, err := tokens.Issue(user.ID, user.Username)
		if err != nil {
			respondWithServerError(w, r, "failed to issue token", err)
			return
		}

		audit.Log(audit.AuthenticateEvent{
			Username:          user.Username,
			ClientIP:          ip,
			AuthenticatorName: auth.Name(),
			Success:           true,
		})
		respondWithJSON(w, http.StatusOK, LoginResponse{Token: signed, ExpiresAt: expiresAt.UTC()})
	}
}
