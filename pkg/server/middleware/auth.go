package middleware

import (
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/doodlesbykumbi/client-project-manager/pkg/identity"
	"github.com/doodlesbykumbi/client-project-manager/pkg/server/store"
	"github.com/doodlesbykumbi/client-project-manager/pkg/token"
)

const (
	msgNotProvided  = "Authentication credentials were not provided."
	msgInvalidToken = "Invalid token."
)

// TokenVerifier checks a bearer token and returns its claims
type TokenVerifier interface {
	Verify(tokenString string) (*token.Claims, error)
}

// BearerAuthenticator is middleware that validates bearer tokens
type BearerAuthenticator struct {
	Tokens       TokenVerifier
	Users        store.UsersStore
	TrustedProxy func(ip string) bool
}

// NewBearerAuthenticator creates a new bearer token middleware
func NewBearerAuthenticator(tokens TokenVerifier, users store.UsersStore, trustedProxy func(ip string) bool) *BearerAuthenticator {
	return &BearerAuthenticator{Tokens: tokens, Users: users, TrustedProxy: trustedProxy}
}

// Middleware rejects requests without a valid bearer token and stores the
// caller's identity in the request context.
func (b *BearerAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			unauthorized(w, msgNotProvided)
			return
		}

		scheme, tokenString, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			unauthorized(w, msgNotProvided)
			return
		}
		tokenString = strings.TrimSpace(tokenString)
		if tokenString == "" {
			unauthorized(w, msgInvalidToken)
			return
		}

		claims, err := b.Tokens.Verify(tokenString)
		if err != nil {
			unauthorized(w, msgInvalidToken)
			return
		}

		id, err := identity.FromClaims(claims)
		if err != nil {
			unauthorized(w, msgInvalidToken)
			return
		}

		if b.Users != nil {
			if _, err := b.Users.FetchUser(r.Context(), id.UserID); err != nil {
				if errors.Is(err, store.ErrUserNotFound) {
					unauthorized(w, msgInvalidToken)
					return
				}
				slog.ErrorContext(r.Context(), "failed to look up token subject", "user_id", id.UserID, "error", err)
				WriteDetail(w, http.StatusInternalServerError, "A server error occurred.")
				return
			}
		}

		id.WithRemoteIP(net.ParseIP(ClientIP(r, b.TrustedProxy)))
		next.ServeHTTP(w, r.WithContext(identity.Set(r.Context(), id)))
	})
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	WriteDetail(w, http.StatusUnauthorized, msg)
}
