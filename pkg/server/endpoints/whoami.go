package endpoints

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/client-project-manager/pkg/server"
)

// WhoamiResponse represents the response from the /whoami endpoint
type WhoamiResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	ClientIP  string    `json:"client_ip,omitempty"`
	TokenIAT  int64     `json:"token_iat,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RegisterWhoamiEndpoint registers GET /whoami on the authenticated router
func RegisterWhoamiEndpoint(s *server.Server, r *mux.Router) {
	r.HandleFunc("/whoami", handleWhoami()).Methods("GET")
}

func handleWhoami() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requester(w, r)
		if !ok {
			return
		}

		response := WhoamiResponse{
			ID:        id.UserID,
			Username:  id.Username,
			ClientIP:  remoteIP(id),
			ExpiresAt: id.ExpiresAt.UTC(),
		}
		if !id.IssuedAt.IsZero() {
			response.TokenIAT = id.IssuedAt.Unix()
		}
		respondWithJSON(w, http.StatusOK, response)
	}
}
