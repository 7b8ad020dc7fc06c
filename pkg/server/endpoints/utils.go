package endpoints

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/client-project-manager/pkg/identity"
	"github.com/doodlesbykumbi/client-project-manager/pkg/server/middleware"
)

const (
	msgNotFound    = "Not found."
	msgServerError = "A server error occurred."
)

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithDetail(w http.ResponseWriter, code int, detail string) {
	middleware.WriteDetail(w, code, detail)
}

func respondWithFieldErrors(w http.ResponseWriter, errs fieldErrors) {
	respondWithJSON(w, http.StatusBadRequest, errs)
}

// respondWithServerError logs err and answers 500 without leaking it.
func respondWithServerError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	slog.ErrorContext(r.Context(), msg,
		"error", err,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", middleware.RequestIDFrom(r.Context()),
	)
	respondWithDetail(w, http.StatusInternalServerError, msgServerError)
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// pathID parses the {id} route variable. Ids outside the serial column's
// range can never match a row and are reported as absent.
func pathID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 31)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// requester returns the authenticated identity, answering 401 when the
// request somehow reached a handler without one.
func requester(w http.ResponseWriter, r *http.Request) (*identity.Identity, bool) {
	id, ok := identity.Get(r.Context())
	if !ok || id == nil {
		respondWithDetail(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
		return nil, false
	}
	return id, true
}

func remoteIP(id *identity.Identity) string {
	if id.RemoteIP == nil {
		return ""
	}
	return id.RemoteIP.String()
}
