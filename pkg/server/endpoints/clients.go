package endpoints

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/client-project-manager/pkg/audit"
	"github.com/doodlesbykumbi/client-project-manager/pkg/config"
	"github.com/doodlesbykumbi/client-project-manager/pkg/model"
	"github.com/doodlesbykumbi/client-project-manager/pkg/server"
	"github.com/doodlesbykumbi/client-project-manager/pkg/server/store"
)

// RegisterClientsEndpoints registers the client collection and item
// endpoints on the authenticated router.
func RegisterClientsEndpoints(s *server.Server, r *mux.Router) {
	clientsStore := s.ClientsStore

	// GET /clients/ - List clients
	handle(r, "/clients/", handleListClients(clientsStore, s.Config), "GET")
	// POST /clients/ - Create a client owned by the caller
	handle(r, "/clients/", handleCreateClient(clientsStore), "POST")

	// GET /clients/{id}/ - Client with its projects
	handle(r, "/clients/{id:[0-9]+}/", handleGetClient(clientsStore), "GET")
	// PUT/PATCH /clients/{id}/ - Rename a client
	handle(r, "/clients/{id:[0-9]+}/", handleUpdateClient(clientsStore, false), "PUT")
	handle(r, "/clients/{id:[0-9]+}/", handleUpdateClient(clientsStore, true), "PATCH")
	// DELETE /clients/{id}/ - Delete a client and its projects
	handle(r, "/clients/{id:[0-9]+}/", handleDeleteClient(clientsStore), "DELETE")
}

func handleListClients(clientsStore store.ClientsStore, cfg func() *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		errs := fieldErrors{}

		// Without a limit parameter every client is returned.
		limit := 0
		if v := query.Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				errs.add("limit", "A valid positive integer is required.")
			}
			limit = cfg().ListLimit(n)
		}
		offset := 0
		if v := query.Get("offset"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				errs.add("offset", "A valid positive integer is required.")
			}
			offset = n
		}
		if len(errs) > 0 {
			respondWithFieldErrors(w, errs)
			return
		}

		clients, err := clientsStore.ListClients(r.Context(), limit, offset)
		if err != nil {
			respondWithServerError(w, r, "failed to list clients", err)
			return
		}

		views := make([]ClientView, 0, len(clients))
		for i := range clients {
			views = append(views, newClientView(&clients[i]))
		}
		respondWithJSON(w, http.StatusOK, views)
	}
}

func handleCreateClient(clientsStore store.ClientsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requester(w, r)
		if !ok {
			return
		}

		body, ok := readObject(w, r)
		if !ok {
			return
		}

		errs := fieldErrors{}
		name, _ := stringField(body, "client_name", model.ClientNameMaxLength, true, errs)
		if len(errs) > 0 {
			respondWithFieldErrors(w, errs)
			return
		}

		client, err := clientsStore.CreateClient(r.Context(), name, id.UserID)
		if err != nil {
			audit.Log(audit.ClientEvent{
				Username:     id.Username,
				ClientIP:     remoteIP(id),
				Operation:    audit.OperationCreate,
				Success:      false,
				ErrorMessage: err.Error(),
			})
			respondWithServerError(w, r, "failed to create client", err)
			return
		}

		audit.Log(audit.ClientEvent{
			Username:  id.Username,
			ClientIP:  remoteIP(id),
			ClientID:  client.ID,
			Operation: audit.OperationCreate,
			Success:   true,
		})
		respondWithJSON(w, http.StatusCreated, newClientView(client))
	}
}

func handleGetClient(clientsStore store.ClientsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, ok := pathID(r)
		if !ok {
			respondWithDetail(w, http.StatusNotFound, msgNotFound)
			return
		}

		variant := ProjectsSummary
		if v, present := r.URL.Query()["projects"]; present && len(v) > 0 {
			variant = v[0]
		}
		if variant != ProjectsSummary && variant != ProjectsFull {
			respondWithFieldErrors(w, fieldErrors{
				"projects": {"Must be one of: " + ProjectsSummary + ", " + ProjectsFull + "."},
			})
			return
		}

		client, err := clientsStore.FetchClient(r.Context(), clientID)
		if err != nil {
			if errors.Is(err, store.ErrClientNotFound) {
				respondWithDetail(w, http.StatusNotFound, msgNotFound)
				return
			}
			respondWithServerError(w, r, "failed to fetch client", err)
			return
		}

		view, err := newClientDetailView(client, variant)
		if err != nil {
			respondWithServerError(w, r, "failed to render client", err)
			return
		}
		respondWithJSON(w, http.StatusOK, view)
	}
}

// handleUpdateClient serves PUT and, with partial set, PATCH. Only the name
// is writable; updated_at moves on every successful update.
func handleUpdateClient(clientsStore store.ClientsStore, partial bool) http.HandlerFunc {
	operation := "update"
	if partial {
		operation = "partially update"
	}

	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requester(w, r)
		if !ok {
			return
		}
		clientID, ok := pathID(r)
		if !ok {
			respondWithDetail(w, http.StatusNotFound, msgNotFound)
			return
		}

		exists, err := clientsStore.ClientExists(r.Context(), clientID)
		if err != nil {
			respondWithServerError(w, r, "failed to look up client", err)
			return
		}
		if !exists {
			respondWithDetail(w, http.StatusNotFound, msgNotFound)
			return
		}

		body, ok := readObject(w, r)
		if !ok {
			return
		}

		errs := fieldErrors{}
		var name *string
		if v, present := stringField(body, "client_name", model.ClientNameMaxLength, !partial, errs); present {
			name = &v
		}
		if len(errs) > 0 {
			respondWithFieldErrors(w, errs)
			return
		}

		client, err := clientsStore.UpdateClient(r.Context(), clientID, name)
		if err != nil {
			if errors.Is(err, store.ErrClientNotFound) {
				respondWithDetail(w, http.StatusNotFound, msgNotFound)
				return
			}
			audit.Log(audit.ClientEvent{
				Username:     id.Username,
				ClientIP:     remoteIP(id),
				ClientID:     clientID,
				Operation:    audit.OperationUpdate,
				Success:      false,
				ErrorMessage: err.Error(),
			})
			respondWithServerError(w, r, "failed to "+operation+" client", err)
			return
		}

		audit.Log(audit.ClientEvent{
			Username:  id.Username,
			ClientIP:  remoteIP(id),
			ClientID:  client.ID,
			Operation: audit.OperationUpdate,
			Success:   true,
		})
		respondWithJSON(w, http.StatusOK, newClientUpdateView(client))
	}
}

func handleDeleteClient(clientsStore store.ClientsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requester(w, r)
		if !ok {
			return
		}
		clientID, ok := pathID(r)
		if !ok {
			respondWithDetail(w, http.StatusNotFound, msgNotFound)
			return
		}

		if err := clientsStore.DeleteClient(r.Context(), clientID); err != nil {
			if errors.Is(err, store.ErrClientNotFound) {
				respondWithDetail(w, http.StatusNotFound, msgNotFound)
				return
			}
			audit.Log(audit.ClientEvent{
				Username:     id.Username,
				ClientIP:     remoteIP(id),
				ClientID:     clientID,
				Operation:    audit.OperationDelete,
				Success:      false,
				ErrorMessage: err.Error(),
			})
			respondWithServerError(w, r, "failed to delete client", err)
			return
		}

		audit.Log(audit.ClientEvent{
			Username:  id.Username,
			ClientIP:  remoteIP(id),
			ClientID:  clientID,
			Operation: audit.OperationDelete,
			Success:   true,
		})
		w.WriteHeader(http.StatusNoContent)
	}
}
