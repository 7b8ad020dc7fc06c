package endpoints

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/client-project-manager/pkg/audit"
	"github.com/doodlesbykumbi/client-project-manager/pkg/model"
	"github.com/doodlesbykumbi/client-project-manager/pkg/server"
	"github.com/doodlesbykumbi/client-project-manager/pkg/server/store"
)

const (
	msgClientNotFound = "Client not found"
	msgInvalidProject = "Project name or users are invalid"
)

// RegisterProjectsEndpoints registers the project endpoints on the
// authenticated router.
func RegisterProjectsEndpoints(s *server.Server, r *mux.Router) {
	projectsStore := s.ProjectsStore
	clientsStore := s.ClientsStore
	usersStore := s.UsersStore

	// GET /projects/ - Projects the caller is assigned to
	handle(r, "/projects/", handleListProjects(projectsStore), "GET")
	// POST /projects/ - Create a project without assigned users
	handle(r, "/projects/", handleCreateProject(projectsStore, clientsStore), "POST")

	// POST /clients/{id}/projects/ - Create a project for a client and assign users
	handle(r, "/clients/{id:[0-9]+}/projects/", handleCreateClientProject(projectsStore, clientsStore, usersStore), "POST")
}

func handleListProjects(projectsStore store.ProjectsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requester(w, r)
		if !ok {
			return
		}

		projects, err := projectsStore.ListProjectsForUser(r.Context(), id.UserID)
		if err != nil {
			respondWithServerError(w, r, "failed to list projects", err)
			return
		}

		views := make([]ProjectView, 0, len(projects))
		for i := range projects {
			views = append(views, newProjectView(&projects[i]))
		}
		respondWithJSON(w, http.StatusOK, views)
	}
}

func handleCreateProject(projectsStore store.ProjectsStore, clientsStore store.ClientsStore) http.HandlerFunc {
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
		name, _ := stringField(body, "project_name", model.ProjectNameMaxLength, true, errs)
		clientID, _, err := pkField(body, "client", errs, func(pk uint) (bool, error) {
			return clientsStore.ClientExists(r.Context(), pk)
		})
		if err != nil {
			respondWithServerError(w, r, "failed to look up client", err)
			return
		}
		if len(errs) > 0 {
			respondWithFieldErrors(w, errs)
			return
		}

		project, err := projectsStore.CreateProject(r.Context(), store.NewProject{
			Name:      name,
			ClientID:  clientID,
			CreatedBy: id.UserID,
		})
		if err != nil {
			audit.Log(audit.ProjectEvent{
				Username:     id.Username,
				ClientIP:     remoteIP(id),
				ClientID:     clientID,
				Success:      false,
				ErrorMessage: err.Error(),
			})
			if errors.Is(err, store.ErrClientNotFound) {
				respondWithFieldErrors(w, fieldErrors{
					"client": {invalidPK(body["client"])},
				})
				return
			}
			respondWithServerError(w, r, "failed to create project", err)
			return
		}

		audit.Log(audit.ProjectEvent{
			Username:  id.Username,
			ClientIP:  remoteIP(id),
			ProjectID: project.ID,
			ClientID:  clientID,
			Success:   true,
		})
		respondWithJSON(w, http.StatusCreated, newProjectView(project))
	}
}

// handleCreateClientProject creates a project under the client in the path
// and assigns the users listed in the body. User entries that do not
// resolve are dropped; at least one must resolve.
func handleCreateClientProject(projectsStore store.ProjectsStore, clientsStore store.ClientsStore, usersStore store.UsersStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requester(w, r)
		if !ok {
			return
		}
		clientID, ok := pathID(r)
		if !ok {
			respondWithError(w, http.StatusNotFound, msgClientNotFound)
			return
		}

		exists, err := clientsStore.ClientExists(r.Context(), clientID)
		if err != nil {
			respondWithServerError(w, r, "failed to look up client", err)
			return
		}
		if !exists {
			respondWithError(w, http.StatusNotFound, msgClientNotFound)
			return
		}

		body, ok := readObject(w, r)
		if !ok {
			return
		}

		name, _ := stringField(body, "project_name", model.ProjectNameMaxLength, true, fieldErrors{})

		var users []model.User
		if ids := userIDs(body["users"]); len(ids) > 0 {
			users, err = usersStore.FindUsers(r.Context(), ids)
			if err != nil {
				respondWithServerError(w, r, "failed to look up users", err)
				return
			}
		}

		if name == "" || len(users) == 0 {
			respondWithError(w, http.StatusBadRequest, msgInvalidProject)
			return
		}

		assigned := make([]uint, 0, len(users))
		for _, u := range users {
			assigned = append(assigned, u.ID)
		}

		project, err := projectsStore.CreateProject(r.Context(), store.NewProject{
			Name:      name,
			ClientID:  clientID,
			CreatedBy: id.UserID,
			UserIDs:   assigned,
		})
		if err != nil {
			audit.Log(audit.ProjectEvent{
				Username:     id.Username,
				ClientIP:     remoteIP(id),
				ClientID:     clientID,
				Users:        len(assigned),
				Success:      false,
				ErrorMessage: err.Error(),
			})
			if errors.Is(err, store.ErrClientNotFound) {
				respondWithError(w, http.StatusNotFound, msgClientNotFound)
				return
			}
			respondWithServerError(w, r, "failed to create project", err)
			return
		}

		audit.Log(audit.ProjectEvent{
			Username:  id.Username,
			ClientIP:  remoteIP(id),
			ProjectID: project.ID,
			ClientID:  clientID,
			Users:     len(project.Users),
			Success:   true,
		})
		respondWithJSON(w, http.StatusCreated, newProjectDetailView(project))
	}
}
