package endpoints

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/client-project-manager/pkg/audit"
	"github.com/doodlesbykumbi/client-project-manager/pkg/authenticator/authn"
	"github.com/doodlesbykumbi/client-project-manager/pkg/config"
	"github.com/doodlesbykumbi/client-project-manager/pkg/model"
	"github.com/doodlesbykumbi/client-project-manager/pkg/server"
	"github.com/doodlesbykumbi/client-project-manager/pkg/token"
)

var (
	alice = model.User{ID: 1, Username: "alice"}
	bob   = model.User{ID: 2, Username: "bob"}

	created = time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)
)

// testEnv is a fully routed server backed by mock stores
type testEnv struct {
	srv      *server.Server
	tokens   *token.Issuer
	clients  *MockClientsStore
	projects *MockProjectsStore
	users    *MockUsersStore
	health   *MockHealthStore
	audit    *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithConfig(t, config.Default())
}

func newTestEnvWithConfig(t *testing.T, cfg *config.Config) *testEnv {
	t.Helper()

	tokens, err := token.NewIssuer(bytes.Repeat([]byte("k"), token.MinKeyLength), "cpm", time.Hour)
	require.NoError(t, err)

	env := &testEnv{
		srv:      server.New(cfg, tokens),
		tokens:   tokens,
		clients:  NewMockClientsStore(),
		projects: NewMockProjectsStore(),
		users:    NewMockUsersStore(),
		health:   NewMockHealthStore(),
		audit:    &bytes.Buffer{},
	}
	env.srv.ClientsStore = env.clients
	env.srv.ProjectsStore = env.projects
	env.srv.UsersStore = env.users
	env.srv.HealthStore = env.health
	env.srv.Authenticators.Register(authn.New(env.users, env.health))
	require.NoError(t, env.srv.Authenticators.Enable(authn.Name))

	// The bearer middleware confirms the token subject still exists.
	env.users.On("FetchUser", mock.Anything, alice.ID).Return(&alice, nil).Maybe()
	env.users.On("FetchUser", mock.Anything, bob.ID).Return(&bob, nil).Maybe()

	audit.DefaultLogger.SetWriter(env.audit)
	t.Cleanup(func() { audit.DefaultLogger.SetWriter(os.Stdout) })

	RegisterAll(env.srv)
	return env
}

// do sends a request through the router. A non-nil user is authenticated
// with a freshly issued bearer token.
func (e *testEnv) do(t *testing.T, method, path, body string, user *model.User) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if user != nil {
		signed, _, err := e.tokens.Issue(user.ID, user.Username)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+signed)
	}

	w := httptest.NewRecorder()
	e.srv.Router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) assertStoresUntouched(t *testing.T) {
	t.Helper()
	e.clients.AssertNotCalled(t, "CreateClient", mock.Anything, mock.Anything, mock.Anything)
	e.clients.AssertNotCalled(t, "UpdateClient", mock.Anything, mock.Anything, mock.Anything)
	e.clients.AssertNotCalled(t, "DeleteClient", mock.Anything, mock.Anything)
	e.projects.AssertNotCalled(t, "CreateProject", mock.Anything, mock.Anything)
}

func decodeMap(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var body []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func testClient(id uint, name string, owner model.User) *model.Client {
	return &model.Client{
		ID:          id,
		Name:        name,
		CreatedAt:   created,
		UpdatedAt:   created,
		CreatedByID: owner.ID,
		CreatedBy:   owner,
	}
}

func testProject(id uint, name string, client *model.Client, owner model.User, users ...model.User) *model.Project {
	return &model.Project{
		ID:          id,
		Name:        name,
		CreatedAt:   created,
		ClientID:    client.ID,
		Client:      *client,
		CreatedByID: owner.ID,
		CreatedBy:   owner,
		Users:       users,
	}
}
