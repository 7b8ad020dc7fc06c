package endpoints

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/client-project-manager/pkg/config"
	"github.com/doodlesbykumbi/client-project-manager/pkg/model"
	"github.com/doodlesbykumbi/client-project-manager/pkg/server/store"
)

func TestCreateClient_RequiresAuthentication(t *testing.T) {
	t.Run("no credentials", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do(t, "POST", "/clients/", `{"client_name":"Acme"}`, nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Authentication credentials were not provided.", decodeMap(t, w)["detail"])
		env.assertStoresUntouched(t)
	})

	t.Run("invalid token", func(t *testing.T) {
		env := newTestEnv(t)

		req := httptest.NewRequest("POST", "/clients/", strings.NewReader(`{"client_name":"Acme"}`))
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		w := httptest.NewRecorder()
		env.srv.Router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid token.", decodeMap(t, w)["detail"])
		env.assertStoresUntouched(t)
	})
}

func TestCreateClient_CreatorIsRequester(t *testing.T) {
	env := newTestEnv(t)
	env.clients.On("CreateClient", mock.Anything, "Acme", alice.ID).
		Return(testClient(10, "Acme", alice), nil)

	body := `{"client_name":"  Acme ","created_by":2,"id":99,"created_at":"1999-01-01T00:00:00Z"}`
	w := env.do(t, "POST", "/clients/", body, &alice)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	got := decodeMap(t, w)
	assert.Equal(t, float64(10), got["id"])
	assert.Equal(t, "Acme", got["client_name"])
	assert.Equal(t, "alice", got["created_by"])
	assert.Equal(t, "2024-10-01T12:00:00Z", got["created_at"])
	assert.NotContains(t, got, "updated_at")
	assert.NotContains(t, got, "projects")
	env.clients.AssertExpectations(t)

	assert.Contains(t, env.audit.String(), "alice created client 10")
}

func TestCreateClient_WithoutTrailingSlash(t *testing.T) {
	env := newTestEnv(t)
	env.clients.On("CreateClient", mock.Anything, "Acme", bob.ID).
		Return(testClient(3, "Acme", bob), nil)

	w := env.do(t, "POST", "/clients", `{"client_name":"Acme"}`, &bob)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "bob", decodeMap(t, w)["created_by"])
}

func TestCreateClient_Validation(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
		want  string
	}{
		{"missing", `{}`, "client_name", "This field is required."},
		{"empty body", ``, "client_name", "This field is required."},
		{"blank", `{"client_name":"   "}`, "client_name", "This field may not be blank."},
		{"null", `{"client_name":null}`, "client_name", "This field may not be null."},
		{"not a string", `{"client_name":["Acme"]}`, "client_name", "Not a valid string."},
		{"too long", `{"client_name":"` + strings.Repeat("x", model.ClientNameMaxLength+1) + `"}`,
			"client_name", "Ensure this field has no more than 100 characters."},
		{"list body", `[1,2]`, "non_field_errors", "Invalid data. Expected a dictionary, but got list."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			w := env.do(t, "POST", "/clients/", tt.body, &alice)

			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Equal(t, []interface{}{tt.want}, decodeMap(t, w)[tt.field])
			env.assertStoresUntouched(t)
		})
	}
}

func TestCreateClient_MalformedJSON(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "POST", "/clients/", `{"client_name":`, &alice)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, strings.HasPrefix(decodeMap(t, w)["detail"].(string), "JSON parse error - "))
	env.assertStoresUntouched(t)
}

func TestCreateClient_StoreError(t *testing.T) {
	env := newTestEnv(t)
	env.clients.On("CreateClient", mock.Anything, "Acme", alice.ID).
		Return(nil, errors.New("connection reset"))

	w := env.do(t, "POST", "/clients/", `{"client_name":"Acme"}`, &alice)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "A server error occurred.", decodeMap(t, w)["detail"])
	assert.NotContains(t, w.Body.String(), "connection reset")
}

func TestListClients(t *testing.T) {
	t.Run("renders list view", func(t *testing.T) {
		env := newTestEnv(t)
		env.clients.On("ListClients", mock.Anything, 0, 0).Return([]model.Client{
			*testClient(1, "Acme", alice),
			*testClient(2, "Globex", bob),
		}, nil)

		w := env.do(t, "GET", "/clients/", "", &alice)

		require.Equal(t, http.StatusOK, w.Code)
		got := decodeList(t, w)
		require.Len(t, got, 2)
		assert.Equal(t, "Globex", got[1]["client_name"])
		assert.Equal(t, "bob", got[1]["created_by"])
		assert.NotContains(t, got[0], "projects")
	})

	t.Run("empty list is an array", func(t *testing.T) {
		env := newTestEnv(t)
		env.clients.On("ListClients", mock.Anything, 0, 0).Return([]model.Client{}, nil)

		w := env.do(t, "GET", "/clients/", "", &alice)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("limit is capped by configuration", func(t *testing.T) {
		cfg := config.Default()
		cfg.APIListLimitMax = 5
		env := newTestEnvWithConfig(t, cfg)
		env.clients.On("ListClients", mock.Anything, 5, 10).Return([]model.Client{}, nil)

		w := env.do(t, "GET", "/clients/?limit=50&offset=10", "", &alice)

		assert.Equal(t, http.StatusOK, w.Code)
		env.clients.AssertExpectations(t)
	})

	t.Run("no limit returns every client", func(t *testing.T) {
		cfg := config.Default()
		cfg.APIListLimitMax = 2
		env := newTestEnvWithConfig(t, cfg)
		env.clients.On("ListClients", mock.Anything, 0, 0).Return([]model.Client{
			*testClient(1, "Acme", alice),
			*testClient(2, "Globex", bob),
			*testClient(3, "Initech", alice),
		}, nil)

		w := env.do(t, "GET", "/clients/", "", &alice)

		require.Equal(t, http.StatusOK, w.Code)
		got := decodeList(t, w)
		require.Len(t, got, 3)
		assert.Equal(t, "Initech", got[2]["client_name"])
		env.clients.AssertExpectations(t)
	})

	t.Run("offset without limit", func(t *testing.T) {
		env := newTestEnv(t)
		env.clients.On("ListClients", mock.Anything, 0, 4).Return([]model.Client{}, nil)

		w := env.do(t, "GET", "/clients/?offset=4", "", &alice)

		assert.Equal(t, http.StatusOK, w.Code)
		env.clients.AssertExpectations(t)
	})

	t.Run("invalid limit", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do(t, "GET", "/clients/?limit=abc", "", &alice)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeMap(t, w), "limit")
		env.clients.AssertNotCalled(t, "ListClients", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestGetClient(t *testing.T) {
	client := testClient(4, "Acme", alice)
	client.Projects = []model.Project{
		*testProject(7, "Website", client, bob),
		*testProject(8, "App", client, alice),
	}

	t.Run("summary projects by default", func(t *testing.T) {
		env := newTestEnv(t)
		env.clients.On("FetchClient", mock.Anything, uint(4)).Return(client, nil)

		w := env.do(t, "GET", "/clients/4/", "", &alice)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{
			"id": 4,
			"client_name": "Acme",
			"created_at": "2024-10-01T12:00:00Z",
			"updated_at": "2024-10-01T12:00:00Z",
			"created_by": "alice",
			"projects": [
				{"id": 7, "project_name": "Website"},
				{"id": 8, "project_name": "App"}
			]
		}`, w.Body.String())
	})

	t.Run("full projects", func(t *testing.T) {
		env := newTestEnv(t)
		env.clients.On("FetchClient", mock.Anything, uint(4)).Return(client, nil)

		w := env.do(t, "GET", "/clients/4?projects=full", "", &alice)

		require.Equal(t, http.StatusOK, w.Code)
		projects := decodeMap(t, w)["projects"].([]interface{})
		require.Len(t, projects, 2)
		first := projects[0].(map[string]interface{})
		assert.Equal(t, "bob", first["created_by"])
		assert.Equal(t, "2024-10-01T12:00:00Z", first["created_at"])
	})

	t.Run("unknown variant", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do(t, "GET", "/clients/4/?projects=everything", "", &alice)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"projects":["Must be one of: summary, full."]}`, w.Body.String())
	})

	t.Run("client without projects", func(t *testing.T) {
		env := newTestEnv(t)
		env.clients.On("FetchClient", mock.Anything, uint(5)).Return(testClient(5, "Initech", bob), nil)

		w := env.do(t, "GET", "/clients/5/", "", &alice)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []interface{}{}, decodeMap(t, w)["projects"])
	})
}

func TestClientItem_NotFound(t *testing.T) {
	tests := []struct {
		method string
		path   string
		body   string
		setup  func(env *testEnv)
	}{
		{"GET", "/clients/99/", "", func(env *testEnv) {
			env.clients.On("FetchClient", mock.Anything, uint(99)).Return(nil, store.ErrClientNotFound)
		}},
		{"PUT", "/clients/99/", `{"client_name":"x"}`, func(env *testEnv) {
			env.clients.On("ClientExists", mock.Anything, uint(99)).Return(false, nil)
		}},
		{"PATCH", "/clients/99/", `{"client_name":"x"}`, func(env *testEnv) {
			env.clients.On("ClientExists", mock.Anything, uint(99)).Return(false, nil)
		}},
		{"DELETE", "/clients/99/", "", func(env *testEnv) {
			env.clients.On("DeleteClient", mock.Anything, uint(99)).Return(store.ErrClientNotFound)
		}},
		{"GET", "/clients/abc/", "", func(env *testEnv) {}},
		{"GET", "/clients/99999999999999999999/", "", func(env *testEnv) {}},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			env := newTestEnv(t)
			tt.setup(env)

			w := env.do(t, tt.method, tt.path, tt.body, &alice)

			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.JSONEq(t, `{"detail":"Not found."}`, w.Body.String())
			env.clients.AssertNotCalled(t, "UpdateClient", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestUpdateClient(t *testing.T) {
	isName := func(want string) interface{} {
		return mock.MatchedBy(func(name *string) bool { return name != nil && *name == want })
	}

	t.Run("PUT renames", func(t *testing.T) {
		env := newTestEnv(t)
		updated := testClient(4, "Renamed", alice)
		updated.UpdatedAt = created.Add(time.Hour)
		env.clients.On("ClientExists", mock.Anything, uint(4)).Return(true, nil)
		env.clients.On("UpdateClient", mock.Anything, uint(4), isName("Renamed")).Return(updated, nil)

		w := env.do(t, "PUT", "/clients/4/", `{"client_name":"Renamed","created_by":2}`, &bob)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.JSONEq(t, `{
			"id": 4,
			"client_name": "Renamed",
			"created_at": "2024-10-01T12:00:00Z",
			"updated_at": "2024-10-01T13:00:00Z",
			"created_by": "alice"
		}`, w.Body.String())
		assert.Contains(t, env.audit.String(), "bob updated client 4")
	})

	t.Run("PUT requires client_name", func(t *testing.T) {
		env := newTestEnv(t)
		env.clients.On("ClientExists", mock.Anything, uint(4)).Return(true, nil)

		w := env.do(t, "PUT", "/clients/4/", `{}`, &alice)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"client_name":["This field is required."]}`, w.Body.String())
		env.assertStoresUntouched(t)
	})

	t.Run("PATCH without name only touches updated_at", func(t *testing.T) {
		env := newTestEnv(t)
		env.clients.On("ClientExists", mock.Anything, uint(4)).Return(true, nil)
		env.clients.On("UpdateClient", mock.Anything, uint(4),
			mock.MatchedBy(func(name *string) bool { return name == nil })).
			Return(testClient(4, "Acme", alice), nil)

		w := env.do(t, "PATCH", "/clients/4", `{}`, &alice)

		assert.Equal(t, http.StatusOK, w.Code)
		env.clients.AssertExpectations(t)
	})

	t.Run("PATCH validates a present name", func(t *testing.T) {
		env := newTestEnv(t)
		env.clients.On("ClientExists", mock.Anything, uint(4)).Return(true, nil)

		w := env.do(t, "PATCH", "/clients/4/", `{"client_name":""}`, &alice)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"client_name":["This field may not be blank."]}`, w.Body.String())
		env.assertStoresUntouched(t)
	})
}

func TestDeleteClient(t *testing.T) {
	env := newTestEnv(t)
	env.clients.On("DeleteClient", mock.Anything, uint(4)).Return(nil)

	w := env.do(t, "DELETE", "/clients/4/", "", &alice)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
	env.clients.AssertExpectations(t)
	assert.Contains(t, env.audit.String(), "alice deleted client 4")
}

func TestClients_MethodNotAllowed(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "DELETE", "/clients/", "", &alice)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.JSONEq(t, `{"detail":"Method \"DELETE\" not allowed."}`, w.Body.String())
}

func TestCreateThenGet_RoundTrip(t *testing.T) {
	env := newTestEnv(t)
	stored := testClient(12, "Acme", alice)
	env.clients.On("CreateClient", mock.Anything, "Acme", alice.ID).Return(stored, nil)
	env.clients.On("FetchClient", mock.Anything, uint(12)).Return(stored, nil)

	w := env.do(t, "POST", "/clients/", `{"client_name":"Acme"}`, &alice)
	require.Equal(t, http.StatusCreated, w.Code)
	createdView := decodeMap(t, w)

	w = env.do(t, "GET", "/clients/12/", "", &bob)
	require.Equal(t, http.StatusOK, w.Code)
	fetched := decodeMap(t, w)

	assert.Equal(t, createdView["client_name"], fetched["client_name"])
	assert.Equal(t, createdView["created_by"], fetched["created_by"])
	assert.Equal(t, createdView["created_at"], fetched["created_at"])
	assert.Equal(t, fetched["created_at"], fetched["updated_at"])
	env.clients.AssertNotCalled(t, "UpdateClient", mock.Anything, mock.Anything, mock.Anything)
}
