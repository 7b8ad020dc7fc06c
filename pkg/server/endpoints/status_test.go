package endpoints

import (
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/client-project-manager/pkg/server"
)

func TestHandleStatus(t *testing.T) {
	t.Run("ok when the database answers", func(t *testing.T) {
		env := newTestEnv(t)
		env.health.On("CheckConnectivity", mock.Anything).Return(nil)

		w := env.do(t, "GET", "/", "", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
		assert.JSONEq(t, `{"status":"ok","version":"`+server.Version+`"}`, w.Body.String())
	})

	t.Run("503 when the database is down", func(t *testing.T) {
		env := newTestEnv(t)
		env.health.On("CheckConnectivity", mock.Anything).Return(errors.New("dial tcp: connection refused"))

		w := env.do(t, "GET", "/", "", nil)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		got := decodeMap(t, w)
		assert.Equal(t, "error", got["status"])
		assert.NotContains(t, w.Body.String(), "connection refused")
	})
}

func TestHandleAuthenticators(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "GET", "/authenticators", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"installed":["authn"],"enabled":["authn"]}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.health.On("CheckConnectivity", mock.Anything).Return(nil)

	w := env.do(t, "GET", "/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, "GET", "/metrics", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `cpm_http_requests_total{code="200",method="GET",route="/"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestNotFound(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "GET", "/nope", "", &alice)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"detail":"Not found."}`, w.Body.String())
}

func TestMetricsCountUnmatchedRequests(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "GET", "/nope", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, "GET", "/metrics", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `cpm_http_requests_total{code="404",method="GET",route="unmatched"} 1`)
}
