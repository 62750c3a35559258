package endpoints

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/idm-admin/pkg/server/store"
)

func TestHandleStatus(t *testing.T) {
	t.Run("returns ok without a token", func(t *testing.T) {
		e := newTestEnv(t)

		w := e.doWithToken(t, "GET", "/", nil, "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
		assert.Equal(t, StatusResponse{Status: "ok"}, decode[StatusResponse](t, w))
	})

	t.Run("returns 503 when the store is unreachable", func(t *testing.T) {
		hs := &MockHealthStore{}
		hs.On("CheckConnectivity", mock.Anything).Return(errors.New("dial tcp: connection refused"))
		e := newMockEnv(t, store.Stores{Health: hs})

		w := e.doWithToken(t, "GET", "/", nil, "")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "error", decode[StatusResponse](t, w).Status)
	})
}

func TestMockTestServer(t *testing.T) {
	srv, sqlMock, err := NewMockTestServer(TestConfig())
	require.NoError(t, err)

	t.Run("status probes the database", func(t *testing.T) {
		ExpectConnectivityCheck(sqlMock)

		e := &testEnv{srv: srv}
		w := e.doWithToken(t, "GET", "/", nil, "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown role", func(t *testing.T) {
		ExpectRoleNotFound(sqlMock, "missing")

		token, err := GenerateTestToken(srv.Config, "admin")
		require.NoError(t, err)
		e := &testEnv{srv: srv}
		w := e.doWithToken(t, "GET", "/roles/missing", nil, token)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("known role", func(t *testing.T) {
		ExpectRoleQuery(sqlMock, "r1", "Admin")

		token, err := GenerateTestToken(srv.Config, "admin")
		require.NoError(t, err)
		e := &testEnv{srv: srv}
		w := e.doWithToken(t, "GET", "/roles/r1", nil, token)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, RoleForm{ID: "r1", Name: "Admin"}, decode[RoleForm](t, w))
	})

	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestMockDB(t *testing.T) {
	mockDB, err := NewMockDB()
	require.NoError(t, err)
	defer mockDB.Close()

	assert.NotNil(t, mockDB.DB)
	assert.NotNil(t, mockDB.Mock)
	assert.NotNil(t, mockDB.GormDB)
	assert.NoError(t, mockDB.VerifyExpectations())
}
