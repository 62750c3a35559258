package endpoints

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/idm-admin/pkg/audit"
	"github.com/doodlesbykumbi/idm-admin/pkg/config"
	"github.com/doodlesbykumbi/idm-admin/pkg/server"
	"github.com/doodlesbykumbi/idm-admin/pkg/server/store"
	"github.com/doodlesbykumbi/idm-admin/pkg/server/store/memory"
)

func TestMain(m *testing.M) {
	audit.DefaultLogger.SetWriter(io.Discard)
	os.Exit(m.Run())
}

type testEnv struct {
	srv   *server.Server
	mem   *memory.Store
	cfg   *config.IDMConfig
	token string
}

// newTestEnv starts a memory-backed server whose audit events are kept in
// the same store the log viewer reads
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := TestConfig()
	srv, mem := NewMemoryTestServer(cfg)
	audit.SetSink(mem)
	t.Cleanup(func() { audit.SetSink(nil) })

	token, err := GenerateTestToken(cfg, "admin")
	require.NoError(t, err)
	return &testEnv{srv: srv, mem: mem, cfg: cfg, token: token}
}

// newMockEnv builds a server over the given stores, nil entries falling back
// to an empty memory store
func newMockEnv(t *testing.T, stores store.Stores) *testEnv {
	t.Helper()

	cfg := TestConfig()
	mem := memory.New()
	fallback := mem.Stores()
	if stores.Membership == nil {
		stores.Membership = fallback.Membership
	}
	if stores.Users == nil {
		stores.Users = fallback.Users
	}
	if stores.Logs == nil {
		stores.Logs = fallback.Logs
	}
	if stores.Health == nil {
		stores.Health = fallback.Health
	}

	srv := server.NewServer(stores, cfg, nil, "127.0.0.1", "0")
	RegisterAll(srv)
	audit.SetSink(nil)

	token, err := GenerateTestToken(cfg, "admin")
	require.NoError(t, err)
	return &testEnv{srv: srv, mem: mem, cfg: cfg, token: token}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	return e.doWithToken(t, method, path, body, e.token)
}

func (e *testEnv) doWithToken(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.srv.Router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (e *testEnv) auditMessages(t *testing.T) []string {
	t.Helper()

	entries, err := e.mem.FetchLogs(t.Context(), -1)
	require.NoError(t, err)
	msgs := make([]string, 0, len(entries))
	for _, entry := range entries {
		msgs = append(msgs, entry.Message)
	}
	return msgs
}
