package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/idm-admin/pkg/identity"
)

var testSecret = []byte("test-secret")

func issue(t *testing.T, roles ...string) string {
	t.Helper()
	tok, _, err := identity.Issue(testSecret, "alice", roles, time.Hour)
	require.NoError(t, err)
	return tok
}

func TestAdminAuthenticator(t *testing.T) {
	auth := NewAdminAuthenticator(testSecret, "Admin")

	var seen *identity.Identity
	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = identity.Get(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized, wantBody: "Authorization missing"},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized, wantBody: "Malformed authorization header"},
		{name: "empty token", header: "Bearer ", wantStatus: http.StatusUnauthorized, wantBody: "Malformed authorization header"},
		{name: "invalid token", header: "Bearer nope", wantStatus: http.StatusUnauthorized, wantBody: "Invalid token"},
		{name: "missing admin role", header: "Bearer " + issue(t, "User"), wantStatus: http.StatusForbidden, wantBody: "Forbidden"},
		{name: "admin", header: "Bearer " + issue(t, "User", "Admin"), wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/roles", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rr.Body.String())
				assert.Nil(t, seen)
			}
		})
	}

	require.NotNil(t, seen)
	assert.Equal(t, "alice", seen.Login)
	assert.Equal(t, "192.0.2.1", seen.ClientIP())
}

func TestAnonymous(t *testing.T) {
	var seen *identity.Identity
	handler := Anonymous(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = identity.Get(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/register", nil))

	require.NotNil(t, seen)
	assert.Equal(t, "anonymous", seen.Login)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.2.3:4567"
	assert.Equal(t, "10.1.2.3", ClientIP(req))

	req.RemoteAddr = "bogus"
	assert.Equal(t, "bogus", ClientIP(req))
}
