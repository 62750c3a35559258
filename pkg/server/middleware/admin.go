package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/doodlesbykumbi/idm-admin/pkg/identity"
)

// AdminAuthenticator is middleware that admits only bearer tokens carrying
// the admin role
type AdminAuthenticator struct {
	secret    []byte
	adminRole string
}

// NewAdminAuthenticator creates a new admin authenticator middleware
func NewAdminAuthenticator(secret []byte, adminRole string) *AdminAuthenticator {
	return &AdminAuthenticator{secret: secret, adminRole: adminRole}
}

// Middleware returns an HTTP middleware that validates bearer tokens
func (a *AdminAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")

		if len(authHeader) == 0 {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Authorization missing"))
			return
		}

		scheme, tokenStr, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tokenStr) == "" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Malformed authorization header"))
			return
		}

		id, err := identity.Parse(a.secret, strings.TrimSpace(tokenStr))
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Invalid token"))
			return
		}

		if !id.HasRole(a.adminRole) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte("Forbidden"))
			return
		}

		id.WithRemoteIP(ClientIP(r))
		next.ServeHTTP(w, r.WithContext(identity.Set(r.Context(), id)))
	})
}

// Anonymous stores an anonymous identity for routes that need no token
func Anonymous(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := identity.Anonymous().WithRemoteIP(ClientIP(r))
		next.ServeHTTP(w, r.WithContext(identity.Set(r.Context(), id)))
	})
}

// ClientIP returns the host part of the request's remote address
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
