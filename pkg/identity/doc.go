// Package identity provides the authenticated identity of admin API requests.
//
// Admin requests carry an HS256 signed bearer token whose roles claim lists
// the roles of the caller. Parse validates such a token and returns an
// Identity; Issue mints one.
//
// # Basic Usage
//
//	tok, expiresAt, err := identity.Issue(secret, "alice", []string{"Admin"}, time.Hour)
//
//	id, err := identity.Parse(secret, tok)
//	if err != nil {
//	    // reject the request
//	}
//	id.WithRemoteIP(clientIP)
//
//	// Store in request context
//	ctx = identity.Set(ctx, id)
//
//	// Retrieve from context
//	id, ok := identity.Get(ctx)
package identity
