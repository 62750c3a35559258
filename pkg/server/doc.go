// Package server provides the HTTP server for the identity admin API.
//
// The server routes requests with gorilla/mux and logs every request with
// gorilla/handlers. It owns the stores the endpoint handlers work against
// and the middleware that checks admin bearer tokens.
//
// # Server Setup
//
//	srv := server.NewServer(stores, cfg, logger, "0.0.0.0", "8000")
//	endpoints.RegisterAll(srv)
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Endpoints
//
// API endpoints are registered via the endpoints subpackage:
//
//   - / - store connectivity status
//   - /roles, /roles/{id} - role listing and administration
//   - /roles/{id}/members - membership view and reconciliation
//   - /users, /users/{id} - user administration
//   - /register - anonymous self registration
//   - /logs - paged log viewer
package server
