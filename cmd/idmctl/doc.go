// Command idmctl runs and administers the identity admin server.
//
// The server exposes a JSON API for managing users, roles and role
// membership, and a paged viewer over the persisted audit and error log.
//
// # Quick Start
//
//	# Run database migrations
//	idmctl db migrate
//
//	# Mint an admin bearer token
//	export IDM_TOKEN_SECRET=$(openssl rand -hex 32)
//	idmctl token issue operator
//
//	# Start the server
//	idmctl server
//
//	# Or without a database
//	idmctl server --in-memory
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - IDM_CONFIG_PATH: directory holding idm.yml (default: /etc/idm)
//   - IDM_TOKEN_SECRET: HMAC key admin tokens are signed with
//   - IDM_LOG_LEVEL: log level (debug, info, warn, error)
//   - IDM_AUDIT_ENABLED: set to false to disable audit events
//   - BIND_ADDRESS, PORT: server listen address (default: 0.0.0.0:8000)
package main
