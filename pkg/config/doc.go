// Package config provides configuration management for the identity admin
// server.
//
// This package handles loading and validating configuration from a YAML
// file and environment variables, tracking where each value came from.
//
// # Configuration Sources
//
// Configuration is loaded from, in increasing precedence:
//
//   - Built-in defaults
//   - $IDM_CONFIG_PATH/idm.yml (default /etc/idm/idm.yml)
//   - IDM_<ATTRIBUTE> environment variables, e.g. IDM_PAGE_SIZE
//
// # Key Configuration Options
//
//   - page_size, log_fetch_limit: log viewer paging
//   - default_user_role, admin_role: role names used by the server
//   - password_*: password policy for new and updated users
//   - token_secret: HS256 key for admin bearer tokens
//
// DATABASE_URL, BIND_ADDRESS and PORT are read directly by the commands.
package config
