// Package gorm provides GORM-based implementations of the store interfaces
// defined in the parent store package.
//
// This package contains concrete implementations that use GORM for database
// operations against the schema in db/migrations. Uniqueness of role and user
// names is enforced by the normalized-name indexes; inserts use
// ON CONFLICT DO NOTHING and report a validation failure when no row was
// written.
package gorm
