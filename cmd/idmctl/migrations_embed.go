//go:build embed_migrations

package main

import (
	"github.com/doodlesbykumbi/idm-admin/pkg/db"
)

func newMigrator(dbURL string) (*db.Migrator, error) {
	return db.NewMigrator(dbURL)
}
