//go:build !embed_migrations

package main

import (
	"fmt"

	"github.com/doodlesbykumbi/idm-admin/pkg/db"
)

const defaultMigrationsPath = "db/migrations"

func newMigrator(dbURL string) (*db.Migrator, error) {
	fmt.Printf("Running migrations from file://%s\n", defaultMigrationsPath)
	return db.NewFileMigrator(dbURL, defaultMigrationsPath)
}
