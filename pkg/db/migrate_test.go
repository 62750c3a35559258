package db

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	migrations "github.com/doodlesbykumbi/idm-admin/db"
)

func TestWithMigrationsTable(t *testing.T) {
	assert.Equal(t,
		"postgres://localhost/idm?x-migrations-table=idm_schema_migrations",
		withMigrationsTable("postgres://localhost/idm"),
	)
	assert.Equal(t,
		"postgres://localhost/idm?sslmode=disable&x-migrations-table=idm_schema_migrations",
		withMigrationsTable("postgres://localhost/idm?sslmode=disable"),
	)
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(migrations.Migrations, "migrations")
	require.NoError(t, err)

	up := map[string]bool{}
	down := map[string]bool{}
	for _, entry := range entries {
		name := entry.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			up[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			down[strings.TrimSuffix(name, ".down.sql")] = true
		}
	}

	require.NotEmpty(t, up)
	assert.Equal(t, up, down)
}

func TestConnectRequiresURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := Connect(Config{})
	assert.EqualError(t, err, "DATABASE_URL environment variable is required")
}
