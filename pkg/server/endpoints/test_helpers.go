package endpoints

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/doodlesbykumbi/idm-admin/pkg/config"
	"github.com/doodlesbykumbi/idm-admin/pkg/identity"
	"github.com/doodlesbykumbi/idm-admin/pkg/server"
	gormstore "github.com/doodlesbykumbi/idm-admin/pkg/server/store/gorm"
	"github.com/doodlesbykumbi/idm-admin/pkg/server/store/memory"
)

// TestTokenSecret signs tokens minted by GenerateTestToken
const TestTokenSecret = "test-token-secret"

// TestConfig returns the default configuration with TestTokenSecret set
func TestConfig() *config.IDMConfig {
	cfg := config.Default()
	cfg.TokenSecret = TestTokenSecret
	return cfg
}

// NewTestServer creates a server instance for testing
// It requires a running PostgreSQL database with migrations applied
func NewTestServer(dbURL string, cfg *config.IDMConfig) (*server.Server, *gorm.DB, error) {
	db, err := gorm.Open(
		postgres.New(postgres.Config{
			DSN:                  dbURL,
			PreferSimpleProtocol: true,
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		},
	)
	if err != nil {
		return nil, nil, err
	}

	s := server.NewServer(gormstore.NewStores(db, cfg.PasswordPolicy()), cfg, nil, "127.0.0.1", "0")
	RegisterAll(s)
	return s, db, nil
}

// NewMemoryTestServer creates a server backed by an in-memory store
func NewMemoryTestServer(cfg *config.IDMConfig) (*server.Server, *memory.Store) {
	mem := memory.New(memory.WithPasswordPolicy(cfg.PasswordPolicy()))
	s := server.NewServer(mem.Stores(), cfg, nil, "127.0.0.1", "0")
	RegisterAll(s)
	return s, mem
}

// CleanupTestData removes users and every role but the seeded ones
func CleanupTestData(db *gorm.DB, cfg *config.IDMConfig) error {
	// Memberships cascade
	if err := db.Exec(`DELETE FROM users`).Error; err != nil {
		return err
	}
	return db.Exec(`DELETE FROM roles WHERE name NOT IN (?, ?)`, cfg.AdminRole, cfg.DefaultUserRole).Error
}

// GenerateTestToken creates a valid admin bearer token for testing
func GenerateTestToken(cfg *config.IDMConfig, login string) (string, error) {
	token, _, err := identity.Issue([]byte(cfg.TokenSecret), login, []string{cfg.AdminRole}, cfg.TokenLifetime())
	return token, err
}
