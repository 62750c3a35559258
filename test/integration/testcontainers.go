package integration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/doodlesbykumbi/idm-admin/pkg/audit"
	"github.com/doodlesbykumbi/idm-admin/pkg/config"
	"github.com/doodlesbykumbi/idm-admin/pkg/db"
	"github.com/doodlesbykumbi/idm-admin/pkg/server"
	"github.com/doodlesbykumbi/idm-admin/pkg/server/endpoints"
	"github.com/doodlesbykumbi/idm-admin/pkg/server/store"
	gormstore "github.com/doodlesbykumbi/idm-admin/pkg/server/store/gorm"
)

const serverPort = "18080"

// TestContext holds all the resources needed for integration tests
type TestContext struct {
	DB            *gorm.DB
	RawDB         *sql.DB
	Stores        store.Stores
	Config        *config.IDMConfig
	Container     testcontainers.Container
	ServerURL     string
	DatabaseURL   string
	HTTPClient    *http.Client
	ServerProcess *exec.Cmd
	InlineServer  *server.Server
}

// NewTestContext creates a new test context with PostgreSQL testcontainer.
// Modes:
//   - Binary mode (default): Set IDM_BINARY to the path of the idmctl binary
//   - Inline mode: Set IDM_INLINE=1 to run the server in-process (no binary needed)
func NewTestContext(ctx context.Context) (*TestContext, error) {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to find project root: %w", err)
	}
	migrationsDir := filepath.Join(projectRoot, "db", "migrations")

	inlineMode := os.Getenv("IDM_INLINE") == "1"
	binaryPath := os.Getenv("IDM_BINARY")

	if !inlineMode && binaryPath == "" {
		return nil, errors.New("either IDM_BINARY or IDM_INLINE=1 is required.\n\nBinary mode:\n  go build -o idmctl ./cmd/idmctl\n  INTEGRATION_TEST=1 IDM_BINARY=$(pwd)/idmctl go test -v ./test/integration/...\n\nInline mode:\n  INTEGRATION_TEST=1 IDM_INLINE=1 go test -v ./test/integration/...")
	}

	if !inlineMode {
		if _, err := os.Stat(binaryPath); err != nil {
			return nil, fmt.Errorf("IDM_BINARY path does not exist: %s", binaryPath)
		}
		log.Printf("Using binary: %s", binaryPath)
	} else {
		log.Println("Using inline server mode")
	}

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("idm_test"),
		tcpostgres.WithUsername("idm"),
		tcpostgres.WithPassword("idm"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	if err := runMigrations(connStr, migrationsDir); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	gdb, err := gorm.Open(gormpostgres.New(gormpostgres.Config{
		DSN:                  connStr,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	rawDB, err := gdb.DB()
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get raw db: %w", err)
	}

	cfg := endpoints.TestConfig()
	tc := &TestContext{
		DB:          gdb,
		RawDB:       rawDB,
		Stores:      gormstore.NewStores(gdb, cfg.PasswordPolicy()),
		Config:      cfg,
		Container:   pgContainer,
		ServerURL:   "http://127.0.0.1:" + serverPort,
		DatabaseURL: connStr,
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
	}

	if inlineMode {
		err = tc.startInlineServer()
	} else {
		err = tc.startBinary(binaryPath)
	}
	if err == nil {
		err = waitForServer(tc.ServerURL, 30*time.Second)
	}
	if err != nil {
		tc.Close(ctx)
		return nil, fmt.Errorf("server failed to start: %w", err)
	}
	return tc, nil
}

// startInlineServer starts the server in-process (no binary needed)
func (tc *TestContext) startInlineServer() error {
	audit.SetSink(audit.NewStoreWithDB(tc.RawDB))

	s, _, err := endpoints.NewTestServer(tc.DatabaseURL, tc.Config)
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", "127.0.0.1:"+serverPort)
	if err != nil {
		return fmt.Errorf("failed to create listener on port %s: %w", serverPort, err)
	}

	go func() {
		_ = s.StartWithListener(listener)
	}()
	tc.InlineServer = s
	return nil
}

// startBinary starts the idmctl server binary
func (tc *TestContext) startBinary(binaryPath string) error {
	// Use --no-migrate since we already ran migrations in the test setup
	cmd := exec.Command(binaryPath, "server", "--no-migrate", "-b", "127.0.0.1", "-p", serverPort)
	cmd.Env = append(os.Environ(),
		"DATABASE_URL="+tc.DatabaseURL,
		"IDM_TOKEN_SECRET="+tc.Config.TokenSecret,
		"IDM_CONFIG_PATH="+os.TempDir(),
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start binary: %w", err)
	}
	tc.ServerProcess = cmd
	return nil
}

// waitForServer polls the server until it responds or times out
func waitForServer(serverURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(serverURL + "/")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("server did not become ready within %v", timeout)
}

// Reset removes everything but the seeded roles between scenarios
func (tc *TestContext) Reset() error {
	if err := endpoints.CleanupTestData(tc.DB, tc.Config); err != nil {
		return err
	}
	return tc.DB.Exec(`DELETE FROM messages`).Error
}

// Close cleans up all test resources
func (tc *TestContext) Close(ctx context.Context) {
	if tc.InlineServer != nil {
		_ = tc.InlineServer.Shutdown(ctx)
	}
	if tc.ServerProcess != nil && tc.ServerProcess.Process != nil {
		_ = tc.ServerProcess.Process.Kill()
		_ = tc.ServerProcess.Wait()
	}
	if tc.RawDB != nil {
		_ = tc.RawDB.Close()
	}
	if tc.Container != nil {
		_ = tc.Container.Terminate(ctx)
	}
}

// findProjectRoot locates the project root directory
func findProjectRoot() (string, error) {
	paths := []string{
		"../..",
		"..",
		".",
	}

	for _, p := range paths {
		goMod := filepath.Join(p, "go.mod")
		if _, err := os.Stat(goMod); err == nil {
			return filepath.Abs(p)
		}
	}

	return "", errors.New("project root not found (looking for go.mod)")
}

func runMigrations(dbURL, migrationsDir string) error {
	m, err := db.NewFileMigrator(dbURL, migrationsDir)
	if err != nil {
		return err
	}
	defer func() { _ = m.Close() }()

	_, err = m.Up()
	return err
}
