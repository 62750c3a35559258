package endpoints

import (
	"database/sql"
	"regexp"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/doodlesbykumbi/idm-admin/pkg/config"
	"github.com/doodlesbykumbi/idm-admin/pkg/server"
	gormstore "github.com/doodlesbykumbi/idm-admin/pkg/server/store/gorm"
)

// NewMockTestServer creates a server instance with a mocked database for unit testing
// Returns the server, sqlmock instance, and any error
func NewMockTestServer(cfg *config.IDMConfig) (*server.Server, sqlmock.Sqlmock, error) {
	mockDB, err := NewMockDB()
	if err != nil {
		return nil, nil, err
	}

	s := server.NewServer(gormstore.NewStores(mockDB.GormDB, cfg.PasswordPolicy()), cfg, nil, "127.0.0.1", "0")
	RegisterAll(s)
	return s, mockDB.Mock, nil
}

// MockDB wraps sqlmock for easier test setup
type MockDB struct {
	DB     *sql.DB
	Mock   sqlmock.Sqlmock
	GormDB *gorm.DB
}

// NewMockDB creates a new mock database connection
func NewMockDB() (*MockDB, error) {
	db, mock, err := sqlmock.New()
	if err != nil {
		return nil, err
	}

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{
			Conn:                 db,
			PreferSimpleProtocol: true,
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		},
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &MockDB{
		DB:     db,
		Mock:   mock,
		GormDB: gormDB,
	}, nil
}

// Close closes the mock database
func (m *MockDB) Close() error {
	return m.DB.Close()
}

// ExpectConnectivityCheck sets up expectation for the status probe
func (m *MockDB) ExpectConnectivityCheck() {
	ExpectConnectivityCheck(m.Mock)
}

// ExpectRoleQuery sets up expectation for role lookup by id
func (m *MockDB) ExpectRoleQuery(roleID, name string) {
	ExpectRoleQuery(m.Mock, roleID, name)
}

// ExpectRoleNotFound sets up expectation for role not found
func (m *MockDB) ExpectRoleNotFound(roleID string) {
	ExpectRoleNotFound(m.Mock, roleID)
}

// VerifyExpectations checks that all expectations were met
func (m *MockDB) VerifyExpectations() error {
	return m.Mock.ExpectationsWereMet()
}

// ExpectConnectivityCheck sets up expectation for the status probe
func ExpectConnectivityCheck(mock sqlmock.Sqlmock) {
	mock.ExpectExec(regexp.QuoteMeta(`SELECT 1`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
}

// ExpectRoleQuery sets up expectation for role lookup by id
func ExpectRoleQuery(mock sqlmock.Sqlmock, roleID, name string) {
	rows := sqlmock.NewRows([]string{"id", "name", "normalized_name", "created_at"}).
		AddRow(roleID, name, "", nil)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM roles WHERE id = $1`)).
		WithArgs(roleID).
		WillReturnRows(rows)
}

// ExpectRoleNotFound sets up expectation for role not found
func ExpectRoleNotFound(mock sqlmock.Sqlmock, roleID string) {
	mock.ExpectQuery(regexp.QuoteMeta(`FROM roles WHERE id = $1`)).
		WithArgs(roleID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "normalized_name", "created_at"}))
}
