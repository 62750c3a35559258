package endpoints

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/doodlesbykumbi/idm-admin/pkg/server/store"
)

// MockMembershipStore implements store.MembershipStore for testing using testify/mock
type MockMembershipStore struct {
	mock.Mock
}

func (m *MockMembershipStore) FindUser(ctx context.Context, id string) (*store.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.User), args.Error(1)
}

func (m *MockMembershipStore) FindRole(ctx context.Context, id string) (*store.Role, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Role), args.Error(1)
}

func (m *MockMembershipStore) ListUsers(ctx context.Context) ([]store.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.User), args.Error(1)
}

func (m *MockMembershipStore) ListRoles(ctx context.Context) ([]store.Role, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Role), args.Error(1)
}

func (m *MockMembershipStore) IsMember(ctx context.Context, user store.User, roleName string) (bool, error) {
	args := m.Called(ctx, user, roleName)
	return args.Bool(0), args.Error(1)
}

func (m *MockMembershipStore) AddToRole(ctx context.Context, user store.User, roleName string) error {
	args := m.Called(ctx, user, roleName)
	return args.Error(0)
}

func (m *MockMembershipStore) RemoveFromRole(ctx context.Context, user store.User, roleName string) error {
	args := m.Called(ctx, user, roleName)
	return args.Error(0)
}

func (m *MockMembershipStore) CreateRole(ctx context.Context, name string) (*store.Role, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Role), args.Error(1)
}

func (m *MockMembershipStore) DeleteRole(ctx context.Context, role store.Role) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

func (m *MockMembershipStore) RenameRole(ctx context.Context, role store.Role, newName string) error {
	args := m.Called(ctx, role, newName)
	return args.Error(0)
}

// MockLogsStore implements store.LogsStore for testing using testify/mock
type MockLogsStore struct {
	mock.Mock
}

func (m *MockLogsStore) FetchLogs(ctx context.Context, limit int) ([]store.LogEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.LogEntry), args.Error(1)
}

// MockHealthStore implements store.HealthStore for testing using testify/mock
type MockHealthStore struct {
	mock.Mock
}

func (m *MockHealthStore) CheckConnectivity(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
